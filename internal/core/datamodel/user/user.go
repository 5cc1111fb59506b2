package user

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID               int64      `gorm:"primaryKey"`
	Email            string     `gorm:"column:email;not null;uniqueIndex"`
	Phone            string     `gorm:"column:phone"`
	FirstName        string     `gorm:"column:first_name"`
	LastName         string     `gorm:"column:last_name"`
	PasswordHash     string     `gorm:"column:password_hash;not null"`
	Role             string     `gorm:"column:role;default:user"`
	IsActive         bool       `gorm:"column:is_active;default:true"`
	IsVerified       bool       `gorm:"column:is_verified;default:false"`
	OTP              *string    `gorm:"column:otp"`
	OTPGeneratedAt   *time.Time `gorm:"column:otp_generated_at"`
	PurchasedCourses []PurchasedCourse
	CreatedAt        time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt        time.Time `gorm:"column:updated_at;default:now()"`
}

// PurchasedCourse is one row of the user's entitlement set. The unique
// index on (user_id, course_id) is what makes entitlement grants
// idempotent under duplicate gateway callbacks.
type PurchasedCourse struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_user_course"`
	CourseID  int64     `gorm:"column:course_id;not null;uniqueIndex:idx_user_course"`
	OrderID   string    `gorm:"column:order_id"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (PurchasedCourse) TableName() string {
	return "purchased_courses"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}
