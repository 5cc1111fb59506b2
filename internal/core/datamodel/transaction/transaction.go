package transaction

import (
	"time"
)

const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Transaction is the immutable purchase record for a course. Once the
// status reaches success the row is never updated again.
type Transaction struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	CourseID  int64     `gorm:"column:course_id;not null;index"`
	OrderID   string    `gorm:"column:order_id;not null;uniqueIndex"`
	PaymentID string    `gorm:"column:payment_id"`
	Amount    int64     `gorm:"column:amount;not null"`
	Currency  string    `gorm:"column:currency;not null"`
	Status    string    `gorm:"column:status;default:pending"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}
