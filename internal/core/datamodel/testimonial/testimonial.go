package testimonial

import (
	"time"
)

type Testimonial struct {
	ID         int64  `gorm:"primaryKey"`
	Name       string `gorm:"column:name;not null"`
	Occupation string `gorm:"column:occupation"`
	Message    string `gorm:"column:message;not null"`
	Rating     int    `gorm:"column:rating"`
	IsApproved bool   `gorm:"column:is_approved;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
