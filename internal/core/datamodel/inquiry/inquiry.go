package inquiry

import (
	"time"
)

const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

type Inquiry struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"column:name;not null"`
	Email     string `gorm:"column:email;not null"`
	Phone     string `gorm:"column:phone"`
	Subject   string `gorm:"column:subject"`
	Message   string `gorm:"column:message;not null"`
	Status    string `gorm:"column:status;default:open"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
