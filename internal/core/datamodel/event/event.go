package event

import (
	"time"
)

type Event struct {
	ID          int64     `gorm:"primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description"`
	Speaker     string    `gorm:"column:speaker"`
	Amount      int64     `gorm:"column:amount;not null"`
	Currency    string    `gorm:"column:currency;default:INR"`
	JoinLink    string    `gorm:"column:join_link"`
	StartsAt    time.Time `gorm:"column:starts_at"`
	IsPublished bool      `gorm:"column:is_published;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Registration records one attendee for one event. The unique index on
// (event_id, email, gateway_order_id) keeps duplicate callbacks from
// producing a second row.
type Registration struct {
	ID             int64      `gorm:"primaryKey"`
	EventID        int64      `gorm:"column:event_id;not null;uniqueIndex:idx_event_email_order"`
	Email          string     `gorm:"column:email;not null;uniqueIndex:idx_event_email_order"`
	Phone          string     `gorm:"column:phone;not null"`
	FirstName      string     `gorm:"column:first_name"`
	LastName       string     `gorm:"column:last_name"`
	GatewayOrderID string     `gorm:"column:gateway_order_id;uniqueIndex:idx_event_email_order"`
	PaymentID      string     `gorm:"column:payment_id"`
	PaymentStatus  string     `gorm:"column:payment_status;default:pending"`
	JoinLinkSent   bool       `gorm:"column:join_link_sent;default:false"`
	PaidAt         *time.Time `gorm:"column:paid_at"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
