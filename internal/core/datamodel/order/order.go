package order

import (
	"time"
)

const (
	ItemTypeCourse = "course"
	ItemTypeEvent  = "event"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusFailed  = "failed"
)

// PendingOrder is the platform's own record of a checkout attempt,
// distinct from the gateway-side order object. Rows are never deleted;
// they are the audit trail for reconciliation.
type PendingOrder struct {
	ID             int64      `gorm:"primaryKey"`
	ItemType       string     `gorm:"column:item_type;not null"`
	ItemID         int64      `gorm:"column:item_id;not null;index"`
	Email          string     `gorm:"column:email"`
	Phone          string     `gorm:"column:phone;not null"`
	Amount         int64      `gorm:"column:amount;not null"`
	Currency       string     `gorm:"column:currency;not null"`
	GatewayOrderID string     `gorm:"column:gateway_order_id;not null;uniqueIndex"`
	PaymentID      *string    `gorm:"column:payment_id"`
	Status         string     `gorm:"column:status;default:pending"`
	Notified       bool       `gorm:"column:notified;default:false"`
	PaidAt         *time.Time `gorm:"column:paid_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;default:now()"`
}

func (PendingOrder) TableName() string {
	return "pending_orders"
}
