package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeOrderPaid          = "order.paid"
	EventTypeEntitlementGranted = "entitlement.granted"
	EventTypeNotificationFailed = "notification.failed"
)

type OrderPaidEvent struct {
	BaseEvent
	GatewayOrderID string `json:"gateway_order_id"`
	PaymentID      string `json:"payment_id"`
	ItemType       string `json:"item_type"`
	ItemID         int64  `json:"item_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	BuyerEmail     string `json:"buyer_email"`
}

func NewOrderPaidEvent(gatewayOrderID, paymentID, itemType string, itemID, amount int64, currency, buyerEmail string) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeOrderPaid,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"gateway_order_id": gatewayOrderID,
				"payment_id":       paymentID,
				"item_type":        itemType,
				"item_id":          itemID,
				"amount":           amount,
				"currency":         currency,
				"buyer_email":      buyerEmail,
			},
		},
		GatewayOrderID: gatewayOrderID,
		PaymentID:      paymentID,
		ItemType:       itemType,
		ItemID:         itemID,
		Amount:         amount,
		Currency:       currency,
		BuyerEmail:     buyerEmail,
	}
}

type EntitlementGrantedEvent struct {
	BaseEvent
	ItemType       string `json:"item_type"`
	ItemID         int64  `json:"item_id"`
	BuyerEmail     string `json:"buyer_email"`
	GatewayOrderID string `json:"gateway_order_id"`
}

func NewEntitlementGrantedEvent(itemType string, itemID int64, buyerEmail, gatewayOrderID string) *EntitlementGrantedEvent {
	return &EntitlementGrantedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeEntitlementGranted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"item_type":        itemType,
				"item_id":          itemID,
				"buyer_email":      buyerEmail,
				"gateway_order_id": gatewayOrderID,
			},
		},
		ItemType:       itemType,
		ItemID:         itemID,
		BuyerEmail:     buyerEmail,
		GatewayOrderID: gatewayOrderID,
	}
}

type NotificationFailedEvent struct {
	BaseEvent
	GatewayOrderID string `json:"gateway_order_id"`
	Recipient      string `json:"recipient"`
	Reason         string `json:"reason"`
}

func NewNotificationFailedEvent(gatewayOrderID, recipient, reason string) *NotificationFailedEvent {
	return &NotificationFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeNotificationFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"gateway_order_id": gatewayOrderID,
				"recipient":        recipient,
				"reason":           reason,
			},
		},
		GatewayOrderID: gatewayOrderID,
		Recipient:      recipient,
		Reason:         reason,
	}
}
