package postgres

import (
	"gorm.io/gorm"

	courseDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/course"
	eventDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/event"
	orderDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/order"
	"github.com/frahmantamala/course-platform/internal/notification"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) notification.RetryRepositoryAPI {
	return &Repository{
		db: db,
	}
}

func (r *Repository) ListUnnotifiedPaidOrders(limit int) ([]orderDatamodel.PendingOrder, error) {
	var rows []orderDatamodel.PendingOrder
	err := r.db.Where("status = ? AND notified = ?", orderDatamodel.StatusPaid, false).
		Order("updated_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) ListUnsentPaidRegistrations(limit int) ([]eventDatamodel.Registration, error) {
	var rows []eventDatamodel.Registration
	err := r.db.Where("payment_status = ? AND join_link_sent = ?", eventDatamodel.PaymentStatusPaid, false).
		Order("updated_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) GetCourse(id int64) (*courseDatamodel.Course, error) {
	var c courseDatamodel.Course
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) GetEvent(id int64) (*eventDatamodel.Event, error) {
	var e eventDatamodel.Event
	if err := r.db.First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) SetOrderNotified(gatewayOrderID string, notified bool) error {
	return r.db.Model(&orderDatamodel.PendingOrder{}).
		Where("gateway_order_id = ?", gatewayOrderID).
		Update("notified", notified).Error
}

func (r *Repository) SetJoinLinkSent(eventID int64, email, gatewayOrderID string, sent bool) error {
	return r.db.Model(&eventDatamodel.Registration{}).
		Where("event_id = ? AND email = ? AND gateway_order_id = ?", eventID, email, gatewayOrderID).
		Update("join_link_sent", sent).Error
}
