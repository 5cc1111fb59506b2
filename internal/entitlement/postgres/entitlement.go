package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	courseDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/course"
	eventDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/event"
	orderDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/order"
	transactionDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/transaction"
	userDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/user"
	"github.com/frahmantamala/course-platform/internal/entitlement"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) entitlement.RepositoryAPI {
	return &Repository{
		db: db,
	}
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

func (r *Repository) GetUserByEmail(email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetOrderByGatewayID(gatewayOrderID string) (*orderDatamodel.PendingOrder, error) {
	var o orderDatamodel.PendingOrder
	if err := r.db.Where("gateway_order_id = ?", gatewayOrderID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) GetRegistration(eventID int64, email, gatewayOrderID string) (*eventDatamodel.Registration, error) {
	var reg eventDatamodel.Registration
	if err := r.db.Where("event_id = ? AND email = ? AND gateway_order_id = ?", eventID, email, gatewayOrderID).
		First(&reg).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

// MarkOrderPaid upserts on gateway_order_id. A callback that arrives
// before the pending row exists still produces a paid order, and a
// replayed callback rewrites the same values.
func (r *Repository) MarkOrderPaid(o *orderDatamodel.PendingOrder) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "gateway_order_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":     o.Status,
			"payment_id": o.PaymentID,
			"paid_at":    o.PaidAt,
			"email":      o.Email,
			"phone":      o.Phone,
		}),
	}).Create(o).Error
}

// GrantCoursePurchase relies on the unique (user_id, course_id) index;
// a duplicate grant is silently dropped.
func (r *Repository) GrantCoursePurchase(p *userDatamodel.PurchasedCourse) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(p).Error
}

// RecordTransaction keeps the purchase record immutable: once a row for
// order_id exists it is never rewritten.
func (r *Repository) RecordTransaction(t *transactionDatamodel.Transaction) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoNothing: true,
	}).Create(t).Error
}

func (r *Repository) MarkRegistrationPaid(reg *eventDatamodel.Registration) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "event_id"}, {Name: "email"}, {Name: "gateway_order_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"payment_status": reg.PaymentStatus,
			"payment_id":     reg.PaymentID,
			"paid_at":        reg.PaidAt,
		}),
	}).Create(reg).Error
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
