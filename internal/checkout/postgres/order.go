package postgres

import (
	"gorm.io/gorm"

	"github.com/frahmantamala/course-platform/internal/checkout"
	courseDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/course"
	eventDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/event"
	orderDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/order"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) checkout.RepositoryAPI {
	return &OrderRepository{
		db: db,
	}
}

func (r *OrderRepository) GetCourse(id int64) (*courseDatamodel.Course, error) {
	var c courseDatamodel.Course
	err := r.db.Where("is_published = ?", true).First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *OrderRepository) GetEvent(id int64) (*eventDatamodel.Event, error) {
	var e eventDatamodel.Event
	err := r.db.Where("is_published = ?", true).First(&e, id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *OrderRepository) CreateOrder(o *orderDatamodel.PendingOrder) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) CreateRegistration(reg *eventDatamodel.Registration) error {
	return r.db.Create(reg).Error
}
