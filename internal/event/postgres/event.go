package postgres

import (
	"gorm.io/gorm"

	eventDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/event"
	"github.com/frahmantamala/course-platform/internal/event"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) event.RepositoryAPI {
	return &Repository{
		db: db,
	}
}

func (r *Repository) ListPublished() ([]eventDatamodel.Event, error) {
	var rows []eventDatamodel.Event
	err := r.db.Where("is_published = ?", true).Order("starts_at ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) ListAll() ([]eventDatamodel.Event, error) {
	var rows []eventDatamodel.Event
	err := r.db.Order("starts_at ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) GetByID(id int64) (*eventDatamodel.Event, error) {
	var e eventDatamodel.Event
	if err := r.db.First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) Create(e *eventDatamodel.Event) error {
	return r.db.Create(e).Error
}

func (r *Repository) Update(e *eventDatamodel.Event) error {
	return r.db.Save(e).Error
}

func (r *Repository) Delete(id int64) error {
	return r.db.Delete(&eventDatamodel.Event{}, id).Error
}

func (r *Repository) ListRegistrations(eventID int64) ([]eventDatamodel.Registration, error) {
	var rows []eventDatamodel.Registration
	err := r.db.Where("event_id = ?", eventID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}
