package postgres

import (
	"gorm.io/gorm"

	testimonialDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/testimonial"
	"github.com/frahmantamala/course-platform/internal/testimonial"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) testimonial.RepositoryAPI {
	return &Repository{
		db: db,
	}
}

func (r *Repository) ListApproved() ([]testimonialDatamodel.Testimonial, error) {
	var rows []testimonialDatamodel.Testimonial
	err := r.db.Where("is_approved = ?", true).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *Repository) ListAll() ([]testimonialDatamodel.Testimonial, error) {
	var rows []testimonialDatamodel.Testimonial
	err := r.db.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *Repository) GetByID(id int64) (*testimonialDatamodel.Testimonial, error) {
	var t testimonialDatamodel.Testimonial
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) Create(t *testimonialDatamodel.Testimonial) error {
	return r.db.Create(t).Error
}

func (r *Repository) SetApproved(id int64, approved bool) error {
	return r.db.Model(&testimonialDatamodel.Testimonial{}).
		Where("id = ?", id).
		Update("is_approved", approved).Error
}

func (r *Repository) Delete(id int64) error {
	return r.db.Delete(&testimonialDatamodel.Testimonial{}, id).Error
}
