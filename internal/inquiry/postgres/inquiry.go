package postgres

import (
	"gorm.io/gorm"

	inquiryDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/inquiry"
	"github.com/frahmantamala/course-platform/internal/inquiry"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) inquiry.RepositoryAPI {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(i *inquiryDatamodel.Inquiry) error {
	return r.db.Create(i).Error
}

func (r *Repository) ListAll() ([]inquiryDatamodel.Inquiry, error) {
	var rows []inquiryDatamodel.Inquiry
	err := r.db.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *Repository) GetByID(id int64) (*inquiryDatamodel.Inquiry, error) {
	var i inquiryDatamodel.Inquiry
	if err := r.db.First(&i, id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *Repository) SetStatus(id int64, status string) error {
	return r.db.Model(&inquiryDatamodel.Inquiry{}).
		Where("id = ?", id).
		Update("status", status).Error
}
