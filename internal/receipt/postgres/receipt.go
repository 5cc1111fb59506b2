package postgres

import (
	"gorm.io/gorm"

	courseDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/course"
	transactionDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/transaction"
	"github.com/frahmantamala/course-platform/internal/receipt"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) receipt.RepositoryAPI {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetTransaction(id int64) (*transactionDatamodel.Transaction, error) {
	var t transactionDatamodel.Transaction
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) GetCourse(id int64) (*courseDatamodel.Course, error) {
	var c courseDatamodel.Course
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
