package postgres

import (
	"gorm.io/gorm"

	"github.com/frahmantamala/course-platform/internal/access"
	userDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) access.RepositoryAPI {
	return &Repository{
		db: db,
	}
}

func (r *Repository) HasPurchase(userID, courseID int64) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.PurchasedCourse{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
