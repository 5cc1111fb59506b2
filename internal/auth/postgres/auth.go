package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/course-platform/internal/auth"
	userDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.RepositoryAPI {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByEmail(email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByID(userID int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.First(&u, userID).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) Create(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}

func (r *Repository) SetOTP(userID int64, otp string, generatedAt time.Time) error {
	return r.db.Model(&userDatamodel.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"otp":              otp,
		"otp_generated_at": generatedAt,
		"updated_at":       time.Now(),
	}).Error
}

func (r *Repository) ClearOTP(userID int64) error {
	return r.db.Model(&userDatamodel.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"otp":              nil,
		"otp_generated_at": nil,
		"is_verified":      true,
		"updated_at":       time.Now(),
	}).Error
}
