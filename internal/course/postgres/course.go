package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/course-platform/internal/course"
	courseDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/course"
	progressDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/progress"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) course.RepositoryAPI {
	return &Repository{
		db: db,
	}
}

func (r *Repository) ListPublished() ([]courseDatamodel.Course, error) {
	var courses []courseDatamodel.Course
	err := r.db.Preload("Videos").
		Where("is_published = ?", true).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *Repository) GetPublishedByID(id int64) (*courseDatamodel.Course, error) {
	var c courseDatamodel.Course
	err := r.db.Preload("Videos").
		Where("is_published = ?", true).
		First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) ListAll() ([]courseDatamodel.Course, error) {
	var courses []courseDatamodel.Course
	err := r.db.Preload("Videos").Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *Repository) GetByID(id int64) (*courseDatamodel.Course, error) {
	var c courseDatamodel.Course
	if err := r.db.Preload("Videos").First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) Create(c *courseDatamodel.Course) error {
	return r.db.Create(c).Error
}

func (r *Repository) Update(c *courseDatamodel.Course) error {
	return r.db.Save(c).Error
}

func (r *Repository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&courseDatamodel.Video{}).Error; err != nil {
			return err
		}
		return tx.Delete(&courseDatamodel.Course{}, id).Error
	})
}

func (r *Repository) GetVideo(id int64) (*courseDatamodel.Video, error) {
	var v courseDatamodel.Video
	if err := r.db.First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repository) CreateVideo(v *courseDatamodel.Video) error {
	return r.db.Create(v).Error
}

func (r *Repository) DeleteVideo(id int64) error {
	return r.db.Delete(&courseDatamodel.Video{}, id).Error
}

func (r *Repository) GetProgress(userID, videoID int64) (*progressDatamodel.VideoProgress, error) {
	var p progressDatamodel.VideoProgress
	err := r.db.Where("user_id = ? AND video_id = ?", userID, videoID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProgress writes one heartbeat row per (user, video).
func (r *Repository) UpsertProgress(p *progressDatamodel.VideoProgress) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"watch_time_sec":     p.WatchTimeSec,
			"total_duration_sec": p.TotalDuration,
			"is_completed":       p.IsCompleted,
		}),
	}).Create(p).Error
}

func (r *Repository) ListProgress(userID, courseID int64) ([]progressDatamodel.VideoProgress, error) {
	var rows []progressDatamodel.VideoProgress
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).Find(&rows).Error
	return rows, err
}
