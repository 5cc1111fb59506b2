package progress

import (
	"time"
)

// VideoProgress is upserted on each playback heartbeat. One row per
// (user, video), owned exclusively by the authenticated user.
type VideoProgress struct {
	ID            int64     `gorm:"primaryKey"`
	UserID        int64     `gorm:"column:user_id;not null;uniqueIndex:idx_user_video"`
	VideoID       int64     `gorm:"column:video_id;not null;uniqueIndex:idx_user_video"`
	CourseID      int64     `gorm:"column:course_id;not null;index"`
	WatchTimeSec  int64     `gorm:"column:watch_time_sec;default:0"`
	TotalDuration int64     `gorm:"column:total_duration_sec;default:0"`
	IsCompleted   bool      `gorm:"column:is_completed;default:false"`
	UpdatedAt     time.Time `gorm:"column:updated_at;default:now()"`
	CreatedAt     time.Time `gorm:"column:created_at;default:now()"`
}

func (VideoProgress) TableName() string {
	return "video_progress"
}
