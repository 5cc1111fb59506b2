package course

import (
	"time"
)

type Course struct {
	ID          int64   `gorm:"primaryKey"`
	Title       string  `gorm:"column:title;not null"`
	Slug        string  `gorm:"column:slug;not null;uniqueIndex"`
	Description string  `gorm:"column:description"`
	Instructor  string  `gorm:"column:instructor"`
	Thumbnail   string  `gorm:"column:thumbnail"`
	PreviewURL  string  `gorm:"column:preview_url"`
	Amount      int64   `gorm:"column:amount;not null"`
	Currency    string  `gorm:"column:currency;default:INR"`
	IsFree      bool    `gorm:"column:is_free;default:false"`
	IsPublished bool    `gorm:"column:is_published;default:false"`
	Videos      []Video `gorm:"foreignKey:CourseID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Video struct {
	ID          int64  `gorm:"primaryKey"`
	CourseID    int64  `gorm:"column:course_id;not null;index"`
	Title       string `gorm:"column:title;not null"`
	URL         string `gorm:"column:url;not null"`
	DurationSec int64  `gorm:"column:duration_sec"`
	Position    int    `gorm:"column:position"`
	IsPreview   bool   `gorm:"column:is_preview;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
