package course

import (
	errors "github.com/frahmantamala/course-platform/internal"
	"github.com/frahmantamala/course-platform/internal/access"
	"github.com/frahmantamala/course-platform/internal/core/common/validation"
)

type CourseSummary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Instructor  string `json:"instructor"`
	Thumbnail   string `json:"thumbnail"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	IsFree      bool   `json:"isFree"`
	VideoCount  int    `json:"videoCount"`
}

// VideoView hides the playback URL unless the caller passed the access
// gate or the video is a preview. The omitempty keeps locked URLs out
// of the payload entirely rather than sending empty strings.
type VideoView struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	DurationSec int64  `json:"durationSec"`
	Position    int    `json:"position"`
	IsPreview   bool   `json:"isPreview"`
	URL         string `json:"url,omitempty"`
}

type CourseDetail struct {
	CourseSummary
	PreviewURL  string        `json:"previewUrl,omitempty"`
	IsPurchased bool          `json:"isPurchased"`
	Access      access.Result `json:"access"`
	Videos      []VideoView   `json:"videos"`
}

type SaveProgressDTO struct {
	WatchTimeSec     int64 `json:"watchTimeSec"`
	TotalDurationSec int64 `json:"totalDurationSec"`
}

func (d *SaveProgressDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("watchTimeSec", d.WatchTimeSec).MinInt(0, errors.ErrCodeValidationFailed)
	validator.Field("totalDurationSec", d.TotalDurationSec).MinInt(1, errors.ErrCodeValidationFailed)
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	if d.WatchTimeSec > d.TotalDurationSec {
		return errors.NewValidationError("watchTimeSec cannot exceed totalDurationSec", errors.ErrCodeValidationFailed)
	}
	return nil
}

type VideoProgressView struct {
	VideoID      int64 `json:"videoId"`
	WatchTimeSec int64 `json:"watchTimeSec"`
	IsCompleted  bool  `json:"isCompleted"`
}

type CourseProgress struct {
	CourseID        int64               `json:"courseId"`
	TotalVideos     int                 `json:"totalVideos"`
	CompletedVideos int                 `json:"completedVideos"`
	PercentComplete float64             `json:"percentComplete"`
	Videos          []VideoProgressView `json:"videos"`
}

type CreateCourseDTO struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Instructor  string `json:"instructor"`
	Thumbnail   string `json:"thumbnail"`
	PreviewURL  string `json:"previewUrl"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	IsFree      bool   `json:"isFree"`
	IsPublished bool   `json:"isPublished"`
}

func (d *CreateCourseDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("title", d.Title).Required().MaxLength(255)
	validator.Field("slug", d.Slug).Required().MaxLength(255)
	if !d.IsFree {
		validator.Field("amount", d.Amount).Required().MinInt(1, errors.ErrCodeInvalidAmount)
	}
	if d.Currency != "" {
		validator.Field("currency", d.Currency).OneOf("INR", "USD")
	}
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type UpdateCourseDTO struct {
	Title       *string `json:"title,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	Instructor  *string `json:"instructor,omitempty"`
	Thumbnail   *string `json:"thumbnail,omitempty"`
	PreviewURL  *string `json:"previewUrl,omitempty"`
	Amount      *int64  `json:"amount,omitempty"`
	Currency    *string `json:"currency,omitempty"`
	IsFree      *bool   `json:"isFree,omitempty"`
	IsPublished *bool   `json:"isPublished,omitempty"`
}

func (d *UpdateCourseDTO) Validate() error {
	validator := validation.NewValidator()
	if d.Title != nil {
		validator.Field("title", *d.Title).Required().MaxLength(255)
	}
	if d.Slug != nil {
		validator.Field("slug", *d.Slug).Required().MaxLength(255)
	}
	if d.Amount != nil {
		validator.Field("amount", *d.Amount).MinInt(0, errors.ErrCodeInvalidAmount)
	}
	if d.Currency != nil {
		validator.Field("currency", *d.Currency).OneOf("INR", "USD")
	}
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type CreateVideoDTO struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	DurationSec int64  `json:"durationSec"`
	Position    int    `json:"position"`
	IsPreview   bool   `json:"isPreview"`
}

func (d *CreateVideoDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("title", d.Title).Required().MaxLength(255)
	validator.Field("url", d.URL).Required()
	validator.Field("durationSec", d.DurationSec).MinInt(0, errors.ErrCodeValidationFailed)
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
