package course

import (
	"context"
	"log/slog"
	"sort"

	errors "github.com/frahmantamala/course-platform/internal"
	"github.com/frahmantamala/course-platform/internal/access"
	"github.com/frahmantamala/course-platform/internal/auth"
	courseDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/course"
	progressDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/progress"
)

// CompletionRatio marks a video completed once this share of its
// duration has been watched.
const CompletionRatio = 0.9

type RepositoryAPI interface {
	ListPublished() ([]courseDatamodel.Course, error)
	GetPublishedByID(id int64) (*courseDatamodel.Course, error)
	ListAll() ([]courseDatamodel.Course, error)
	GetByID(id int64) (*courseDatamodel.Course, error)
	Create(c *courseDatamodel.Course) error
	Update(c *courseDatamodel.Course) error
	Delete(id int64) error
	GetVideo(id int64) (*courseDatamodel.Video, error)
	CreateVideo(v *courseDatamodel.Video) error
	DeleteVideo(id int64) error
	GetProgress(userID, videoID int64) (*progressDatamodel.VideoProgress, error)
	UpsertProgress(p *progressDatamodel.VideoProgress) error
	ListProgress(userID, courseID int64) ([]progressDatamodel.VideoProgress, error)
}

type AccessGate interface {
	Check(user *auth.User, c *courseDatamodel.Course) access.Result
}

type Service struct {
	repo   RepositoryAPI
	gate   AccessGate
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, gate AccessGate, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		gate:   gate,
		logger: logger,
	}
}

func (s *Service) ListCourses(ctx context.Context) ([]CourseSummary, error) {
	courses, err := s.repo.ListPublished()
	if err != nil {
		s.logger.Error("failed to list courses", "error", err)
		return nil, errors.NewInternalError("failed to list courses", err)
	}

	summaries := make([]CourseSummary, 0, len(courses))
	for i := range courses {
		summaries = append(summaries, toSummary(&courses[i]))
	}
	return summaries, nil
}

// GetCourse builds the detail view for the catalog page. The access
// gate runs on every call; locked videos keep their metadata but lose
// the playback URL.
func (s *Service) GetCourse(ctx context.Context, id int64, user *auth.User) (*CourseDetail, error) {
	c, err := s.repo.GetPublishedByID(id)
	if err != nil {
		s.logger.Error("course not found", "error", err, "course_id", id)
		return nil, errors.ErrCourseNotFound
	}

	result := s.gate.Check(user, c)

	detail := &CourseDetail{
		CourseSummary: toSummary(c),
		PreviewURL:    c.PreviewURL,
		IsPurchased:   result.AccessType == access.TypePurchased,
		Access:        result,
		Videos:        make([]VideoView, 0, len(c.Videos)),
	}

	sort.Slice(c.Videos, func(i, j int) bool {
		return c.Videos[i].Position < c.Videos[j].Position
	})

	for _, v := range c.Videos {
		view := VideoView{
			ID:          v.ID,
			Title:       v.Title,
			DurationSec: v.DurationSec,
			Position:    v.Position,
			IsPreview:   v.IsPreview,
		}
		if result.HasAccess || v.IsPreview {
			view.URL = v.URL
		}
		detail.Videos = append(detail.Videos, view)
	}

	return detail, nil
}

// SaveProgress upserts a playback heartbeat. Watch time only moves
// forward; a late heartbeat with a smaller value cannot rewind it.
func (s *Service) SaveProgress(ctx context.Context, user *auth.User, videoID int64, dto *SaveProgressDTO) (*VideoProgressView, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	v, err := s.repo.GetVideo(videoID)
	if err != nil {
		s.logger.Error("video not found for progress", "error", err, "video_id", videoID)
		return nil, errors.ErrVideoNotFound
	}

	c, err := s.repo.GetPublishedByID(v.CourseID)
	if err != nil {
		return nil, errors.ErrCourseNotFound
	}
	if result := s.gate.Check(user, c); !result.HasAccess {
		s.logger.Warn("progress rejected, no access",
			"user_id", user.ID,
			"course_id", c.ID,
			"video_id", videoID)
		return nil, errors.ErrAccessDenied
	}

	watchTime := dto.WatchTimeSec
	if existing, err := s.repo.GetProgress(user.ID, videoID); err == nil && existing != nil {
		if existing.WatchTimeSec > watchTime {
			watchTime = existing.WatchTimeSec
		}
	}

	p := &progressDatamodel.VideoProgress{
		UserID:        user.ID,
		VideoID:       videoID,
		CourseID:      v.CourseID,
		WatchTimeSec:  watchTime,
		TotalDuration: dto.TotalDurationSec,
		IsCompleted:   float64(watchTime) >= float64(dto.TotalDurationSec)*CompletionRatio,
	}
	if err := s.repo.UpsertProgress(p); err != nil {
		s.logger.Error("failed to save progress", "error", err, "user_id", user.ID, "video_id", videoID)
		return nil, errors.NewInternalError("failed to save progress", err)
	}

	return &VideoProgressView{
		VideoID:      videoID,
		WatchTimeSec: p.WatchTimeSec,
		IsCompleted:  p.IsCompleted,
	}, nil
}

func (s *Service) GetCourseProgress(ctx context.Context, user *auth.User, courseID int64) (*CourseProgress, error) {
	c, err := s.repo.GetPublishedByID(courseID)
	if err != nil {
		return nil, errors.ErrCourseNotFound
	}
	if result := s.gate.Check(user, c); !result.HasAccess {
		return nil, errors.ErrAccessDenied
	}

	rows, err := s.repo.ListProgress(user.ID, courseID)
	if err != nil {
		s.logger.Error("failed to load progress", "error", err, "user_id", user.ID, "course_id", courseID)
		return nil, errors.NewInternalError("failed to load progress", err)
	}

	cp := &CourseProgress{
		CourseID:    courseID,
		TotalVideos: len(c.Videos),
		Videos:      make([]VideoProgressView, 0, len(rows)),
	}
	for _, row := range rows {
		if row.IsCompleted {
			cp.CompletedVideos++
		}
		cp.Videos = append(cp.Videos, VideoProgressView{
			VideoID:      row.VideoID,
			WatchTimeSec: row.WatchTimeSec,
			IsCompleted:  row.IsCompleted,
		})
	}
	if cp.TotalVideos > 0 {
		cp.PercentComplete = float64(cp.CompletedVideos) / float64(cp.TotalVideos) * 100
	}

	return cp, nil
}

func (s *Service) AdminListCourses(ctx context.Context) ([]courseDatamodel.Course, error) {
	courses, err := s.repo.ListAll()
	if err != nil {
		s.logger.Error("failed to list courses for admin", "error", err)
		return nil, errors.NewInternalError("failed to list courses", err)
	}
	return courses, nil
}

func (s *Service) CreateCourse(ctx context.Context, dto *CreateCourseDTO) (*courseDatamodel.Course, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	currency := dto.Currency
	if currency == "" {
		currency = "INR"
	}

	c := &courseDatamodel.Course{
		Title:       dto.Title,
		Slug:        dto.Slug,
		Description: dto.Description,
		Instructor:  dto.Instructor,
		Thumbnail:   dto.Thumbnail,
		PreviewURL:  dto.PreviewURL,
		Amount:      dto.Amount,
		Currency:    currency,
		IsFree:      dto.IsFree,
		IsPublished: dto.IsPublished,
	}
	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create course", "error", err, "slug", dto.Slug)
		return nil, errors.NewInternalError("failed to create course", err)
	}

	s.logger.Info("course created", "course_id", c.ID, "slug", c.Slug)
	return c, nil
}

func (s *Service) UpdateCourse(ctx context.Context, id int64, dto *UpdateCourseDTO) (*courseDatamodel.Course, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrCourseNotFound
	}

	applyCourseUpdate(c, dto)

	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to update course", "error", err, "course_id", id)
		return nil, errors.NewInternalError("failed to update course", err)
	}

	s.logger.Info("course updated", "course_id", c.ID)
	return c, nil
}

func (s *Service) DeleteCourse(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return errors.ErrCourseNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete course", "error", err, "course_id", id)
		return errors.NewInternalError("failed to delete course", err)
	}
	s.logger.Info("course deleted", "course_id", id)
	return nil
}

func (s *Service) AddVideo(ctx context.Context, courseID int64, dto *CreateVideoDTO) (*courseDatamodel.Video, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(courseID); err != nil {
		return nil, errors.ErrCourseNotFound
	}

	v := &courseDatamodel.Video{
		CourseID:    courseID,
		Title:       dto.Title,
		URL:         dto.URL,
		DurationSec: dto.DurationSec,
		Position:    dto.Position,
		IsPreview:   dto.IsPreview,
	}
	if err := s.repo.CreateVideo(v); err != nil {
		s.logger.Error("failed to add video", "error", err, "course_id", courseID)
		return nil, errors.NewInternalError("failed to add video", err)
	}

	s.logger.Info("video added", "course_id", courseID, "video_id", v.ID)
	return v, nil
}

func (s *Service) RemoveVideo(ctx context.Context, videoID int64) error {
	if _, err := s.repo.GetVideo(videoID); err != nil {
		return errors.ErrVideoNotFound
	}
	if err := s.repo.DeleteVideo(videoID); err != nil {
		s.logger.Error("failed to delete video", "error", err, "video_id", videoID)
		return errors.NewInternalError("failed to delete video", err)
	}
	s.logger.Info("video deleted", "video_id", videoID)
	return nil
}

func toSummary(c *courseDatamodel.Course) CourseSummary {
	return CourseSummary{
		ID:          c.ID,
		Title:       c.Title,
		Slug:        c.Slug,
		Description: c.Description,
		Instructor:  c.Instructor,
		Thumbnail:   c.Thumbnail,
		Amount:      c.Amount,
		Currency:    c.Currency,
		IsFree:      c.IsFree,
		VideoCount:  len(c.Videos),
	}
}

func applyCourseUpdate(c *courseDatamodel.Course, dto *UpdateCourseDTO) {
	if dto.Title != nil {
		c.Title = *dto.Title
	}
	if dto.Slug != nil {
		c.Slug = *dto.Slug
	}
	if dto.Description != nil {
		c.Description = *dto.Description
	}
	if dto.Instructor != nil {
		c.Instructor = *dto.Instructor
	}
	if dto.Thumbnail != nil {
		c.Thumbnail = *dto.Thumbnail
	}
	if dto.PreviewURL != nil {
		c.PreviewURL = *dto.PreviewURL
	}
	if dto.Amount != nil {
		c.Amount = *dto.Amount
	}
	if dto.Currency != nil {
		c.Currency = *dto.Currency
	}
	if dto.IsFree != nil {
		c.IsFree = *dto.IsFree
	}
	if dto.IsPublished != nil {
		c.IsPublished = *dto.IsPublished
	}
}
