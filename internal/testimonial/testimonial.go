package testimonial

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/course-platform/internal"
	"github.com/frahmantamala/course-platform/internal/core/common/validation"
	testimonialDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/testimonial"
)

type SubmitDTO struct {
	Name       string `json:"name"`
	Occupation string `json:"occupation"`
	Message    string `json:"message"`
	Rating     int    `json:"rating"`
}

func (d *SubmitDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("name", d.Name).Required().MaxLength(100)
	validator.Field("message", d.Message).Required().MaxLength(2000)
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	if d.Rating < 1 || d.Rating > 5 {
		return errors.NewValidationError("rating must be between 1 and 5", errors.ErrCodeValidationFailed)
	}
	return nil
}

type RepositoryAPI interface {
	ListApproved() ([]testimonialDatamodel.Testimonial, error)
	ListAll() ([]testimonialDatamodel.Testimonial, error)
	GetByID(id int64) (*testimonialDatamodel.Testimonial, error)
	Create(t *testimonialDatamodel.Testimonial) error
	SetApproved(id int64, approved bool) error
	Delete(id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListApproved is the public view; unmoderated submissions stay hidden.
func (s *Service) ListApproved(ctx context.Context) ([]testimonialDatamodel.Testimonial, error) {
	rows, err := s.repo.ListApproved()
	if err != nil {
		s.logger.Error("failed to list testimonials", "error", err)
		return nil, errors.NewInternalError("failed to list testimonials", err)
	}
	return rows, nil
}

func (s *Service) Submit(ctx context.Context, dto *SubmitDTO) (*testimonialDatamodel.Testimonial, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	t := &testimonialDatamodel.Testimonial{
		Name:       dto.Name,
		Occupation: dto.Occupation,
		Message:    dto.Message,
		Rating:     dto.Rating,
	}
	if err := s.repo.Create(t); err != nil {
		s.logger.Error("failed to save testimonial", "error", err)
		return nil, errors.NewInternalError("failed to save testimonial", err)
	}

	s.logger.Info("testimonial submitted", "testimonial_id", t.ID)
	return t, nil
}

func (s *Service) AdminList(ctx context.Context) ([]testimonialDatamodel.Testimonial, error) {
	rows, err := s.repo.ListAll()
	if err != nil {
		s.logger.Error("failed to list testimonials for admin", "error", err)
		return nil, errors.NewInternalError("failed to list testimonials", err)
	}
	return rows, nil
}

func (s *Service) Approve(ctx context.Context, id int64, approved bool) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return errors.ErrTestimonialNotFound
	}
	if err := s.repo.SetApproved(id, approved); err != nil {
		s.logger.Error("failed to update testimonial approval", "error", err, "testimonial_id", id)
		return errors.NewInternalError("failed to update testimonial", err)
	}
	s.logger.Info("testimonial moderation updated", "testimonial_id", id, "approved", approved)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return errors.ErrTestimonialNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete testimonial", "error", err, "testimonial_id", id)
		return errors.NewInternalError("failed to delete testimonial", err)
	}
	return nil
}
