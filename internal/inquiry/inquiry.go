package inquiry

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/course-platform/internal"
	"github.com/frahmantamala/course-platform/internal/core/common/validation"
	inquiryDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/inquiry"
)

type SubmitDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (d *SubmitDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("name", d.Name).Required().MaxLength(100)
	validator.Field("email", d.Email).Required().Email()
	validator.Field("phone", d.Phone).Phone()
	validator.Field("message", d.Message).Required().MaxLength(5000)
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type RepositoryAPI interface {
	Create(i *inquiryDatamodel.Inquiry) error
	ListAll() ([]inquiryDatamodel.Inquiry, error)
	GetByID(id int64) (*inquiryDatamodel.Inquiry, error)
	SetStatus(id int64, status string) error
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

func (s *Service) Submit(ctx context.Context, dto *SubmitDTO) (*inquiryDatamodel.Inquiry, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	i := &inquiryDatamodel.Inquiry{
		Name:    dto.Name,
		Email:   dto.Email,
		Phone:   dto.Phone,
		Subject: dto.Subject,
		Message: dto.Message,
		Status:  inquiryDatamodel.StatusOpen,
	}
	if err := s.repo.Create(i); err != nil {
		s.logger.Error("failed to save inquiry", "error", err)
		return nil, errors.NewInternalError("failed to save inquiry", err)
	}

	s.logger.Info("inquiry submitted", "inquiry_id", i.ID)
	return i, nil
}

func (s *Service) AdminList(ctx context.Context) ([]inquiryDatamodel.Inquiry, error) {
	rows, err := s.repo.ListAll()
	if err != nil {
		s.logger.Error("failed to list inquiries", "error", err)
		return nil, errors.NewInternalError("failed to list inquiries", err)
	}
	return rows, nil
}

func (s *Service) Resolve(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return errors.ErrInquiryNotFound
	}
	if err := s.repo.SetStatus(id, inquiryDatamodel.StatusResolved); err != nil {
		s.logger.Error("failed to resolve inquiry", "error", err, "inquiry_id", id)
		return errors.NewInternalError("failed to update inquiry", err)
	}
	s.logger.Info("inquiry resolved", "inquiry_id", id)
	return nil
}
