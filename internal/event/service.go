package event

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/course-platform/internal"
	eventDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/event"
)

type RepositoryAPI interface {
	ListPublished() ([]eventDatamodel.Event, error)
	ListAll() ([]eventDatamodel.Event, error)
	GetByID(id int64) (*eventDatamodel.Event, error)
	Create(e *eventDatamodel.Event) error
	Update(e *eventDatamodel.Event) error
	Delete(id int64) error
	ListRegistrations(eventID int64) ([]eventDatamodel.Registration, error)
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

func (s *Service) ListEvents(ctx context.Context) ([]EventSummary, error) {
	rows, err := s.repo.ListPublished()
	if err != nil {
		s.logger.Error("failed to list events", "error", err)
		return nil, errors.NewInternalError("failed to list events", err)
	}

	summaries := make([]EventSummary, 0, len(rows))
	for _, e := range rows {
		summaries = append(summaries, EventSummary{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Speaker:     e.Speaker,
			Amount:      e.Amount,
			Currency:    e.Currency,
			StartsAt:    e.StartsAt,
		})
	}
	return summaries, nil
}

func (s *Service) AdminListEvents(ctx context.Context) ([]eventDatamodel.Event, error) {
	rows, err := s.repo.ListAll()
	if err != nil {
		s.logger.Error("failed to list events for admin", "error", err)
		return nil, errors.NewInternalError("failed to list events", err)
	}
	return rows, nil
}

func (s *Service) CreateEvent(ctx context.Context, dto *CreateEventDTO) (*eventDatamodel.Event, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	currency := dto.Currency
	if currency == "" {
		currency = "INR"
	}

	e := &eventDatamodel.Event{
		Title:       dto.Title,
		Description: dto.Description,
		Speaker:     dto.Speaker,
		Amount:      dto.Amount,
		Currency:    currency,
		JoinLink:    dto.JoinLink,
		StartsAt:    dto.StartsAt,
		IsPublished: dto.IsPublished,
	}
	if err := s.repo.Create(e); err != nil {
		s.logger.Error("failed to create event", "error", err, "title", dto.Title)
		return nil, errors.NewInternalError("failed to create event", err)
	}

	s.logger.Info("event created", "event_id", e.ID, "title", e.Title)
	return e, nil
}

func (s *Service) UpdateEvent(ctx context.Context, id int64, dto *UpdateEventDTO) (*eventDatamodel.Event, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrEventNotFound
	}

	if dto.Title != nil {
		e.Title = *dto.Title
	}
	if dto.Description != nil {
		e.Description = *dto.Description
	}
	if dto.Speaker != nil {
		e.Speaker = *dto.Speaker
	}
	if dto.Amount != nil {
		e.Amount = *dto.Amount
	}
	if dto.Currency != nil {
		e.Currency = *dto.Currency
	}
	if dto.JoinLink != nil {
		e.JoinLink = *dto.JoinLink
	}
	if dto.StartsAt != nil {
		e.StartsAt = *dto.StartsAt
	}
	if dto.IsPublished != nil {
		e.IsPublished = *dto.IsPublished
	}

	if err := s.repo.Update(e); err != nil {
		s.logger.Error("failed to update event", "error", err, "event_id", id)
		return nil, errors.NewInternalError("failed to update event", err)
	}

	s.logger.Info("event updated", "event_id", e.ID)
	return e, nil
}

func (s *Service) DeleteEvent(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return errors.ErrEventNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete event", "error", err, "event_id", id)
		return errors.NewInternalError("failed to delete event", err)
	}
	s.logger.Info("event deleted", "event_id", id)
	return nil
}

// ListRegistrations is admin-only; it exposes contact details and the
// join link delivery flag for manual follow-up when a send failed.
func (s *Service) ListRegistrations(ctx context.Context, eventID int64) ([]RegistrationView, error) {
	if _, err := s.repo.GetByID(eventID); err != nil {
		return nil, errors.ErrEventNotFound
	}

	rows, err := s.repo.ListRegistrations(eventID)
	if err != nil {
		s.logger.Error("failed to list registrations", "error", err, "event_id", eventID)
		return nil, errors.NewInternalError("failed to list registrations", err)
	}

	views := make([]RegistrationView, 0, len(rows))
	for _, reg := range rows {
		views = append(views, RegistrationView{
			ID:            reg.ID,
			EventID:       reg.EventID,
			Email:         reg.Email,
			Phone:         reg.Phone,
			FirstName:     reg.FirstName,
			LastName:      reg.LastName,
			PaymentStatus: reg.PaymentStatus,
			JoinLinkSent:  reg.JoinLinkSent,
			PaidAt:        reg.PaidAt,
		})
	}
	return views, nil
}
