package checkout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	errors "github.com/frahmantamala/course-platform/internal"
	courseDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/course"
	eventDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/event"
	orderDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/order"
	"github.com/frahmantamala/course-platform/internal/gateway"
)

// MinorUnitMultiplier converts a major-unit price to the gateway's minor
// currency unit (rupees to paise).
const MinorUnitMultiplier = 100

type RepositoryAPI interface {
	GetCourse(id int64) (*courseDatamodel.Course, error)
	GetEvent(id int64) (*eventDatamodel.Event, error)
	CreateOrder(o *orderDatamodel.PendingOrder) error
	CreateRegistration(reg *eventDatamodel.Registration) error
}

type Service struct {
	repo    RepositoryAPI
	gateway gateway.API
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, gw gateway.API, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		gateway: gw,
		logger:  logger,
	}
}

// CreateOrder validates the buyer's claim against the authoritative item
// price, registers the order with the gateway and records a PendingOrder.
// No entitlement is granted here.
func (s *Service) CreateOrder(ctx context.Context, dto *CreateOrderDTO) (*OrderResponse, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("order validation failed", "error", err)
		return nil, err
	}

	itemType, itemID, amount, currency, err := s.resolveItem(dto)
	if err != nil {
		return nil, err
	}

	if dto.Amount != amount {
		s.logger.Warn("claimed amount does not match item price",
			"item_type", itemType,
			"item_id", itemID,
			"claimed", dto.Amount,
			"authoritative", amount)
		return nil, errors.NewAmountMismatchError(dto.Amount, amount)
	}

	receipt := fmt.Sprintf("rcpt_%s", uuid.NewString())

	gwOrder, err := s.gateway.CreateOrder(ctx, gateway.CreateOrderRequest{
		Amount:   amount * MinorUnitMultiplier,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		s.logger.Error("gateway order creation failed", "error", err, "item_type", itemType, "item_id", itemID)
		return nil, errors.NewInternalError("failed to create payment order", err).
			WithDetails(map[string]string{"code": string(errors.ErrCodeGatewayUnavailable)})
	}

	pending := &orderDatamodel.PendingOrder{
		ItemType:       itemType,
		ItemID:         itemID,
		Email:          dto.UserDetails.Email,
		Phone:          dto.UserDetails.Phone,
		Amount:         amount,
		Currency:       currency,
		GatewayOrderID: gwOrder.ID,
		Status:         orderDatamodel.StatusPending,
	}

	if err := s.repo.CreateOrder(pending); err != nil {
		s.logger.Error("failed to persist pending order", "error", err, "gateway_order_id", gwOrder.ID)
		return nil, errors.NewInternalError("failed to record order", err)
	}

	if itemType == orderDatamodel.ItemTypeEvent {
		reg := &eventDatamodel.Registration{
			EventID:        itemID,
			Email:          dto.UserDetails.Email,
			Phone:          dto.UserDetails.Phone,
			FirstName:      dto.UserDetails.FirstName,
			LastName:       dto.UserDetails.LastName,
			GatewayOrderID: gwOrder.ID,
			PaymentStatus:  eventDatamodel.PaymentStatusPending,
		}
		if err := s.repo.CreateRegistration(reg); err != nil {
			s.logger.Error("failed to persist pending registration", "error", err, "gateway_order_id", gwOrder.ID)
			return nil, errors.NewInternalError("failed to record registration", err)
		}
	}

	s.logger.Info("order created",
		"gateway_order_id", gwOrder.ID,
		"item_type", itemType,
		"item_id", itemID,
		"amount", amount,
		"currency", currency)

	return &OrderResponse{
		ID:       gwOrder.ID,
		Amount:   gwOrder.Amount,
		Currency: gwOrder.Currency,
		Receipt:  gwOrder.Receipt,
	}, nil
}

func (s *Service) resolveItem(dto *CreateOrderDTO) (itemType string, itemID, amount int64, currency string, err error) {
	if dto.CourseID != 0 {
		c, cerr := s.repo.GetCourse(dto.CourseID)
		if cerr != nil {
			s.logger.Error("course not found for checkout", "error", cerr, "course_id", dto.CourseID)
			return "", 0, 0, "", errors.ErrCourseNotFound
		}
		return orderDatamodel.ItemTypeCourse, c.ID, c.Amount, c.Currency, nil
	}

	e, eerr := s.repo.GetEvent(dto.EventID)
	if eerr != nil {
		s.logger.Error("event not found for checkout", "error", eerr, "event_id", dto.EventID)
		return "", 0, 0, "", errors.ErrEventNotFound
	}
	return orderDatamodel.ItemTypeEvent, e.ID, e.Amount, e.Currency, nil
}
