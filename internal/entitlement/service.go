package entitlement

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/course-platform/internal"
	courseDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/course"
	eventDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/event"
	orderDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/order"
	transactionDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/transaction"
	userDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/user"
	"github.com/frahmantamala/course-platform/internal/core/events"
	"github.com/frahmantamala/course-platform/internal/signing"
)

type RepositoryAPI interface {
	GetCourse(id int64) (*courseDatamodel.Course, error)
	GetEvent(id int64) (*eventDatamodel.Event, error)
	GetUserByEmail(email string) (*userDatamodel.User, error)
	GetOrderByGatewayID(gatewayOrderID string) (*orderDatamodel.PendingOrder, error)
	GetRegistration(eventID int64, email, gatewayOrderID string) (*eventDatamodel.Registration, error)
	MarkOrderPaid(o *orderDatamodel.PendingOrder) error
	GrantCoursePurchase(p *userDatamodel.PurchasedCourse) error
	RecordTransaction(t *transactionDatamodel.Transaction) error
	MarkRegistrationPaid(reg *eventDatamodel.Registration) error
	SetOrderNotified(gatewayOrderID string, notified bool) error
	SetJoinLinkSent(eventID int64, email, gatewayOrderID string, sent bool) error
}

// NotifierAPI is what the verification flow needs from the mailer. A
// send failure here must never undo an already granted entitlement.
type NotifierAPI interface {
	SendPurchaseReceipt(ctx context.Context, email, itemName string, amount int64, currency, orderID, paymentID string) error
	SendJoinLink(ctx context.Context, email, eventName, joinLink string, startsAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	notifier  NotifierAPI
	eventBus  EventPublisher
	keySecret string
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, notifier NotifierAPI, eventBus EventPublisher, keySecret string, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		notifier:  notifier,
		eventBus:  eventBus,
		keySecret: keySecret,
		logger:    logger,
		now:       time.Now,
	}
}

// VerifyPayment is the only path that moves an order from pending to
// paid. The signature check runs before anything is read or written, so
// a forged callback leaves no trace beyond a log line. Everything after
// the paid upsert is idempotent: replaying the same callback converges
// on the same rows.
func (s *Service) VerifyPayment(ctx context.Context, dto *VerifyPaymentDTO) (*VerificationResponse, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("payment verification validation failed", "error", err)
		return nil, err
	}

	if !signing.VerifyPaymentSignature(s.keySecret, dto.GatewayOrderID, dto.GatewayPaymentID, dto.GatewaySignature) {
		s.logger.Warn("payment signature mismatch",
			"gateway_order_id", dto.GatewayOrderID,
			"gateway_payment_id", dto.GatewayPaymentID)
		return nil, errors.NewSignatureMismatchError()
	}

	if dto.CourseID != 0 {
		return s.verifyCoursePayment(ctx, dto)
	}
	return s.verifyEventPayment(ctx, dto)
}

func (s *Service) verifyCoursePayment(ctx context.Context, dto *VerifyPaymentDTO) (*VerificationResponse, error) {
	c, err := s.repo.GetCourse(dto.CourseID)
	if err != nil {
		s.logger.Error("course not found during verification", "error", err, "course_id", dto.CourseID)
		return nil, errors.ErrCourseNotFound
	}

	buyer, err := s.repo.GetUserByEmail(dto.UserDetails.Email)
	if err != nil {
		s.logger.Error("buyer account not found during verification",
			"error", err,
			"gateway_order_id", dto.GatewayOrderID)
		return nil, errors.ErrUserNotFound
	}

	// A replayed callback must not mail the buyer twice. The upsert
	// below never touches the notified column, so the flag survives
	// the replay and tells us whether the first send got through.
	alreadyNotified := false
	if prev, err := s.repo.GetOrderByGatewayID(dto.GatewayOrderID); err == nil {
		alreadyNotified = prev.Status == orderDatamodel.StatusPaid && prev.Notified
	}

	if err := s.markOrderPaid(dto, orderDatamodel.ItemTypeCourse, c.ID, c.Amount, c.Currency); err != nil {
		return nil, err
	}

	purchase := &userDatamodel.PurchasedCourse{
		UserID:   buyer.ID,
		CourseID: c.ID,
		OrderID:  dto.GatewayOrderID,
	}
	if err := s.repo.GrantCoursePurchase(purchase); err != nil {
		s.logger.Error("failed to grant course purchase",
			"error", err,
			"user_id", buyer.ID,
			"course_id", c.ID)
		return nil, errors.NewInternalError("failed to grant course access", err)
	}

	txn := &transactionDatamodel.Transaction{
		UserID:    buyer.ID,
		CourseID:  c.ID,
		OrderID:   dto.GatewayOrderID,
		PaymentID: dto.GatewayPaymentID,
		Amount:    c.Amount,
		Currency:  c.Currency,
		Status:    transactionDatamodel.StatusSuccess,
	}
	if err := s.repo.RecordTransaction(txn); err != nil {
		s.logger.Error("failed to record transaction",
			"error", err,
			"gateway_order_id", dto.GatewayOrderID)
		return nil, errors.NewInternalError("failed to record transaction", err)
	}

	s.eventBus.Publish(ctx, events.NewEntitlementGrantedEvent(
		orderDatamodel.ItemTypeCourse, c.ID, buyer.Email, dto.GatewayOrderID))

	notified := true
	if alreadyNotified {
		s.logger.Info("receipt already delivered, skipping resend",
			"gateway_order_id", dto.GatewayOrderID)
	} else if err := s.notifier.SendPurchaseReceipt(ctx, buyer.Email, c.Title, c.Amount, c.Currency, dto.GatewayOrderID, dto.GatewayPaymentID); err != nil {
		notified = false
		s.logger.Error("receipt email failed, entitlement kept",
			"error", err,
			"gateway_order_id", dto.GatewayOrderID)
		s.eventBus.Publish(ctx, events.NewNotificationFailedEvent(dto.GatewayOrderID, buyer.Email, err.Error()))
	}
	if err := s.repo.SetOrderNotified(dto.GatewayOrderID, notified); err != nil {
		s.logger.Error("failed to record notification flag", "error", err, "gateway_order_id", dto.GatewayOrderID)
	}

	s.eventBus.Publish(ctx, events.NewOrderPaidEvent(
		dto.GatewayOrderID, dto.GatewayPaymentID,
		orderDatamodel.ItemTypeCourse, c.ID, c.Amount, c.Currency, buyer.Email))

	s.logger.Info("course payment verified",
		"gateway_order_id", dto.GatewayOrderID,
		"course_id", c.ID,
		"user_id", buyer.ID,
		"notified", notified)

	return &VerificationResponse{
		PaymentID: dto.GatewayPaymentID,
		OrderID:   dto.GatewayOrderID,
		ItemName:  c.Title,
	}, nil
}

func (s *Service) verifyEventPayment(ctx context.Context, dto *VerifyPaymentDTO) (*VerificationResponse, error) {
	e, err := s.repo.GetEvent(dto.EventID)
	if err != nil {
		s.logger.Error("event not found during verification", "error", err, "event_id", dto.EventID)
		return nil, errors.ErrEventNotFound
	}

	// Same replay guard as the course path: join_link_sent survives
	// the registration upsert, so a delivered link is not resent.
	linkAlreadySent := false
	if prev, err := s.repo.GetRegistration(e.ID, dto.UserDetails.Email, dto.GatewayOrderID); err == nil {
		linkAlreadySent = prev.JoinLinkSent
	}

	if err := s.markOrderPaid(dto, orderDatamodel.ItemTypeEvent, e.ID, e.Amount, e.Currency); err != nil {
		return nil, err
	}

	paidAt := s.now()
	reg := &eventDatamodel.Registration{
		EventID:        e.ID,
		Email:          dto.UserDetails.Email,
		Phone:          dto.UserDetails.Phone,
		FirstName:      dto.UserDetails.FirstName,
		LastName:       dto.UserDetails.LastName,
		GatewayOrderID: dto.GatewayOrderID,
		PaymentID:      dto.GatewayPaymentID,
		PaymentStatus:  eventDatamodel.PaymentStatusPaid,
		PaidAt:         &paidAt,
	}
	if err := s.repo.MarkRegistrationPaid(reg); err != nil {
		s.logger.Error("failed to mark registration paid",
			"error", err,
			"event_id", e.ID,
			"gateway_order_id", dto.GatewayOrderID)
		return nil, errors.NewInternalError("failed to record registration", err)
	}

	s.eventBus.Publish(ctx, events.NewEntitlementGrantedEvent(
		orderDatamodel.ItemTypeEvent, e.ID, dto.UserDetails.Email, dto.GatewayOrderID))

	linkSent := true
	if linkAlreadySent {
		s.logger.Info("join link already delivered, skipping resend",
			"gateway_order_id", dto.GatewayOrderID)
	} else if err := s.notifier.SendJoinLink(ctx, dto.UserDetails.Email, e.Title, e.JoinLink, e.StartsAt); err != nil {
		linkSent = false
		s.logger.Error("join link email failed, registration kept",
			"error", err,
			"gateway_order_id", dto.GatewayOrderID)
		s.eventBus.Publish(ctx, events.NewNotificationFailedEvent(dto.GatewayOrderID, dto.UserDetails.Email, err.Error()))
	}
	if err := s.repo.SetJoinLinkSent(e.ID, dto.UserDetails.Email, dto.GatewayOrderID, linkSent); err != nil {
		s.logger.Error("failed to record join link flag", "error", err, "gateway_order_id", dto.GatewayOrderID)
	}

	s.eventBus.Publish(ctx, events.NewOrderPaidEvent(
		dto.GatewayOrderID, dto.GatewayPaymentID,
		orderDatamodel.ItemTypeEvent, e.ID, e.Amount, e.Currency, dto.UserDetails.Email))

	s.logger.Info("event payment verified",
		"gateway_order_id", dto.GatewayOrderID,
		"event_id", e.ID,
		"join_link_sent", linkSent)

	return &VerificationResponse{
		PaymentID: dto.GatewayPaymentID,
		OrderID:   dto.GatewayOrderID,
		ItemName:  e.Title,
	}, nil
}

func (s *Service) markOrderPaid(dto *VerifyPaymentDTO, itemType string, itemID, amount int64, currency string) error {
	paidAt := s.now()
	paymentID := dto.GatewayPaymentID
	o := &orderDatamodel.PendingOrder{
		ItemType:       itemType,
		ItemID:         itemID,
		Email:          dto.UserDetails.Email,
		Phone:          dto.UserDetails.Phone,
		Amount:         amount,
		Currency:       currency,
		GatewayOrderID: dto.GatewayOrderID,
		PaymentID:      &paymentID,
		Status:         orderDatamodel.StatusPaid,
		PaidAt:         &paidAt,
	}
	if err := s.repo.MarkOrderPaid(o); err != nil {
		s.logger.Error("failed to mark order paid",
			"error", err,
			"gateway_order_id", dto.GatewayOrderID)
		return errors.NewInternalError("failed to update order", err)
	}
	return nil
}
