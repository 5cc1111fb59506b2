package notification

import (
	"context"
	"log/slog"
	"time"

	courseDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/course"
	eventDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/event"
	orderDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/order"
)

const DefaultRetryInterval = 5 * time.Minute

type RetryRepositoryAPI interface {
	ListUnnotifiedPaidOrders(limit int) ([]orderDatamodel.PendingOrder, error)
	ListUnsentPaidRegistrations(limit int) ([]eventDatamodel.Registration, error)
	GetCourse(id int64) (*courseDatamodel.Course, error)
	GetEvent(id int64) (*eventDatamodel.Event, error)
	SetOrderNotified(gatewayOrderID string, notified bool) error
	SetJoinLinkSent(eventID int64, email, gatewayOrderID string, sent bool) error
}

type MailerAPI interface {
	SendPurchaseReceipt(ctx context.Context, email, itemName string, amount int64, currency, orderID, paymentID string) error
	SendJoinLink(ctx context.Context, email, eventName, joinLink string, startsAt time.Time) error
}

// RetryWorker sweeps orders whose confirmation mail failed at payment
// time. Entitlements were already granted; this only closes the
// notification gap.
type RetryWorker struct {
	repo     RetryRepositoryAPI
	mailer   MailerAPI
	interval time.Duration
	batch    int
	logger   *slog.Logger
}

func NewRetryWorker(repo RetryRepositoryAPI, mailer MailerAPI, interval time.Duration, logger *slog.Logger) *RetryWorker {
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	return &RetryWorker{
		repo:     repo,
		mailer:   mailer,
		interval: interval,
		batch:    50,
		logger:   logger,
	}
}

// Run blocks until the context is cancelled.
func (w *RetryWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("notification retry worker started", "interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("notification retry worker stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep runs one pass over unnotified orders and unsent join links.
func (w *RetryWorker) Sweep(ctx context.Context) {
	w.retryReceipts(ctx)
	w.retryJoinLinks(ctx)
}

func (w *RetryWorker) retryReceipts(ctx context.Context) {
	orders, err := w.repo.ListUnnotifiedPaidOrders(w.batch)
	if err != nil {
		w.logger.Error("failed to list unnotified orders", "error", err)
		return
	}

	for _, o := range orders {
		if o.ItemType != orderDatamodel.ItemTypeCourse || o.Email == "" {
			continue
		}

		c, err := w.repo.GetCourse(o.ItemID)
		if err != nil {
			w.logger.Error("course missing for unnotified order",
				"error", err,
				"gateway_order_id", o.GatewayOrderID)
			continue
		}

		paymentID := ""
		if o.PaymentID != nil {
			paymentID = *o.PaymentID
		}

		if err := w.mailer.SendPurchaseReceipt(ctx, o.Email, c.Title, o.Amount, o.Currency, o.GatewayOrderID, paymentID); err != nil {
			w.logger.Warn("receipt retry failed", "error", err, "gateway_order_id", o.GatewayOrderID)
			continue
		}
		if err := w.repo.SetOrderNotified(o.GatewayOrderID, true); err != nil {
			w.logger.Error("failed to flag order notified", "error", err, "gateway_order_id", o.GatewayOrderID)
			continue
		}
		w.logger.Info("receipt resent", "gateway_order_id", o.GatewayOrderID)
	}
}

func (w *RetryWorker) retryJoinLinks(ctx context.Context) {
	regs, err := w.repo.ListUnsentPaidRegistrations(w.batch)
	if err != nil {
		w.logger.Error("failed to list unsent registrations", "error", err)
		return
	}

	for _, reg := range regs {
		e, err := w.repo.GetEvent(reg.EventID)
		if err != nil {
			w.logger.Error("event missing for unsent registration",
				"error", err,
				"registration_id", reg.ID)
			continue
		}

		if err := w.mailer.SendJoinLink(ctx, reg.Email, e.Title, e.JoinLink, e.StartsAt); err != nil {
			w.logger.Warn("join link retry failed", "error", err, "registration_id", reg.ID)
			continue
		}
		if err := w.repo.SetJoinLinkSent(reg.EventID, reg.Email, reg.GatewayOrderID, true); err != nil {
			w.logger.Error("failed to flag join link sent", "error", err, "registration_id", reg.ID)
			continue
		}
		w.logger.Info("join link resent", "registration_id", reg.ID)
	}
}
