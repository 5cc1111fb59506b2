package admin

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/course-platform/internal"
	orderDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/order"
)

// RevenueLine is one aggregated slice of paid orders.
type RevenueLine struct {
	ItemType string `json:"itemType"`
	Currency string `json:"currency"`
	Orders   int64  `json:"orders"`
	Revenue  int64  `json:"revenue"`
}

type RevenueSummary struct {
	TotalOrders     int64         `json:"totalOrders"`
	TotalRevenue    int64         `json:"totalRevenue"`
	Lines           []RevenueLine `json:"lines"`
	PendingCount    int64         `json:"pendingCount"`
	UnnotifiedCount int64         `json:"unnotifiedCount"`
}

// DefaultOrderPageSize bounds the reconciliation listing.
const DefaultOrderPageSize = 100

type RepositoryAPI interface {
	RevenueByItemType() ([]RevenueLine, error)
	CountOrdersByStatus(status string) (int64, error)
	CountUnnotifiedPaidOrders() (int64, error)
	ListOrders(status string, limit int) ([]orderDatamodel.PendingOrder, error)
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

// RevenueSummary aggregates paid orders only; pending and failed
// attempts count separately so reconciliation gaps stay visible.
func (s *Service) RevenueSummary(ctx context.Context) (*RevenueSummary, error) {
	lines, err := s.repo.RevenueByItemType()
	if err != nil {
		s.logger.Error("failed to aggregate revenue", "error", err)
		return nil, errors.NewInternalError("failed to aggregate revenue", err)
	}

	summary := &RevenueSummary{Lines: lines}
	for _, l := range lines {
		summary.TotalOrders += l.Orders
		summary.TotalRevenue += l.Revenue
	}

	if pending, err := s.repo.CountOrdersByStatus("pending"); err == nil {
		summary.PendingCount = pending
	}
	if unnotified, err := s.repo.CountUnnotifiedPaidOrders(); err == nil {
		summary.UnnotifiedCount = unnotified
	}

	return summary, nil
}

// ListOrders returns recent checkout attempts for reconciliation,
// optionally filtered by status.
func (s *Service) ListOrders(ctx context.Context, status string) ([]orderDatamodel.PendingOrder, error) {
	if status != "" {
		switch status {
		case orderDatamodel.StatusPending, orderDatamodel.StatusPaid, orderDatamodel.StatusFailed:
		default:
			return nil, errors.NewValidationError("unknown order status", errors.ErrCodeValidationFailed)
		}
	}

	orders, err := s.repo.ListOrders(status, DefaultOrderPageSize)
	if err != nil {
		s.logger.Error("failed to list orders", "error", err, "status", status)
		return nil, errors.NewInternalError("failed to list orders", err)
	}
	return orders, nil
}
