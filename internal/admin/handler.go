package admin

import (
	"context"
	"log/slog"
	"net/http"

	orderDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/order"
	"github.com/frahmantamala/course-platform/internal/transport"
	"github.com/frahmantamala/course-platform/pkg/logger"
)

type ServiceAPI interface {
	RevenueSummary(ctx context.Context) (*RevenueSummary, error)
	ListOrders(ctx context.Context, status string) ([]orderDatamodel.PendingOrder, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// Revenue handles GET /api/v1/admin/revenue
func (h *Handler) Revenue(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.RevenueSummary(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

// Orders handles GET /api/v1/admin/orders?status=
func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Service.ListOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, orders)
}
