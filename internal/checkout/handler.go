package checkout

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/course-platform/internal/transport"
	"github.com/frahmantamala/course-platform/pkg/logger"
)

type ServiceAPI interface {
	CreateOrder(ctx context.Context, dto *CreateOrderDTO) (*OrderResponse, error)
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

// CreateOrder handles POST /api/v1/checkout/orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var dto CreateOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateOrder: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.CreateOrder(r.Context(), &dto)
	if err != nil {
		h.Logger.Error("CreateOrder: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateOrder: order created",
		"gateway_order_id", resp.ID,
		"amount", resp.Amount,
		"currency", resp.Currency)

	h.WriteJSON(w, http.StatusCreated, resp)
}
