package entitlement

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/course-platform/internal/transport"
	"github.com/frahmantamala/course-platform/pkg/logger"
)

type ServiceAPI interface {
	VerifyPayment(ctx context.Context, dto *VerifyPaymentDTO) (*VerificationResponse, error)
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

// VerifyPayment handles POST /api/v1/checkout/verify
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var dto VerifyPaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("VerifyPayment: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.VerifyPayment(r.Context(), &dto)
	if err != nil {
		h.Logger.Error("VerifyPayment: service error", "error", err, "gateway_order_id", dto.GatewayOrderID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("VerifyPayment: payment confirmed",
		"gateway_order_id", resp.OrderID,
		"gateway_payment_id", resp.PaymentID)

	h.WriteJSON(w, http.StatusOK, resp)
}
