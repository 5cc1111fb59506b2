package inquiry

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	inquiryDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/inquiry"
	"github.com/frahmantamala/course-platform/internal/transport"
	"github.com/frahmantamala/course-platform/pkg/logger"
)

type ServiceAPI interface {
	Submit(ctx context.Context, dto *SubmitDTO) (*inquiryDatamodel.Inquiry, error)
	AdminList(ctx context.Context) ([]inquiryDatamodel.Inquiry, error)
	Resolve(ctx context.Context, id int64) error
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

// Submit handles POST /api/v1/inquiries
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var dto SubmitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	i, err := h.Service.Submit(r.Context(), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, i)
}

// AdminList handles GET /api/v1/admin/inquiries
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.AdminList(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rows)
}

// Resolve handles PATCH /api/v1/admin/inquiries/{id}/resolve
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid inquiry id")
		return
	}

	if err := h.Service.Resolve(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
