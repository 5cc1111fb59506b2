package testimonial

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	testimonialDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/testimonial"
	"github.com/frahmantamala/course-platform/internal/transport"
	"github.com/frahmantamala/course-platform/pkg/logger"
)

type ServiceAPI interface {
	ListApproved(ctx context.Context) ([]testimonialDatamodel.Testimonial, error)
	Submit(ctx context.Context, dto *SubmitDTO) (*testimonialDatamodel.Testimonial, error)
	AdminList(ctx context.Context) ([]testimonialDatamodel.Testimonial, error)
	Approve(ctx context.Context, id int64, approved bool) error
	Delete(ctx context.Context, id int64) error
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

// ListApproved handles GET /api/v1/testimonials
func (h *Handler) ListApproved(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.ListApproved(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rows)
}

// Submit handles POST /api/v1/testimonials
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var dto SubmitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.Submit(r.Context(), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, t)
}

// AdminList handles GET /api/v1/admin/testimonials
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.AdminList(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rows)
}

// Approve handles PATCH /api/v1/admin/testimonials/{id}
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid testimonial id")
		return
	}

	var body struct {
		IsApproved bool `json:"isApproved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.Approve(r.Context(), id, body.IsApproved); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/admin/testimonials/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid testimonial id")
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
