package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	eventDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/event"
	"github.com/frahmantamala/course-platform/internal/transport"
	"github.com/frahmantamala/course-platform/pkg/logger"
)

type ServiceAPI interface {
	ListEvents(ctx context.Context) ([]EventSummary, error)
	AdminListEvents(ctx context.Context) ([]eventDatamodel.Event, error)
	CreateEvent(ctx context.Context, dto *CreateEventDTO) (*eventDatamodel.Event, error)
	UpdateEvent(ctx context.Context, id int64, dto *UpdateEventDTO) (*eventDatamodel.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	ListRegistrations(ctx context.Context, eventID int64) ([]RegistrationView, error)
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

// ListEvents handles GET /api/v1/events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Service.ListEvents(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, events)
}

// AdminListEvents handles GET /api/v1/admin/events
func (h *Handler) AdminListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Service.AdminListEvents(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, events)
}

// CreateEvent handles POST /api/v1/admin/events
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var dto CreateEventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.CreateEvent(r.Context(), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, e)
}

// UpdateEvent handles PATCH /api/v1/admin/events/{id}
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var dto UpdateEventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.UpdateEvent(r.Context(), id, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

// DeleteEvent handles DELETE /api/v1/admin/events/{id}
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	if err := h.Service.DeleteEvent(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRegistrations handles GET /api/v1/admin/events/{id}/registrations
func (h *Handler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	regs, err := h.Service.ListRegistrations(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, regs)
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}
