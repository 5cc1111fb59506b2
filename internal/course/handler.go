package course

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/course-platform/internal/auth"
	courseDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/course"
	"github.com/frahmantamala/course-platform/internal/transport"
	"github.com/frahmantamala/course-platform/pkg/logger"
)

type ServiceAPI interface {
	ListCourses(ctx context.Context) ([]CourseSummary, error)
	GetCourse(ctx context.Context, id int64, user *auth.User) (*CourseDetail, error)
	SaveProgress(ctx context.Context, user *auth.User, videoID int64, dto *SaveProgressDTO) (*VideoProgressView, error)
	GetCourseProgress(ctx context.Context, user *auth.User, courseID int64) (*CourseProgress, error)
	AdminListCourses(ctx context.Context) ([]courseDatamodel.Course, error)
	CreateCourse(ctx context.Context, dto *CreateCourseDTO) (*courseDatamodel.Course, error)
	UpdateCourse(ctx context.Context, id int64, dto *UpdateCourseDTO) (*courseDatamodel.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
	AddVideo(ctx context.Context, courseID int64, dto *CreateVideoDTO) (*courseDatamodel.Video, error)
	RemoveVideo(ctx context.Context, videoID int64) error
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

// ListCourses handles GET /api/v1/courses
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.Service.ListCourses(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, courses)
}

// GetCourse handles GET /api/v1/courses/{id}. Works for both anonymous
// and authenticated callers; the detail view differs by access.
func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	user, _ := auth.UserFromContext(r.Context())
	detail, err := h.Service.GetCourse(r.Context(), id, user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, detail)
}

// SaveProgress handles POST /api/v1/videos/{id}/progress
func (h *Handler) SaveProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	videoID, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid video id")
		return
	}

	var dto SaveProgressDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SaveProgress: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.Service.SaveProgress(r.Context(), user, videoID, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

// GetCourseProgress handles GET /api/v1/courses/{id}/progress
func (h *Handler) GetCourseProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	courseID, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	cp, err := h.Service.GetCourseProgress(r.Context(), user, courseID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, cp)
}

// AdminListCourses handles GET /api/v1/admin/courses
func (h *Handler) AdminListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.Service.AdminListCourses(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, courses)
}

// CreateCourse handles POST /api/v1/admin/courses
func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var dto CreateCourseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.CreateCourse(r.Context(), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, c)
}

// UpdateCourse handles PATCH /api/v1/admin/courses/{id}
func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	var dto UpdateCourseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.UpdateCourse(r.Context(), id, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

// DeleteCourse handles DELETE /api/v1/admin/courses/{id}
func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	if err := h.Service.DeleteCourse(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddVideo handles POST /api/v1/admin/courses/{id}/videos
func (h *Handler) AddVideo(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	var dto CreateVideoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	v, err := h.Service.AddVideo(r.Context(), courseID, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, v)
}

// RemoveVideo handles DELETE /api/v1/admin/videos/{id}
func (h *Handler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid video id")
		return
	}

	if err := h.Service.RemoveVideo(r.Context(), videoID); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}
