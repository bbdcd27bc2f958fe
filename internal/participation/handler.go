package participation

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ja-alumni/erp/internal/access"
	"github.com/ja-alumni/erp/pkg/middleware"
	"github.com/ja-alumni/erp/pkg/response"
)

// Handler handles HTTP requests for event registration
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a new participation handler
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes returns the router for participation endpoints, mounted under
// /events/{eventId}/participation
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Status)
	r.Post("/", h.Toggle)
	r.Get("/participants", h.Participants)

	return r
}

// Toggle handles POST /events/{eventId}/participation
// @Summary      Toggle registration
// @Description  Registers the viewer for the event, or unregisters them when already registered
// @Tags         participation
// @Produce      json
// @Param        eventId path int true "Event ID"
// @Success      200 {object} response.APIResponse{data=Status}
// @Failure      404 {object} response.APIResponse
// @Router       /events/{eventId}/participation [post]
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.withEvent(w, r, func(viewer access.Viewer, eventID int64) (any, error) {
		return h.service.Toggle(r.Context(), viewer, eventID)
	})
}

// Status handles GET /events/{eventId}/participation
// @Summary      Registration status
// @Tags         participation
// @Produce      json
// @Param        eventId path int true "Event ID"
// @Success      200 {object} response.APIResponse{data=Status}
// @Router       /events/{eventId}/participation [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	h.withEvent(w, r, func(viewer access.Viewer, eventID int64) (any, error) {
		return h.service.Status(r.Context(), viewer, eventID)
	})
}

// Participants handles GET /events/{eventId}/participation/participants
// @Summary      List participants
// @Description  Available to members who may manage the event
// @Tags         participation
// @Produce      json
// @Param        eventId path int true "Event ID"
// @Success      200 {object} response.APIResponse{data=[]Participant}
// @Failure      403 {object} response.APIResponse
// @Router       /events/{eventId}/participation/participants [get]
func (h *Handler) Participants(w http.ResponseWriter, r *http.Request) {
	h.withEvent(w, r, func(viewer access.Viewer, eventID int64) (any, error) {
		participants, err := h.service.Participants(r.Context(), viewer, eventID)
		if participants == nil {
			participants = []*Participant{}
		}
		return participants, err
	})
}

func (h *Handler) withEvent(w http.ResponseWriter, r *http.Request, fn func(access.Viewer, int64) (any, error)) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	eventID, err := strconv.ParseInt(chi.URLParam(r, "eventId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}

	data, err := fn(viewer, eventID)
	if err != nil {
		var denied *access.DeniedError
		if errors.As(err, &denied) {
			response.Denied(w, denied.Decision)
			return
		}
		h.logger.ErrorContext(r.Context(), "participation request failed", "error", err, "event_id", eventID)
		response.InternalError(w, "Failed to process participation")
		return
	}

	response.JSON(w, http.StatusOK, data)
}
