package event

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ja-alumni/erp/internal/access"
	"github.com/ja-alumni/erp/pkg/middleware"
	"github.com/ja-alumni/erp/pkg/request"
	"github.com/ja-alumni/erp/pkg/response"
)

// Handler handles HTTP requests for event operations
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a new event handler
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes returns the router for event endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{eventId}", h.GetByID)
	r.Put("/{eventId}", h.Update)
	r.Delete("/{eventId}", h.Delete)

	return r
}

// List handles GET /events
// @Summary      List events
// @Description  Calendar of events; a region filter keeps national events
// @Tags         events
// @Produce      json
// @Param        from query string false "RFC3339 lower bound"
// @Param        to query string false "RFC3339 upper bound"
// @Param        region query string false "Region filter"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(50)
// @Success      200 {object} response.APIResponse{data=[]EventResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /events [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	q := r.URL.Query()
	filter := ListFilter{Region: q.Get("region")}
	for key, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(w, "Invalid "+key+" date")
			return
		}
		*dst = &t
	}

	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	events, total, err := h.service.List(r.Context(), viewer, filter, page, perPage)
	if err != nil {
		h.fail(w, r, err, "Failed to list events")
		return
	}

	out := make([]*EventResponse, len(events))
	for i, e := range events {
		out[i] = e.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, out, &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// Create handles POST /events
// @Summary      Create an event
// @Description  Regional contacts create events in their own region, the committee anywhere or nationally
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request body CreateEventRequest true "Event"
// @Success      201 {object} response.APIResponse{data=EventResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /events [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateEventRequest
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, request.Message(err))
		return
	}

	e, err := h.service.Create(r.Context(), viewer, &req)
	if err != nil {
		h.fail(w, r, err, "Failed to create event")
		return
	}

	response.JSON(w, http.StatusCreated, e.ToResponse())
}

// GetByID handles GET /events/{eventId}
// @Summary      Get event by ID
// @Tags         events
// @Produce      json
// @Param        eventId path int true "Event ID"
// @Success      200 {object} response.APIResponse{data=EventResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /events/{eventId} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "eventId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}

	e, err := h.service.Get(r.Context(), viewer, id)
	if err != nil {
		h.fail(w, r, err, "Failed to get event")
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse())
}

// Update handles PUT /events/{eventId}
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventId path int true "Event ID"
// @Param        request body UpdateEventRequest true "Event fields"
// @Success      200 {object} response.APIResponse{data=EventResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /events/{eventId} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "eventId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}

	var req UpdateEventRequest
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, request.Message(err))
		return
	}

	e, err := h.service.Update(r.Context(), viewer, id, &req)
	if err != nil {
		h.fail(w, r, err, "Failed to update event")
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse())
}

// Delete handles DELETE /events/{eventId}
// @Summary      Delete an event
// @Tags         events
// @Param        eventId path int true "Event ID"
// @Success      204
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /events/{eventId} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "eventId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}

	if err := h.service.Delete(r.Context(), viewer, id); err != nil {
		h.fail(w, r, err, "Failed to delete event")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var denied *access.DeniedError
	switch {
	case errors.As(err, &denied):
		response.Denied(w, denied.Decision)
	case errors.Is(err, ErrEventNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrInvalidWindow):
		response.BadRequest(w, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), fallback, "error", err)
		response.InternalError(w, fallback)
	}
}
