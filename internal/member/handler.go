package member

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ja-alumni/erp/internal/access"
	"github.com/ja-alumni/erp/pkg/middleware"
	"github.com/ja-alumni/erp/pkg/request"
	"github.com/ja-alumni/erp/pkg/response"
)

// Handler handles HTTP requests for member operations
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a new member handler with service dependency injected
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes returns the router for member endpoints. Every route expects a viewer
// in the request context.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/me", h.Me)
	r.Put("/me", h.UpdateMe)
	r.Post("/me/deletion", h.ScheduleDeletion)
	r.Delete("/me/deletion", h.CancelDeletion)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}/role", h.UpdateRole)

	return r
}

// Register handles POST /register
// @Summary      Complete registration
// @Description  Create the member profile of the authenticated user
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration request"
// @Success      201 {object} response.APIResponse{data=MeResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req RegisterRequest
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, request.Message(err))
		return
	}

	m, err := h.service.Register(r.Context(), userID, &req)
	if err != nil {
		h.fail(w, r, err, "Failed to register")
		return
	}

	response.JSON(w, http.StatusCreated, h.me(m))
}

// Me handles GET /members/me
// @Summary      Get own profile
// @Tags         members
// @Produce      json
// @Success      200 {object} response.APIResponse{data=MeResponse}
// @Router       /members/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	m, err := h.service.Me(r.Context(), viewer)
	if err != nil {
		h.fail(w, r, err, "Failed to get profile")
		return
	}

	response.JSON(w, http.StatusOK, h.me(m))
}

// UpdateMe handles PUT /members/me
// @Summary      Update own profile
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200 {object} response.APIResponse{data=MeResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /members/me [put]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, request.Message(err))
		return
	}

	m, err := h.service.UpdateMe(r.Context(), viewer, &req)
	if err != nil {
		h.fail(w, r, err, "Failed to update profile")
		return
	}

	response.JSON(w, http.StatusOK, h.me(m))
}

// ScheduleDeletion handles POST /members/me/deletion
// @Summary      Schedule account deletion
// @Tags         members
// @Produce      json
// @Success      202 {object} response.APIResponse{data=MeResponse}
// @Router       /members/me/deletion [post]
func (h *Handler) ScheduleDeletion(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	m, err := h.service.ScheduleDeletion(r.Context(), viewer)
	if err != nil {
		h.fail(w, r, err, "Failed to schedule deletion")
		return
	}

	response.JSON(w, http.StatusAccepted, h.me(m))
}

// CancelDeletion handles DELETE /members/me/deletion
// @Summary      Cancel account deletion
// @Tags         members
// @Produce      json
// @Success      200 {object} response.APIResponse{data=MeResponse}
// @Failure      409 {object} response.APIResponse
// @Router       /members/me/deletion [delete]
func (h *Handler) CancelDeletion(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	m, err := h.service.CancelDeletion(r.Context(), viewer)
	if err != nil {
		h.fail(w, r, err, "Failed to cancel deletion")
		return
	}

	response.JSON(w, http.StatusOK, h.me(m))
}

// List handles GET /members
// @Summary      Member directory
// @Description  Paginated directory with public fields only
// @Tags         members
// @Produce      json
// @Param        tab query string false "alumni, regional_contacts or committee" default(alumni)
// @Param        region query string false "Region filter"
// @Param        q query string false "Name search"
// @Param        sort query string false "default, name, year_desc or year_asc"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]SummaryResponse}
// @Router       /members [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	filter := ListFilter{
		Tab:    Tab(q.Get("tab")),
		Region: q.Get("region"),
		Search: q.Get("q"),
		Sort:   SortOption(q.Get("sort")),
	}
	switch filter.Tab {
	case "", TabAlumni, TabRegionalContacts, TabCommittee:
	default:
		response.BadRequest(w, "Invalid tab")
		return
	}

	members, total, err := h.service.Directory(r.Context(), viewer, filter, page, perPage)
	if err != nil {
		h.fail(w, r, err, "Failed to list members")
		return
	}

	out := make([]*SummaryResponse, len(members))
	for i, m := range members {
		out[i] = m.ToSummary()
	}

	response.JSONWithMeta(w, http.StatusOK, out, &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// GetByID handles GET /members/{id}
// @Summary      Get member by ID
// @Description  Returns the full record when the viewer may see it, public fields otherwise
// @Tags         members
// @Produce      json
// @Param        id path string true "Member ID"
// @Success      200 {object} response.APIResponse{data=FullResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /members/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid member ID")
		return
	}

	m, full, err := h.service.Get(r.Context(), viewer, id)
	if err != nil {
		h.fail(w, r, err, "Failed to get member")
		return
	}

	if full {
		response.JSON(w, http.StatusOK, m.ToFull())
		return
	}
	response.JSON(w, http.StatusOK, m.ToSummary())
}

// UpdateRole handles PUT /members/{id}/role
// @Summary      Change a member's role
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id path string true "Member ID"
// @Param        request body UpdateRoleRequest true "Role fields"
// @Success      200 {object} response.APIResponse{data=FullResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /members/{id}/role [put]
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid member ID")
		return
	}

	var req UpdateRoleRequest
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, request.Message(err))
		return
	}

	m, err := h.service.UpdateRole(r.Context(), viewer, id, &req)
	if err != nil {
		h.fail(w, r, err, "Failed to update role")
		return
	}

	response.JSON(w, http.StatusOK, m.ToFull())
}

func (h *Handler) me(m *Member) *MeResponse {
	return &MeResponse{
		FullResponse:           *m.ToFull(),
		ConsentRenewalRequired: h.service.ConsentRenewalRequired(m),
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var denied *access.DeniedError
	switch {
	case errors.As(err, &denied):
		response.Denied(w, denied.Decision)
	case errors.Is(err, ErrMemberNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrAlreadyRegistered), errors.Is(err, ErrEmailAlreadyInUse), errors.Is(err, ErrDeletionNotScheduled):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrInvalidLocation):
		response.Unprocessable(w, "INVALID_TARGET", err.Error())
	default:
		h.logger.ErrorContext(r.Context(), fallback, "error", err)
		response.InternalError(w, fallback)
	}
}
