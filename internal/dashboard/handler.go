package dashboard

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/ja-alumni/erp/internal/access"
	"github.com/ja-alumni/erp/internal/geo"
	"github.com/ja-alumni/erp/pkg/middleware"
	"github.com/ja-alumni/erp/pkg/response"
)

// Handler handles HTTP requests for dashboards
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a new dashboard handler
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes returns the router for dashboard endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Global)
	r.Get("/region", h.OwnRegion)
	r.Get("/regions/{region}", h.Regional)

	return r
}

// Global handles GET /dashboard
// @Summary      Network dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} response.APIResponse{data=GlobalStats}
// @Failure      403 {object} response.APIResponse
// @Router       /dashboard [get]
func (h *Handler) Global(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	stats, err := h.service.Global(r.Context(), viewer)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, stats)
}

// OwnRegion handles GET /dashboard/region
// @Summary      Dashboard of the viewer's region
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} response.APIResponse{data=RegionalStats}
// @Failure      403 {object} response.APIResponse
// @Router       /dashboard/region [get]
func (h *Handler) OwnRegion(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	if viewer.Region == "" {
		response.BadRequest(w, "Your profile has no region")
		return
	}
	h.regional(w, r, viewer, viewer.Region)
}

// Regional handles GET /dashboard/regions/{region}
// @Summary      Dashboard of one region
// @Tags         dashboard
// @Produce      json
// @Param        region path string true "Region name"
// @Success      200 {object} response.APIResponse{data=RegionalStats}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /dashboard/regions/{region} [get]
func (h *Handler) Regional(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	region, err := url.PathUnescape(chi.URLParam(r, "region"))
	if err != nil || !geo.ValidRegion(region) {
		response.BadRequest(w, "Unknown region")
		return
	}
	h.regional(w, r, viewer, region)
}

func (h *Handler) regional(w http.ResponseWriter, r *http.Request, viewer access.Viewer, region string) {
	stats, err := h.service.Regional(r.Context(), viewer, region)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, stats)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var denied *access.DeniedError
	if errors.As(err, &denied) {
		response.Denied(w, denied.Decision)
		return
	}
	h.logger.ErrorContext(r.Context(), "failed to build dashboard", "error", err)
	response.InternalError(w, "Failed to build dashboard")
}
