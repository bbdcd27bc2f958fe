package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/ja-alumni/erp/internal/access"
	"github.com/ja-alumni/erp/pkg/response"
)

// ViewerLoader resolves the signed-in member. It returns nil when the user has
// not registered a profile yet.
type ViewerLoader interface {
	Viewer(ctx context.Context, id uuid.UUID) (*access.Viewer, error)
}

// ViewerMiddleware loads the viewer from the table store on every request, so a
// role or region change applies to the very next request.
func ViewerMiddleware(loader ViewerLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserID(r.Context())
			if !ok {
				response.Unauthorized(w, "Authentication required")
				return
			}

			viewer, err := loader.Viewer(r.Context(), userID)
			if err != nil {
				slog.ErrorContext(r.Context(), "failed to load viewer", "error", err, "user_id", userID)
				response.InternalError(w, "Failed to load profile")
				return
			}
			if viewer == nil {
				response.Error(w, http.StatusForbidden, "PROFILE_REQUIRED", "Complete your registration first")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), *viewer)))
		})
	}
}

// WithViewer returns a copy of ctx carrying v
func WithViewer(ctx context.Context, v access.Viewer) context.Context {
	return context.WithValue(ctx, ViewerKey, v)
}

// GetViewer extracts the request-scoped viewer
func GetViewer(ctx context.Context) (access.Viewer, bool) {
	v, ok := ctx.Value(ViewerKey).(access.Viewer)
	return v, ok
}
