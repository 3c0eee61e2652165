package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/wicaksana/internal-portal/internal"
	"github.com/wicaksana/internal-portal/internal/permission"
)

// PermissionChecker is the slice of the permission service route guards need.
type PermissionChecker interface {
	CheckPermission(ctx context.Context, userID int64, area permission.Area, action permission.Action) (bool, error)
}

// AreaAuthorizer turns (area, action) pairs into route middleware. It answers
// the coarse area-level question only; document-level confidentiality checks
// stay in the document service where the resource attributes are known.
type AreaAuthorizer struct {
	checker PermissionChecker
	logger  *slog.Logger
}

func NewAreaAuthorizer(checker PermissionChecker, logger *slog.Logger) *AreaAuthorizer {
	return &AreaAuthorizer{
		checker: checker,
		logger:  logger,
	}
}

func (a *AreaAuthorizer) Require(area permission.Area, action permission.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := internal.ActorFromContext(r.Context())
			if !ok {
				a.logger.Warn("authorization check failed: no actor in context")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			allowed, err := a.checker.CheckPermission(r.Context(), actor.UserID, area, action)
			if err != nil {
				a.logger.ErrorContext(r.Context(), "authorization check failed",
					"error", err,
					"user_id", actor.UserID,
					"area", area.String(),
					"action", action.String())
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				a.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					"user_id", actor.UserID,
					"area", area.String(),
					"action", action.String())
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperadmin guards the administrative mutation surface. Role only,
// no store read.
func RequireSuperadmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := internal.ActorFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if actor.Role != internal.RoleSuperadmin {
				logger.WarnContext(r.Context(), "access denied: superadmin required", "user_id", actor.UserID)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin allows admin and superadmin actors through.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := internal.ActorFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if actor.Role != internal.RoleAdmin && actor.Role != internal.RoleSuperadmin {
				logger.WarnContext(r.Context(), "access denied: admin required", "user_id", actor.UserID)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
