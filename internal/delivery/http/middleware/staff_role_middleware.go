package middleware

import (
	"net/http"
	"strings"

	"shelter-registry/internal/domain/entity"
	"shelter-registry/pkg/response"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

// StaffRoleHeader carries the area the operator selected. It is trusted as given.
const StaffRoleHeader = "X-Staff-Role"

// RequireRole creates a middleware that checks if the operator works in any of the allowed areas.
// The accepted role is stored with entity.ContextWithStaffRole.
// An empty list admits every known role.
func RequireRole(allowed ...entity.StaffRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(StaffRoleHeader))
			if raw == "" {
				response.Unauthorized(w, StaffRoleHeader+" header is required")
				return
			}

			role, ok := entity.ParseStaffRole(strings.ToLower(raw))
			if !ok {
				response.Unauthorized(w, "Unknown staff role")
				return
			}

			if len(allowed) > 0 {
				permitted := false
				for _, a := range allowed {
					if role == a {
						permitted = true
						break
					}
				}
				if !permitted {
					response.Forbidden(w, "Your role doesn't have access to this resource")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(entity.ContextWithStaffRole(r.Context(), role)))
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.StaffRoleAdmin)(next)
}
