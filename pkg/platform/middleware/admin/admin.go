package admin

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	id "fieldpos/pkg/domain"
	"fieldpos/pkg/platform/middleware/auth"
	"fieldpos/pkg/requestcontext"
)

// Context key for storing admin actor identifier.
type contextKeyAdminActorID struct{}

// ContextKeyAdminActorID is exported for use in handlers and tests.
var ContextKeyAdminActorID = contextKeyAdminActorID{}

// GetAdminActorID retrieves the admin actor identifier from the context.
// Returns empty string if not set or if this is not an admin request.
func GetAdminActorID(ctx context.Context) string {
	if actorID, ok := ctx.Value(ContextKeyAdminActorID).(string); ok {
		return actorID
	}
	return ""
}

// RequireAdmin gates the platform admin surface. Two paths are accepted:
//
//   - X-Admin-Token with the configured bootstrap token. This is how the first
//     tenant gets created before any admin staff exists. The optional
//     X-Admin-Actor-ID header attributes the action.
//   - A Bearer token whose role claim is admin.
//
// When no bootstrap token is configured, only the JWT path is available.
func RequireAdmin(expectedToken string, validator auth.JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token := r.Header.Get("X-Admin-Token"); token != "" && expectedToken != "" {
				// Use constant-time comparison to prevent timing attacks
				if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
					logger.WarnContext(ctx, "admin token mismatch",
						"request_id", requestcontext.RequestID(ctx),
					)
					writeJSONError(w, http.StatusUnauthorized, "unauthorized", "admin token required")
					return
				}

				// Capture admin actor identifier for log attribution.
				if actorID := r.Header.Get("X-Admin-Actor-ID"); actorID != "" {
					ctx = context.WithValue(ctx, ContextKeyAdminActorID, actorID)
				}
				ctx = requestcontext.WithActor(ctx, requestcontext.Actor{Role: id.RoleAdmin})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || validator == nil {
				logger.WarnContext(ctx, "admin access without credentials",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "admin credentials required")
				return
			}

			claims, err := validator.ValidateToken(bearer)
			if err != nil {
				logger.WarnContext(ctx, "admin access with invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			if id.Role(claims.Role) != id.RoleAdmin {
				logger.WarnContext(ctx, "admin access denied for non-admin role",
					"role", claims.Role,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusForbidden, "forbidden", "admin role required")
				return
			}

			staffID, err := id.ParseStaffID(claims.StaffID)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithActor(ctx, requestcontext.Actor{
				StaffID: staffID,
				Role:    id.RoleAdmin,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + errCode + `","error_description":"` + errDesc + `"}`))
}
