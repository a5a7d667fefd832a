package authz

import (
	"log/slog"
	"net/http"

	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/platform/httputil"
	"fieldpos/pkg/requestcontext"
)

// Require returns middleware that rejects requests whose actor lacks the
// permission. It must run after auth middleware has populated the actor.
func Require(perm Permission, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			actor, ok := requestcontext.ActorFrom(ctx)
			if !ok {
				logger.ErrorContext(ctx, "permission check without authenticated actor",
					"permission", string(perm),
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
				return
			}

			if !Can(actor.Role, perm) {
				logger.WarnContext(ctx, "permission denied",
					"permission", string(perm),
					"role", actor.Role.String(),
					"staff_id", actor.StaffID,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "insufficient permissions"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
