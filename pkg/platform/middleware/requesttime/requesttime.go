// Package requesttime pins one timestamp per HTTP request. Every domain
// write inside the request reads the same now, so a sale and the contract
// sold alongside it carry identical timestamps.
package requesttime

import (
	"net/http"
	"time"

	"fieldpos/pkg/requestcontext"
)

// Middleware captures the current UTC time at the start of the request and
// stores it in the context. Services read it back through requestcontext.Now;
// workers and tests outside the middleware chain fall back to the wall clock.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithNow(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
