// Package requestcontext carries per-request values (request ID, client IP,
// authenticated actor) through context with typed accessors. Middleware writes
// these once; handlers and services read them without knowing the keys.
package requestcontext

import (
	"context"
	"time"

	id "fieldpos/pkg/domain"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	clientIPKey
	userAgentKey
	actorKey
	nowKey
)

// Actor is the authenticated caller of a request. Admins carry a nil
// TenantID; staff without a branch assignment carry a nil BranchID.
type Actor struct {
	StaffID  id.StaffID
	TenantID id.TenantID
	BranchID id.BranchID
	Role     id.Role
}

// IsAdmin reports whether the actor is a platform admin.
func (a Actor) IsAdmin() bool {
	return a.Role == id.RoleAdmin
}

// WithRequestID returns a context carrying the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request ID, or "" when none was set.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// WithClientIP returns a context carrying the client IP address.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIP returns the client IP, or "" when none was set.
func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey).(string)
	return v
}

// WithUserAgent returns a context carrying the raw User-Agent header.
// Sales record which device rang them up, so the register's user agent
// travels with the request.
func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	return context.WithValue(ctx, userAgentKey, userAgent)
}

// UserAgent returns the raw User-Agent header, or "" when none was set.
func UserAgent(ctx context.Context) string {
	v, _ := ctx.Value(userAgentKey).(string)
	return v
}

// WithActor returns a context carrying the authenticated actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom returns the authenticated actor and whether one was set.
func ActorFrom(ctx context.Context) (Actor, bool) {
	v, ok := ctx.Value(actorKey).(Actor)
	return v, ok
}

// WithNow pins the clock for the request. Tests use this to make
// time-dependent behavior deterministic.
func WithNow(ctx context.Context, now time.Time) context.Context {
	return context.WithValue(ctx, nowKey, now)
}

// Now returns the pinned clock, or the wall clock when none was set.
func Now(ctx context.Context) time.Time {
	if v, ok := ctx.Value(nowKey).(time.Time); ok {
		return v
	}
	return time.Now()
}
