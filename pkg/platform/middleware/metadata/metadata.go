// Package metadata extracts client metadata (IP, user agent) into the
// request context. Mounted after the request ID middleware: when a trusted
// proxy fronts the server, the forwarded client address replaces the direct
// connection IP stashed there.
package metadata

import (
	"net/http"
	"net/netip"
	"strings"

	"fieldpos/pkg/requestcontext"
)

// MaxForwardedHeaderLength caps X-Forwarded-For and X-Real-IP values so an
// oversized header cannot pollute logs.
const MaxForwardedHeaderLength = 500

// Config holds configuration for the metadata middleware.
type Config struct {
	// TrustedProxies lists the IP prefixes (CIDR notation) allowed to set
	// X-Forwarded-For and X-Real-IP. When empty those headers are ignored.
	TrustedProxies []netip.Prefix
}

// Middleware extracts the client IP and user agent for each request.
type Middleware struct {
	config *Config
}

// NewMiddleware creates a metadata middleware. A nil config trusts no
// proxies, so forwarding headers are ignored.
func NewMiddleware(cfg *Config) *Middleware {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Middleware{config: cfg}
}

// Handler stores the resolved client IP and the raw User-Agent header in the
// request context. Sale creation reads the user agent to record which
// register device rang up the sale.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = requestcontext.WithClientIP(ctx, m.resolveClientIP(r))
		ctx = requestcontext.WithUserAgent(ctx, r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveClientIP returns the forwarded client address when the request came
// through a trusted proxy, and the direct connection address otherwise.
func (m *Middleware) resolveClientIP(r *http.Request) string {
	remoteIP := stripPort(r.RemoteAddr)
	if remoteIP == "" {
		return "unknown"
	}
	if !m.isTrustedProxy(remoteIP) {
		return remoteIP
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && len(xff) <= MaxForwardedHeaderLength {
		// First entry in the chain is the original client.
		first, _, _ := strings.Cut(xff, ",")
		first = strings.TrimSpace(first)
		if _, err := netip.ParseAddr(first); err == nil {
			return first
		}
		return remoteIP
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" && len(xri) <= MaxForwardedHeaderLength {
		xri = strings.TrimSpace(xri)
		if _, err := netip.ParseAddr(xri); err == nil {
			return xri
		}
	}
	return remoteIP
}

func (m *Middleware) isTrustedProxy(ip string) bool {
	if len(m.config.TrustedProxies) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, prefix := range m.config.TrustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// stripPort extracts the IP from a host:port RemoteAddr, handling the
// bracketed IPv6 form.
func stripPort(remoteAddr string) string {
	if remoteAddr == "" {
		return ""
	}
	if strings.HasPrefix(remoteAddr, "[") {
		if idx := strings.LastIndex(remoteAddr, "]:"); idx != -1 {
			return remoteAddr[1:idx]
		}
		return strings.Trim(remoteAddr, "[]")
	}
	if idx := strings.LastIndex(remoteAddr, ":"); idx != -1 {
		return remoteAddr[:idx]
	}
	return remoteAddr
}
