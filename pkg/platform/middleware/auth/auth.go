package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "fieldpos/pkg/domain"
	"fieldpos/pkg/requestcontext"
)

// JWTValidator defines the interface for validating JWT tokens
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// TenantGate defines the interface for checking that the actor's tenant is
// still active. A deactivated tenant blocks every request of its staff.
type TenantGate interface {
	IsTenantActive(ctx context.Context, tenantID id.TenantID) (bool, error)
}

// JWTClaims represents the claims we expect from the JWT validator
type JWTClaims struct {
	StaffID  string
	TenantID string
	BranchID string
	Role     string
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// gateResult represents the outcome of a tenant gate check.
type gateResult int

const (
	gateOK      gateResult = iota // Tenant is active (or actor is tenant-less admin)
	gateBlocked                   // Tenant is deactivated
	gateError                     // Error checking tenant status
)

// checkTenant verifies that the actor's tenant is active.
// Platform admins carry no tenant and always pass.
func checkTenant(ctx context.Context, gate TenantGate, actor requestcontext.Actor, logger *slog.Logger) gateResult {
	if gate == nil || actor.IsAdmin() {
		return gateOK
	}

	active, err := gate.IsTenantActive(ctx, actor.TenantID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to check tenant status",
			"error", err,
			"tenant_id", actor.TenantID,
			"request_id", requestcontext.RequestID(ctx),
		)
		return gateError
	}

	if !active {
		logger.WarnContext(ctx, "request blocked - tenant deactivated",
			"tenant_id", actor.TenantID,
			"request_id", requestcontext.RequestID(ctx),
		)
		return gateBlocked
	}

	return gateOK
}

// parseClaims converts string claims from the JWT into a typed actor.
// Returns an error if any ID or the role has an invalid format.
func parseClaims(claims *JWTClaims) (requestcontext.Actor, error) {
	var actor requestcontext.Actor

	staffID, err := id.ParseStaffID(claims.StaffID)
	if err != nil {
		return actor, fmt.Errorf("invalid staff_id: %w", err)
	}

	role := id.Role(claims.Role)
	if !role.IsValid() {
		return actor, fmt.Errorf("invalid role %q", claims.Role)
	}

	// Admin tokens carry no tenant; everyone else must.
	var tenantID id.TenantID
	if claims.TenantID != "" {
		tenantID, err = id.ParseTenantID(claims.TenantID)
		if err != nil {
			return actor, fmt.Errorf("invalid tenant_id: %w", err)
		}
	}
	if role.RequiresTenant() && tenantID.IsNil() {
		return actor, fmt.Errorf("role %q requires a tenant claim", role)
	}

	var branchID id.BranchID
	if claims.BranchID != "" {
		branchID, err = id.ParseBranchID(claims.BranchID)
		if err != nil {
			return actor, fmt.Errorf("invalid branch_id: %w", err)
		}
	}

	return requestcontext.Actor{
		StaffID:  staffID,
		TenantID: tenantID,
		BranchID: branchID,
		Role:     role,
	}, nil
}

// RequireAuth returns middleware that validates JWT tokens and populates context
// with the typed actor. It validates the token, parses claims, checks the tenant
// gate, and stores the actor in context for handlers downstream.
func RequireAuth(validator JWTValidator, gate TenantGate, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")

			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			actor, err := parseClaims(claims)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - malformed token claims",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			switch checkTenant(ctx, gate, actor, logger) {
			case gateBlocked:
				writeJSONError(w, http.StatusForbidden, "forbidden", "Tenant is deactivated")
				return
			case gateError:
				writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to validate tenant")
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, actor)))
		})
	}
}
