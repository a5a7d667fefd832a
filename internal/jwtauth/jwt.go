// Package jwtauth issues and validates the HS256 access tokens staff present
// on every API call. Claims carry the typed scope of the actor: staff, tenant,
// branch, and role.
package jwtauth

import (
	"context"
	"errors"
	"time"

	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/requestcontext"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the JWT claims for staff access tokens.
type Claims struct {
	StaffID  string `json:"staff_id"`
	TenantID string `json:"tenant_id,omitempty"`
	BranchID string `json:"branch_id,omitempty"`
	Role     string `json:"role"`
	Env      string `json:"env,omitempty"`
	jwt.RegisteredClaims
}

// Service handles JWT creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
	tokenTTL   time.Duration
	env        string
}

func NewService(signingKey, issuer, audience string, tokenTTL time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		tokenTTL:   tokenTTL,
	}
}

// SetEnv annotates issued tokens with an environment string (e.g., "demo").
func (s *Service) SetEnv(env string) {
	s.env = env
}

// TokenTTL returns the lifetime of issued tokens.
func (s *Service) TokenTTL() time.Duration {
	return s.tokenTTL
}

// Generate mints a signed access token for the given staff scope.
// Admin tokens carry no tenant; branch is optional for tenant-wide roles.
func (s *Service) Generate(
	ctx context.Context,
	staffID id.StaffID,
	tenantID id.TenantID,
	branchID id.BranchID,
	role id.Role,
) (string, error) {
	if staffID.IsNil() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "staff ID cannot be empty")
	}
	if !role.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role")
	}
	if role.RequiresTenant() && tenantID.IsNil() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role requires a tenant")
	}

	now := requestcontext.Now(ctx)
	claims := Claims{
		StaffID: staffID.String(),
		Role:    role.String(),
		Env:     s.env,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			Subject:   staffID.String(),
			ID:        uuid.NewString(),
		},
	}
	if !tenantID.IsNil() {
		claims.TenantID = tenantID.String()
	}
	if !branchID.IsNil() {
		claims.BranchID = branchID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not sign token")
	}
	return signed, nil
}

// ValidateToken parses and verifies a signed access token.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	// Explicit issuer validation: token must have been minted by this deployment.
	if claims.Issuer != s.issuer {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token issuer")
	}

	return claims, nil
}
