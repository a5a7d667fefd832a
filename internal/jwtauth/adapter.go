package jwtauth

import (
	"fieldpos/pkg/platform/middleware/auth"
)

// ToMiddlewareClaims converts service claims to the middleware's claim shape.
func ToMiddlewareClaims(claims *Claims) *auth.JWTClaims {
	return &auth.JWTClaims{
		StaffID:  claims.StaffID,
		TenantID: claims.TenantID,
		BranchID: claims.BranchID,
		Role:     claims.Role,
	}
}

// ServiceAdapter adapts Service to the auth middleware's JWTValidator interface.
type ServiceAdapter struct {
	service *Service
}

func NewServiceAdapter(service *Service) *ServiceAdapter {
	return &ServiceAdapter{service: service}
}

func (a *ServiceAdapter) ValidateToken(tokenString string) (*auth.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
