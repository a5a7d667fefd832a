package models

import id "fieldpos/pkg/domain"

// Domain events capture what happened in the tenant domain.
// These are pure data structures with no behavior - the service layer
// publishes them on the event stream after the transaction commits.

// TenantCreated is emitted when a new business is onboarded.
type TenantCreated struct {
	TenantID id.TenantID `json:"tenant_id"`
	Name     string      `json:"name"`
	OwnerID  id.StaffID  `json:"owner_id"`
	BranchID id.BranchID `json:"branch_id"`
}

// TenantDeactivated is emitted when a tenant is suspended.
type TenantDeactivated struct {
	TenantID id.TenantID `json:"tenant_id"`
}

// TenantReactivated is emitted when a suspended tenant is restored.
type TenantReactivated struct {
	TenantID id.TenantID `json:"tenant_id"`
}

// BranchCreated is emitted when a tenant opens a new branch.
type BranchCreated struct {
	TenantID id.TenantID `json:"tenant_id"`
	BranchID id.BranchID `json:"branch_id"`
	Name     string      `json:"name"`
}

// BranchDeactivated is emitted when a branch is closed.
type BranchDeactivated struct {
	TenantID id.TenantID `json:"tenant_id"`
	BranchID id.BranchID `json:"branch_id"`
}
