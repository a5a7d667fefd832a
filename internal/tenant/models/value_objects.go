package models

type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "active"
	TenantStatusInactive TenantStatus = "inactive"
)

func (s TenantStatus) IsValid() bool {
	return s == TenantStatusActive || s == TenantStatusInactive
}

func (s TenantStatus) String() string {
	return string(s)
}

type BranchStatus string

const (
	BranchStatusActive   BranchStatus = "active"
	BranchStatusInactive BranchStatus = "inactive"
)

func (s BranchStatus) IsValid() bool {
	return s == BranchStatusActive || s == BranchStatusInactive
}

func (s BranchStatus) String() string {
	return string(s)
}
