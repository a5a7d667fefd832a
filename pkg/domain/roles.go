package domain

// Role represents a staff role recognized by the platform.
type Role string

const (
	// RoleAdmin is the platform operator. Admins are not bound to a tenant.
	RoleAdmin Role = "admin"
	// RoleOwner manages one tenant: branches, staff, catalog, reports.
	RoleOwner Role = "owner"
	// RoleCashier operates the register at a single branch.
	RoleCashier Role = "cashier"
	// RoleMaintenance manages maintenance contracts and visit schedules.
	RoleMaintenance Role = "maintenance"
	// RoleTechnician performs assigned maintenance visits in the field.
	RoleTechnician Role = "technician"
)

// IsValid returns true if the role is a known valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleCashier, RoleMaintenance, RoleTechnician:
		return true
	}
	return false
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// RequiresTenant returns true if staff with this role must belong to a tenant.
// Only platform admins operate outside tenant scope.
func (r Role) RequiresTenant() bool {
	return r != RoleAdmin
}

// RequiresBranch returns true if staff with this role must be assigned to a
// branch. Cashiers ring up sales at one register; technicians are dispatched
// from one branch.
func (r Role) RequiresBranch() bool {
	return r == RoleCashier || r == RoleTechnician
}
