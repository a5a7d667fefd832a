// Package authz maps staff roles to the permissions the HTTP surface checks.
// The matrix is compiled in: roles are few and fixed, and changing them is a
// deploy, not a data migration.
package authz

import (
	id "fieldpos/pkg/domain"
)

// Permission names an operation group a role may perform.
type Permission string

const (
	PermTenantsManage   Permission = "tenants:manage"
	PermBranchesManage  Permission = "branches:manage"
	PermStaffManage     Permission = "staff:manage"
	PermCatalogRead     Permission = "catalog:read"
	PermCatalogManage   Permission = "catalog:manage"
	PermCustomersRead   Permission = "customers:read"
	PermCustomersManage Permission = "customers:manage"
	PermSalesCreate     Permission = "sales:create"
	PermSalesRead       Permission = "sales:read"
	PermSalesVoid       Permission = "sales:void"
	PermContractsRead   Permission = "contracts:read"
	PermContractsManage Permission = "contracts:manage"
	PermVisitsManage    Permission = "visits:manage"
	PermVisitsWork      Permission = "visits:work"
	PermReportsRead     Permission = "reports:read"
)

// rolePermissions is the authoritative role -> permission matrix.
var rolePermissions = map[id.Role]map[Permission]struct{}{
	id.RoleAdmin: permSet(
		PermTenantsManage,
	),
	id.RoleOwner: permSet(
		PermBranchesManage,
		PermStaffManage,
		PermCatalogRead,
		PermCatalogManage,
		PermCustomersRead,
		PermCustomersManage,
		PermSalesCreate,
		PermSalesRead,
		PermSalesVoid,
		PermContractsRead,
		PermContractsManage,
		PermVisitsManage,
		PermReportsRead,
	),
	id.RoleCashier: permSet(
		PermCatalogRead,
		PermCustomersRead,
		PermCustomersManage,
		PermSalesCreate,
		PermSalesRead,
		PermSalesVoid,
	),
	id.RoleMaintenance: permSet(
		PermCatalogRead,
		PermCustomersRead,
		PermContractsRead,
		PermContractsManage,
		PermVisitsManage,
	),
	id.RoleTechnician: permSet(
		PermVisitsWork,
	),
}

func permSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Can reports whether the role holds the permission.
func Can(role id.Role, perm Permission) bool {
	set, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = set[perm]
	return ok
}
