package staff

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldpos/internal/sentinel"
	"fieldpos/internal/staff/models"
	id "fieldpos/pkg/domain"
)

func newStoredStaff(t *testing.T, store *InMemory, tenantID id.TenantID, email string, role id.Role, createdAt time.Time) *models.Staff {
	t.Helper()
	st := &models.Staff{
		ID:           id.StaffID(uuid.New()),
		TenantID:     tenantID,
		Name:         "Staff " + email,
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         role,
		Status:       models.StaffStatusActive,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if role.RequiresBranch() {
		st.BranchID = id.BranchID(uuid.New())
	}
	require.NoError(t, store.Create(context.Background(), st))
	return st
}

func TestFindByTenantAndID_ScopesToTenant(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	tenantA := id.TenantID(uuid.New())
	tenantB := id.TenantID(uuid.New())

	st := newStoredStaff(t, store, tenantA, "amal@horizon.example.com", id.RoleOwner, time.Now())

	found, err := store.FindByTenantAndID(ctx, tenantA, st.ID)
	require.NoError(t, err)
	assert.Equal(t, st.ID, found.ID)

	// Another tenant's ID looks exactly like a missing account.
	_, err = store.FindByTenantAndID(ctx, tenantB, st.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestFindByEmail_CaseInsensitive(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	st := newStoredStaff(t, store, id.TenantID(uuid.New()), "amal@horizon.example.com", id.RoleOwner, time.Now())

	found, err := store.FindByEmail(ctx, "AMAL@Horizon.Example.COM")
	require.NoError(t, err)
	assert.Equal(t, st.ID, found.ID)

	_, err = store.FindByEmail(ctx, "nobody@horizon.example.com")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestEmailUniqueAcrossTenants(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	newStoredStaff(t, store, id.TenantID(uuid.New()), "amal@horizon.example.com", id.RoleOwner, time.Now())

	// The email is the login identifier, so even another tenant cannot
	// register it, regardless of case.
	err := store.Create(ctx, &models.Staff{
		ID:           id.StaffID(uuid.New()),
		TenantID:     id.TenantID(uuid.New()),
		Name:         "Imposter",
		Email:        "Amal@Horizon.example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         id.RoleOwner,
		Status:       models.StaffStatusActive,
	})
	assert.ErrorIs(t, err, sentinel.ErrDuplicate)
}

func TestListByTenant_Filters(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	tenantID := id.TenantID(uuid.New())
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	owner := newStoredStaff(t, store, tenantID, "owner@horizon.example.com", id.RoleOwner, base)
	cashier := newStoredStaff(t, store, tenantID, "cashier@horizon.example.com", id.RoleCashier, base.Add(time.Hour))
	tech := newStoredStaff(t, store, tenantID, "tech@horizon.example.com", id.RoleTechnician, base.Add(2*time.Hour))
	newStoredStaff(t, store, id.TenantID(uuid.New()), "other@acme.example.com", id.RoleOwner, base)

	require.NoError(t, tech.Deactivate(base.Add(3*time.Hour)))
	require.NoError(t, store.Update(ctx, tech))

	all, total, err := store.ListByTenant(ctx, tenantID, models.StaffFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, owner.ID, all[0].ID, "oldest first")

	cashiers, total, err := store.ListByTenant(ctx, tenantID, models.StaffFilter{Role: id.RoleCashier})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, cashiers, 1)
	assert.Equal(t, cashier.ID, cashiers[0].ID)

	inactive, _, err := store.ListByTenant(ctx, tenantID, models.StaffFilter{Status: models.StaffStatusInactive})
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, tech.ID, inactive[0].ID)

	byBranch, _, err := store.ListByTenant(ctx, tenantID, models.StaffFilter{BranchID: cashier.BranchID})
	require.NoError(t, err)
	require.Len(t, byBranch, 1)
	assert.Equal(t, cashier.ID, byBranch[0].ID)

	bySearch, _, err := store.ListByTenant(ctx, tenantID, models.StaffFilter{Search: "CASHIER"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)

	paged, total, err := store.ListByTenant(ctx, tenantID, models.StaffFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, paged, 1)
	assert.Equal(t, tech.ID, paged[0].ID)
}

func TestCountByTenant(t *testing.T) {
	store := NewInMemory()
	tenantID := id.TenantID(uuid.New())

	count, err := store.CountByTenant(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	newStoredStaff(t, store, tenantID, "owner@horizon.example.com", id.RoleOwner, time.Now())
	newStoredStaff(t, store, tenantID, "cashier@horizon.example.com", id.RoleCashier, time.Now())

	count, err = store.CountByTenant(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUpdate_MissingStaffReturnsNotFound(t *testing.T) {
	store := NewInMemory()

	err := store.Update(context.Background(), &models.Staff{
		ID:       id.StaffID(uuid.New()),
		TenantID: id.TenantID(uuid.New()),
		Name:     "Ghost",
		Email:    "ghost@horizon.example.com",
	})
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
