package customer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldpos/internal/customer/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
)

func newStoredCustomer(t *testing.T, store *InMemory, tenantID id.TenantID, name, phone string) *models.Customer {
	t.Helper()
	customer, err := models.NewCustomer(id.CustomerID(uuid.New()), tenantID, models.ContactDetails{
		Name:  name,
		Phone: phone,
	}, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), customer))
	return customer
}

func TestPhoneUniquePerTenant(t *testing.T) {
	store := NewInMemory()
	tenantID := id.TenantID(uuid.New())
	newStoredCustomer(t, store, tenantID, "Amal Haddad", "+96170123456")

	dup, err := models.NewCustomer(id.CustomerID(uuid.New()), tenantID, models.ContactDetails{
		Name:  "Another Amal",
		Phone: "+96170123456",
	}, time.Now().UTC())
	require.NoError(t, err)
	err = store.Create(context.Background(), dup)
	assert.ErrorIs(t, err, sentinel.ErrDuplicate)

	// The same phone under a different tenant is fine.
	newStoredCustomer(t, store, id.TenantID(uuid.New()), "Amal Elsewhere", "+96170123456")
}

func TestEmptyPhoneNeverCollides(t *testing.T) {
	store := NewInMemory()
	tenantID := id.TenantID(uuid.New())
	newStoredCustomer(t, store, tenantID, "Walk-in One", "")
	newStoredCustomer(t, store, tenantID, "Walk-in Two", "")
}

func TestUpdateEnforcesPhoneUniqueness(t *testing.T) {
	store := NewInMemory()
	tenantID := id.TenantID(uuid.New())
	first := newStoredCustomer(t, store, tenantID, "Amal Haddad", "+96170123456")
	second := newStoredCustomer(t, store, tenantID, "Karim Nassar", "+96171222333")

	// Moving second onto first's phone collides.
	require.NoError(t, second.UpdateContact(models.ContactDetails{
		Name:  second.Name,
		Phone: first.Phone,
	}, time.Now().UTC()))
	err := store.Update(context.Background(), second)
	assert.ErrorIs(t, err, sentinel.ErrDuplicate)

	// Updating a customer without changing the phone does not collide with
	// itself.
	require.NoError(t, first.UpdateContact(models.ContactDetails{
		Name:  "Amal H.",
		Phone: first.Phone,
	}, time.Now().UTC()))
	require.NoError(t, store.Update(context.Background(), first))

	stored, err := store.FindByTenantAndID(context.Background(), tenantID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amal H.", stored.Name)
}

func TestFindByTenantAndID_Isolation(t *testing.T) {
	store := NewInMemory()
	tenantID := id.TenantID(uuid.New())
	created := newStoredCustomer(t, store, tenantID, "Amal Haddad", "+96170123456")

	_, err := store.FindByTenantAndID(context.Background(), id.TenantID(uuid.New()), created.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestListByTenant_SearchAndPaging(t *testing.T) {
	store := NewInMemory()
	tenantID := id.TenantID(uuid.New())
	newStoredCustomer(t, store, tenantID, "Amal Haddad", "+96170123456")
	newStoredCustomer(t, store, tenantID, "Karim Nassar", "+96171222333")
	newStoredCustomer(t, store, tenantID, "Rania Nassar", "+96176888999")
	newStoredCustomer(t, store, id.TenantID(uuid.New()), "Foreign Customer", "+96179000000")

	all, total, err := store.ListByTenant(context.Background(), tenantID, models.CustomerFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "Amal Haddad", all[0].Name, "sorted by name")

	// Name search is case-insensitive.
	byName, total, err := store.ListByTenant(context.Background(), tenantID, models.CustomerFilter{Search: "NASSAR"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, byName, 2)

	// Phone search matches the raw digits the cashier types.
	byPhone, total, err := store.ListByTenant(context.Background(), tenantID, models.CustomerFilter{Search: "71222"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "Karim Nassar", byPhone[0].Name)

	// Paging keeps the full total.
	page, total, err := store.ListByTenant(context.Background(), tenantID, models.CustomerFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 1)
}
