package sale

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldpos/internal/sale/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
)

func newTestSale(t *testing.T, tenantID id.TenantID, branchID id.BranchID, invoiceNo string, createdAt time.Time) *models.Sale {
	t.Helper()
	saleID := id.SaleID(uuid.New())
	item, err := models.NewSaleItem(id.SaleItemID(uuid.New()), saleID, id.ProductID(uuid.New()), "Drain Hose", 10, 2)
	require.NoError(t, err)
	sale, err := models.NewSale(saleID, tenantID, branchID, id.StaffID(uuid.New()), id.CustomerID(uuid.Nil),
		invoiceNo, []*models.SaleItem{item}, 0, 20, models.PaymentCash, "", createdAt)
	require.NoError(t, err)
	return sale
}

func newStoredSale(t *testing.T, store *InMemory, tenantID id.TenantID, branchID id.BranchID, invoiceNo string, createdAt time.Time) *models.Sale {
	t.Helper()
	sale := newTestSale(t, tenantID, branchID, invoiceNo, createdAt)
	require.NoError(t, store.Create(context.Background(), sale))
	return sale
}

func TestInvoiceUniquePerTenant(t *testing.T) {
	store := NewInMemory()
	tenantID := id.TenantID(uuid.New())
	branchID := id.BranchID(uuid.New())
	now := time.Now()

	newStoredSale(t, store, tenantID, branchID, "INV-20260314-AAAA0001", now)

	dup := newTestSale(t, tenantID, branchID, "INV-20260314-AAAA0001", now)
	err := store.Create(context.Background(), dup)
	assert.ErrorIs(t, err, sentinel.ErrDuplicate)

	// Another tenant may carry the same invoice number.
	other := newTestSale(t, id.TenantID(uuid.New()), branchID, "INV-20260314-AAAA0001", now)
	assert.NoError(t, store.Create(context.Background(), other))
}

func TestUpdateStatusTouchesLifecycleOnly(t *testing.T) {
	store := NewInMemory()
	tenantID := id.TenantID(uuid.New())
	branchID := id.BranchID(uuid.New())
	now := time.Now()

	sale := newStoredSale(t, store, tenantID, branchID, "INV-20260314-AAAA0001", now)

	voidedAt := now.Add(time.Hour)
	mutated := *sale
	mutated.Status = models.SaleStatusVoided
	mutated.VoidedAt = &voidedAt
	mutated.UpdatedAt = voidedAt
	mutated.Total = 9999 // must not be persisted

	require.NoError(t, store.UpdateStatus(context.Background(), &mutated))

	stored, err := store.FindByTenantAndID(context.Background(), tenantID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SaleStatusVoided, stored.Status)
	require.NotNil(t, stored.VoidedAt)
	assert.Equal(t, voidedAt.Unix(), stored.VoidedAt.Unix())
	assert.Equal(t, sale.Total, stored.Total, "only lifecycle columns move on a status update")
}

func TestUpdateStatusMissingSale(t *testing.T) {
	store := NewInMemory()
	sale := newTestSale(t, id.TenantID(uuid.New()), id.BranchID(uuid.New()), "INV-20260314-AAAA0001", time.Now())

	err := store.UpdateStatus(context.Background(), sale)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestFindByTenantAndID_Isolation(t *testing.T) {
	store := NewInMemory()
	tenantID := id.TenantID(uuid.New())
	sale := newStoredSale(t, store, tenantID, id.BranchID(uuid.New()), "INV-20260314-AAAA0001", time.Now())

	found, err := store.FindByTenantAndID(context.Background(), tenantID, sale.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)

	// Mutating the returned sale must not reach the store.
	found.Items[0].Quantity = 99
	again, err := store.FindByTenantAndID(context.Background(), tenantID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Items[0].Quantity)

	_, err = store.FindByTenantAndID(context.Background(), id.TenantID(uuid.New()), sale.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestListByTenant_SummariesNewestFirst(t *testing.T) {
	store := NewInMemory()
	tenantID := id.TenantID(uuid.New())
	branchID := id.BranchID(uuid.New())
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	oldest := newStoredSale(t, store, tenantID, branchID, "INV-A", base)
	newStoredSale(t, store, tenantID, branchID, "INV-B", base.Add(time.Minute))
	newest := newStoredSale(t, store, tenantID, branchID, "INV-C", base.Add(2*time.Minute))
	newStoredSale(t, store, id.TenantID(uuid.New()), branchID, "INV-FOREIGN", base)

	sales, total, err := store.ListByTenant(context.Background(), tenantID, models.SaleFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, sales, 3)
	assert.Equal(t, newest.ID, sales[0].ID)
	assert.Equal(t, oldest.ID, sales[2].ID)
	assert.Nil(t, sales[0].Items, "list rows carry no items")

	// Paging keeps the full count.
	sales, total, err = store.ListByTenant(context.Background(), tenantID, models.SaleFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, sales, 1)
	assert.Equal(t, oldest.ID, sales[0].ID)
}

func TestListByTenant_Filters(t *testing.T) {
	store := NewInMemory()
	tenantID := id.TenantID(uuid.New())
	mainBranch := id.BranchID(uuid.New())
	otherBranch := id.BranchID(uuid.New())
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	early := newStoredSale(t, store, tenantID, mainBranch, "INV-A", base)
	late := newStoredSale(t, store, tenantID, otherBranch, "INV-B", base.Add(48*time.Hour))

	voided := newStoredSale(t, store, tenantID, mainBranch, "INV-C", base)
	mutated := *voided
	mutated.Status = models.SaleStatusVoided
	require.NoError(t, store.UpdateStatus(context.Background(), &mutated))

	sales, _, err := store.ListByTenant(context.Background(), tenantID, models.SaleFilter{BranchID: otherBranch})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, late.ID, sales[0].ID)

	sales, _, err = store.ListByTenant(context.Background(), tenantID, models.SaleFilter{Status: models.SaleStatusVoided})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, voided.ID, sales[0].ID)

	sales, _, err = store.ListByTenant(context.Background(), tenantID, models.SaleFilter{CashierID: early.CashierID})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, early.ID, sales[0].ID)

	// From and To bound CreatedAt inclusively.
	sales, _, err = store.ListByTenant(context.Background(), tenantID, models.SaleFilter{From: base.Add(24 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, late.ID, sales[0].ID)

	sales, _, err = store.ListByTenant(context.Background(), tenantID, models.SaleFilter{To: base})
	require.NoError(t, err)
	assert.Len(t, sales, 2, "a To bound equal to CreatedAt still matches")
}
