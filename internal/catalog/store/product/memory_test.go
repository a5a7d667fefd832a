package product

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldpos/internal/catalog/models"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
	"fieldpos/pkg/testutil"
)

func newStoredProduct(t *testing.T, store *InMemory, tenantID id.TenantID, details models.ProductDetails, stock int) *models.Product {
	t.Helper()
	p, err := models.NewProduct(id.ProductID(uuid.New()), tenantID, details, stock, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), p))
	return p
}

func acDetails() models.ProductDetails {
	return models.ProductDetails{
		Name:              "Split AC 1.5 Ton",
		SKU:               "AC-1500",
		Barcode:           "6291041500214",
		Price:             1899.0,
		Cost:              1400.0,
		LowStockThreshold: 3,
		Maintainable:      true,
	}
}

func TestFindByCode(t *testing.T) {
	store := NewInMemory()
	tenantID := id.TenantID(uuid.New())
	p := newStoredProduct(t, store, tenantID, acDetails(), 10)

	byBarcode, err := store.FindByCode(context.Background(), tenantID, "6291041500214")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byBarcode.ID)

	bySKU, err := store.FindByCode(context.Background(), tenantID, "AC-1500")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySKU.ID)

	// A foreign tenant scanning the same barcode sees nothing.
	_, err = store.FindByCode(context.Background(), id.TenantID(uuid.New()), "6291041500214")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	_, err = store.FindByCode(context.Background(), tenantID, "no-such-code")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestSKUUniquePerTenant(t *testing.T) {
	store := NewInMemory()
	tenantID := id.TenantID(uuid.New())
	newStoredProduct(t, store, tenantID, acDetails(), 10)

	dup, err := models.NewProduct(id.ProductID(uuid.New()), tenantID, acDetails(), 0, time.Now().UTC())
	require.NoError(t, err)
	assert.ErrorIs(t, store.Create(context.Background(), dup), sentinel.ErrDuplicate)

	// The same SKU under another tenant is fine.
	other, err := models.NewProduct(id.ProductID(uuid.New()), id.TenantID(uuid.New()), acDetails(), 0, time.Now().UTC())
	require.NoError(t, err)
	assert.NoError(t, store.Create(context.Background(), other))
}

func TestEmptySKUNeverCollides(t *testing.T) {
	store := NewInMemory()
	tenantID := id.TenantID(uuid.New())

	details := acDetails()
	details.SKU = ""
	details.Barcode = ""
	newStoredProduct(t, store, tenantID, details, 0)

	details.Name = "Another unlabeled product"
	second, err := models.NewProduct(id.ProductID(uuid.New()), tenantID, details, 0, time.Now().UTC())
	require.NoError(t, err)
	assert.NoError(t, store.Create(context.Background(), second))
}

func TestListByTenant_Filters(t *testing.T) {
	store := NewInMemory()
	tenantID := id.TenantID(uuid.New())
	categoryID := id.CategoryID(uuid.New())

	ac := acDetails()
	ac.CategoryID = categoryID
	newStoredProduct(t, store, tenantID, ac, 10)

	fridge := models.ProductDetails{Name: "Fridge 400L", SKU: "FR-400", Price: 2199, LowStockThreshold: 2}
	low := newStoredProduct(t, store, tenantID, fridge, 1)

	fan := models.ProductDetails{Name: "Ceiling Fan", SKU: "CF-100", Price: 149}
	inactive := newStoredProduct(t, store, tenantID, fan, 5)
	require.NoError(t, inactive.Deactivate(time.Now().UTC()))
	require.NoError(t, store.Update(context.Background(), inactive))

	// Another tenant's product never shows up.
	newStoredProduct(t, store, id.TenantID(uuid.New()), models.ProductDetails{Name: "Foreign", Price: 1}, 0)

	all, total, err := store.ListByTenant(context.Background(), tenantID, models.ProductFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, "Ceiling Fan", all[0].Name, "sorted by name")

	byCategory, total, err := store.ListByTenant(context.Background(), tenantID, models.ProductFilter{CategoryID: categoryID, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Split AC 1.5 Ton", byCategory[0].Name)

	active, total, err := store.ListByTenant(context.Background(), tenantID, models.ProductFilter{Status: models.ProductStatusActive, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, active, 2)

	lowStock, total, err := store.ListByTenant(context.Background(), tenantID, models.ProductFilter{LowStock: true, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, low.ID, lowStock[0].ID)

	maintainable, total, err := store.ListByTenant(context.Background(), tenantID, models.ProductFilter{Maintainable: true, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Split AC 1.5 Ton", maintainable[0].Name)

	bySearch, total, err := store.ListByTenant(context.Background(), tenantID, models.ProductFilter{Search: "fr-4", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Fridge 400L", bySearch[0].Name)

	page, total, err := store.ListByTenant(context.Background(), tenantID, models.ProductFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 1)
}

func TestAdjustStock(t *testing.T) {
	store := NewInMemory()
	tenantID := id.TenantID(uuid.New())
	p := newStoredProduct(t, store, tenantID, acDetails(), 5)

	adjusted, err := store.AdjustStock(context.Background(), tenantID, p.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 2, adjusted.Stock)

	// Crossing zero is refused and nothing moves.
	_, err = store.AdjustStock(context.Background(), tenantID, p.ID, -3)
	assert.ErrorIs(t, err, sentinel.ErrInsufficientStock)

	current, err := store.FindByTenantAndID(context.Background(), tenantID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, current.Stock)

	// Draining to exactly zero is allowed.
	adjusted, err = store.AdjustStock(context.Background(), tenantID, p.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, 0, adjusted.Stock)

	_, err = store.AdjustStock(context.Background(), tenantID, id.ProductID(uuid.New()), 1)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	_, err = store.AdjustStock(context.Background(), id.TenantID(uuid.New()), p.ID, 1)
	assert.ErrorIs(t, err, sentinel.ErrNotFound, "foreign tenant cannot move stock")
}

func TestAdjustStock_ConcurrentOversell(t *testing.T) {
	store := NewInMemory()
	tenantID := id.TenantID(uuid.New())
	p := newStoredProduct(t, store, tenantID, acDetails(), 10)

	result := testutil.RunConcurrent(25, func(int) error {
		_, err := store.AdjustStock(context.Background(), tenantID, p.ID, -1)
		return err
	})

	assert.EqualValues(t, 10, result.Successes, "only the stock on hand gets sold")
	assert.EqualValues(t, 15, result.OutOfStock)

	current, err := store.FindByTenantAndID(context.Background(), tenantID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, current.Stock, "stock never goes negative under contention")
}

func TestUpdateNeverWritesStock(t *testing.T) {
	store := NewInMemory()
	tenantID := id.TenantID(uuid.New())
	p := newStoredProduct(t, store, tenantID, acDetails(), 5)

	_, err := store.AdjustStock(context.Background(), tenantID, p.ID, -2)
	require.NoError(t, err)

	// The caller's copy still says 5; persisting it must not resurrect
	// the sold units.
	details := acDetails()
	details.Price = 1799
	require.NoError(t, p.UpdateDetails(details, time.Now().UTC()))
	require.NoError(t, store.Update(context.Background(), p))

	current, err := store.FindByTenantAndID(context.Background(), tenantID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, current.Stock)
	assert.Equal(t, 1799.0, current.Price)
}
