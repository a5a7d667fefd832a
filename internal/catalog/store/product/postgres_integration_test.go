//go:build integration

package product_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"fieldpos/internal/catalog/models"
	productstore "fieldpos/internal/catalog/store/product"
	"fieldpos/internal/sentinel"
	id "fieldpos/pkg/domain"
	"fieldpos/pkg/testutil"
	"fieldpos/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *productstore.PostgresStore
	tenantID id.TenantID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = productstore.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateModuleTables(ctx))
	s.tenantID = s.postgres.CreateTestTenant(ctx, s.T())
}

func (s *PostgresStoreSuite) createProduct(tenantID id.TenantID, details models.ProductDetails, stock int) *models.Product {
	p, err := models.NewProduct(id.ProductID(uuid.New()), tenantID, details, stock, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(context.Background(), p))
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

func (s *PostgresStoreSuite) TestFindByCode() {
	ctx := context.Background()
	p := s.createProduct(s.tenantID, acDetails(), 10)

	byBarcode, err := s.store.FindByCode(ctx, s.tenantID, "6291041500214")
	s.Require().NoError(err)
	s.Equal(p.ID, byBarcode.ID)

	bySKU, err := s.store.FindByCode(ctx, s.tenantID, "AC-1500")
	s.Require().NoError(err)
	s.Equal(p.ID, bySKU.ID)

	_, err = s.store.FindByCode(ctx, id.TenantID(uuid.New()), "6291041500214")
	s.ErrorIs(err, sentinel.ErrNotFound, "foreign tenant scanning the barcode sees nothing")
}

func (s *PostgresStoreSuite) TestSKUUniquePerTenant() {
	s.createProduct(s.tenantID, acDetails(), 10)

	clash, err := models.NewProduct(id.ProductID(uuid.New()), s.tenantID, acDetails(), 5, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().ErrorIs(s.store.Create(context.Background(), clash), sentinel.ErrDuplicate)

	// The partial index only covers non-empty SKUs, and only per tenant.
	otherTenant := s.postgres.CreateTestTenant(context.Background(), s.T())
	s.createProduct(otherTenant, acDetails(), 5)

	unlabeled := acDetails()
	unlabeled.SKU = ""
	unlabeled.Barcode = ""
	s.createProduct(s.tenantID, unlabeled, 1)
	unlabeled.Name = "Another Unlabeled Part"
	s.createProduct(s.tenantID, unlabeled, 1)
}

func (s *PostgresStoreSuite) TestAdjustStockGuard() {
	ctx := context.Background()
	p := s.createProduct(s.tenantID, acDetails(), 5)

	adjusted, err := s.store.AdjustStock(ctx, s.tenantID, p.ID, -3)
	s.Require().NoError(err)
	s.Equal(2, adjusted.Stock)

	_, err = s.store.AdjustStock(ctx, s.tenantID, p.ID, -3)
	s.Require().ErrorIs(err, sentinel.ErrInsufficientStock)

	current, err := s.store.FindByTenantAndID(ctx, s.tenantID, p.ID)
	s.Require().NoError(err)
	s.Equal(2, current.Stock, "a refused adjustment moves nothing")

	_, err = s.store.AdjustStock(ctx, s.tenantID, id.ProductID(uuid.New()), -1)
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.AdjustStock(ctx, id.TenantID(uuid.New()), p.ID, -1)
	s.ErrorIs(err, sentinel.ErrNotFound, "foreign tenant cannot move stock")
}

// TestAdjustStockConcurrentOversell hammers one product from many
// goroutines and verifies the row guard keeps stock non-negative.
func (s *PostgresStoreSuite) TestAdjustStockConcurrentOversell() {
	ctx := context.Background()
	p := s.createProduct(s.tenantID, acDetails(), 10)

	result := testutil.RunConcurrent(25, func(int) error {
		_, err := s.store.AdjustStock(ctx, s.tenantID, p.ID, -1)
		return err
	})

	s.EqualValues(10, result.Successes, "only the stock on hand gets sold")
	s.EqualValues(15, result.OutOfStock)

	current, err := s.store.FindByTenantAndID(ctx, s.tenantID, p.ID)
	s.Require().NoError(err)
	s.Equal(0, current.Stock)
}
