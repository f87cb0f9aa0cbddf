package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mazraaty/backend/internal/cart"
	"github.com/mazraaty/backend/internal/catalog"
	"github.com/mazraaty/backend/internal/inventory"
	"github.com/mazraaty/backend/internal/orders"
	"github.com/mazraaty/backend/pkg/config"
	"github.com/mazraaty/backend/pkg/db"
	"github.com/mazraaty/backend/pkg/db/models"
	"github.com/mazraaty/backend/pkg/enums"
	pkgerrors "github.com/mazraaty/backend/pkg/errors"
	"github.com/mazraaty/backend/pkg/logger"
	"github.com/mazraaty/backend/pkg/types"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL,
  name TEXT NOT NULL,
  sort_order INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  specs TEXT,
  features TEXT,
  price TEXT NOT NULL,
  compare_at_price TEXT,
  image_url TEXT,
  gallery TEXT,
  tags TEXT,
  is_published INTEGER NOT NULL DEFAULT 0,
  is_featured INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS inventory_levels (
  product_id TEXT PRIMARY KEY,
  on_hand INTEGER NOT NULL DEFAULT 0,
  low_stock_threshold INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  number TEXT NOT NULL UNIQUE,
  user_id TEXT,
  guest_email TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL,
  shipping_method TEXT NOT NULL,
  currency TEXT NOT NULL DEFAULT 'OMR',
  subtotal TEXT NOT NULL,
  shipping_fee TEXT NOT NULL,
  total TEXT NOT NULL,
  shipping_address TEXT NOT NULL,
  address_save_failed INTEGER NOT NULL DEFAULT 0,
  locale TEXT NOT NULL DEFAULT 'en',
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  sku TEXT NOT NULL,
  unit_price TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  line_total TEXT NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_status_events (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  from_status TEXT NOT NULL,
  to_status TEXT NOT NULL,
  actor_id TEXT,
  note TEXT,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

func createTestProduct(t *testing.T, gdb *gorm.DB, name, price string, published bool) *models.Product {
	t.Helper()

	suffix := uuid.New().String()[:8]
	product := &models.Product{
		ID:          uuid.New(),
		CategoryID:  uuid.New(),
		Slug:        "prod-" + suffix,
		SKU:         "SKU-" + suffix,
		Name:        types.LocalizedText{EN: name, AR: name},
		Price:       decimal.RequireFromString(price),
		Gallery:     pq.StringArray{},
		Tags:        pq.StringArray{},
		IsPublished: published,
	}
	require.NoError(t, gdb.Create(product).Error)
	return product
}

type stubStockApplier struct {
	inputs []inventory.ApplyInput
}

func (s *stubStockApplier) Apply(_ context.Context, _ *gorm.DB, input inventory.ApplyInput) (*models.InventoryLevel, error) {
	s.inputs = append(s.inputs, input)
	return &models.InventoryLevel{ProductID: input.ProductID, OnHand: 10}, nil
}

type stubAddressSaver struct {
	err error
}

func (s *stubAddressSaver) SaveSnapshot(context.Context, uuid.UUID, types.AddressSnapshot) error {
	return s.err
}

func newTestCheckoutService(t *testing.T, gdb *gorm.DB, stock *stubStockApplier) Service {
	t.Helper()

	svc, err := NewService(
		cart.NewRepository(gdb),
		catalog.NewRepository(gdb),
		orders.NewRepository(gdb),
		stock,
		&stubAddressSaver{},
		db.NewWithConn(gdb),
		logger.New(logger.Options{ServiceName: "checkout-test"}),
		config.CurrencyConfig{Display: "OMR", DecimalPlaces: 3},
		config.ShippingConfig{StandardFee: "1.500", ExpressFee: "3.000"},
	)
	require.NoError(t, err)
	return svc
}

func TestGuestCheckoutComputesTotalsFromCatalog(t *testing.T) {
	gdb := setupCheckoutTestDB(t)
	ctx := context.Background()

	feeder := createTestProduct(t, gdb, "Automatic Chicken Feeder", "15.000", true)
	drinker := createTestProduct(t, gdb, "Poultry Drinker", "18.500", true)

	stock := &stubStockApplier{}
	svc := newTestCheckoutService(t, gdb, stock)

	input := validCheckoutInput()
	input.GuestEmail = "Guest@Example.com"
	// Guests checkout without a phone on file.
	input.ShippingAddress.Phone = ""
	input.Items = []ItemInput{
		{ProductID: feeder.ID, Quantity: 2},
		{ProductID: drinker.ID, Quantity: 1},
	}

	dto, err := svc.GuestCheckout(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, "pending", dto.PaymentStatus)
	assert.Equal(t, "48.500", dto.Subtotal)
	assert.Equal(t, "1.500", dto.ShippingFee)
	assert.Equal(t, "50.000", dto.Total)

	require.Len(t, dto.Items, 2)
	assert.Equal(t, "30.000", dto.Items[0].LineTotal)
	assert.Equal(t, "18.500", dto.Items[1].LineTotal)

	// The order row carries the same recomputed amounts and the lowercased
	// guest email.
	stored, err := orders.NewRepository(gdb).FindByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(decimal.RequireFromString("50.000")), "stored total %s", stored.Total)
	assert.True(t, stored.Subtotal.Add(stored.ShippingFee).Equal(stored.Total))
	require.NotNil(t, stored.GuestEmail)
	assert.Equal(t, "guest@example.com", *stored.GuestEmail)
	assert.Nil(t, stored.UserID)

	// Each line reserved stock with a negative sale delta.
	require.Len(t, stock.inputs, 2)
	deltas := map[uuid.UUID]int{}
	for _, applied := range stock.inputs {
		assert.Equal(t, enums.InventoryTransactionSale, applied.Type)
		deltas[applied.ProductID] = applied.Delta
	}
	assert.Equal(t, -2, deltas[feeder.ID])
	assert.Equal(t, -1, deltas[drinker.ID])
}

func TestGuestCheckoutRejectsUnavailableProducts(t *testing.T) {
	gdb := setupCheckoutTestDB(t)
	ctx := context.Background()

	draft := createTestProduct(t, gdb, "Egg Incubator", "42.000", false)

	stock := &stubStockApplier{}
	svc := newTestCheckoutService(t, gdb, stock)

	input := validCheckoutInput()
	input.GuestEmail = "guest@example.com"
	input.Items = []ItemInput{{ProductID: draft.ID, Quantity: 1}}

	_, err := svc.GuestCheckout(ctx, input)
	assertUnavailableProduct(t, err)

	// Unknown products fail the same way.
	input.Items = []ItemInput{{ProductID: uuid.New(), Quantity: 1}}
	_, err = svc.GuestCheckout(ctx, input)
	assertUnavailableProduct(t, err)

	assert.Empty(t, stock.inputs, "no stock should move for a rejected checkout")
}

func assertUnavailableProduct(t *testing.T, err error) {
	t.Helper()
	var typed *pkgerrors.Error
	if !errors.As(err, &typed) || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	assert.Equal(t, "product no longer available", typed.Message())
}
