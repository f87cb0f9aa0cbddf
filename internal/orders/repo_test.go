package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mazraaty/backend/pkg/db/models"
	"github.com/mazraaty/backend/pkg/enums"
	"github.com/mazraaty/backend/pkg/pagination"
	"github.com/mazraaty/backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
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
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  sku TEXT NOT NULL,
  unit_price TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  line_total TEXT NOT NULL,
  created_at DATETIME
);`
	statusEvents := `
CREATE TABLE IF NOT EXISTS order_status_events (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  from_status TEXT NOT NULL,
  to_status TEXT NOT NULL,
  actor_id TEXT,
  note TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	require.NoError(t, db.Exec(statusEvents).Error)
	return db
}

func createTestOrder(t *testing.T, db *gorm.DB, userID *uuid.UUID, number string, status enums.OrderStatus, created time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:             uuid.New(),
		Number:         number,
		UserID:         userID,
		Status:         status,
		PaymentStatus:  enums.PaymentStatusPending,
		PaymentMethod:  enums.PaymentMethodCashOnDelivery,
		ShippingMethod: enums.ShippingMethodStandard,
		Currency:       enums.CurrencyOMR,
		Subtotal:       decimal.RequireFromString("25.000"),
		ShippingFee:    decimal.RequireFromString("2.000"),
		Total:          decimal.RequireFromString("27.000"),
		ShippingAddress: types.AddressSnapshot{
			Name:    "Said Al Busaidi",
			Line1:   "Way 3012, Al Khoud",
			City:    "Muscat",
			Country: "OM",
			Phone:   "+968 9123 4567",
		},
		Locale:    "en",
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, db.Create(order).Error)

	item := &models.OrderItem{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: uuid.New(),
		Name:      types.LocalizedText{EN: "Automatic Chicken Feeder", AR: "معلفة دجاج أوتوماتيكية"},
		SKU:       "FEED-AUTO-01",
		UnitPrice: decimal.RequireFromString("12.500"),
		Quantity:  2,
		LineTotal: decimal.RequireFromString("25.000"),
		CreatedAt: created,
	}
	require.NoError(t, db.Create(item).Error)
	return order
}

func TestRepositoryFindByIDLoadsItemsAndHistory(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	created := createTestOrder(t, db, &userID, "MZ-20250810-AAAAAA", enums.OrderStatusPending, time.Now().UTC())

	event := &models.OrderStatusEvent{
		ID:         uuid.New(),
		OrderID:    created.ID,
		FromStatus: enums.OrderStatusPending,
		ToStatus:   enums.OrderStatusProcessing,
	}
	require.NoError(t, repo.CreateStatusEvent(ctx, event))

	order, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "FEED-AUTO-01", order.Items[0].SKU)
	require.Len(t, order.StatusEvents, 1)
	assert.Equal(t, enums.OrderStatusProcessing, order.StatusEvents[0].ToStatus)
	assert.Equal(t, "Muscat", order.ShippingAddress.City)
}

func TestRepositoryFindByNumber(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	createTestOrder(t, db, &userID, "MZ-20250810-BBBBBB", enums.OrderStatusPending, time.Now().UTC())

	order, err := repo.FindByNumber(ctx, "MZ-20250810-BBBBBB")
	require.NoError(t, err)
	assert.Equal(t, "MZ-20250810-BBBBBB", order.Number)

	_, err = repo.FindByNumber(ctx, "MZ-20250810-ZZZZZZ")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListFiltersAndPaginates(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userA := uuid.New()
	userB := uuid.New()
	base := time.Date(2025, time.August, 10, 12, 0, 0, 0, time.UTC)

	first := createTestOrder(t, db, &userA, "MZ-20250810-CCCCCC", enums.OrderStatusPending, base)
	second := createTestOrder(t, db, &userA, "MZ-20250810-DDDDDD", enums.OrderStatusShipped, base.Add(time.Hour))
	createTestOrder(t, db, &userB, "MZ-20250810-EEEEEE", enums.OrderStatusPending, base.Add(2*time.Hour))

	mine, err := repo.List(ctx, ListFilter{UserID: &userA}, nil, 10)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)

	shipped := enums.OrderStatusShipped
	filtered, err := repo.List(ctx, ListFilter{UserID: &userA, Status: &shipped}, nil, 10)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, second.ID, filtered[0].ID)

	cursor := &pagination.Cursor{CreatedAt: second.CreatedAt, ID: second.ID}
	older, err := repo.List(ctx, ListFilter{UserID: &userA}, cursor, 10)
	require.NoError(t, err)
	require.Len(t, older, 1)
	assert.Equal(t, first.ID, older[0].ID)
}
