package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mazraaty/backend/internal/inventory"
	"github.com/mazraaty/backend/pkg/db/models"
	"github.com/mazraaty/backend/pkg/enums"
	"github.com/mazraaty/backend/pkg/types"
)

type stubStockApplier struct {
	onHand map[uuid.UUID]int
	inputs []inventory.ApplyInput
}

func (s *stubStockApplier) Apply(_ context.Context, _ *gorm.DB, input inventory.ApplyInput) (*models.InventoryLevel, error) {
	s.inputs = append(s.inputs, input)
	return &models.InventoryLevel{ProductID: input.ProductID, OnHand: s.onHand[input.ProductID]}, nil
}

type recordingNotifier struct {
	products []uuid.UUID
}

func (r *recordingNotifier) ProductRestocked(_ context.Context, productID uuid.UUID) {
	r.products = append(r.products, productID)
}

func createTestOrderItem(t *testing.T, db *gorm.DB, orderID, productID uuid.UUID, quantity int) {
	t.Helper()

	unit := decimal.RequireFromString("4.500")
	item := &models.OrderItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		ProductID: productID,
		Name:      types.LocalizedText{EN: "Poultry Drinker", AR: "مشربية دواجن"},
		SKU:       "DRINK-" + productID.String()[:8],
		UnitPrice: unit,
		Quantity:  quantity,
		LineTotal: unit.Mul(decimal.NewFromInt(int64(quantity))),
	}
	require.NoError(t, db.Create(item).Error)
}

func TestRestoreStockReportsProductsBackInStock(t *testing.T) {
	db := setupOrdersTestDB(t)
	ctx := context.Background()

	userID := uuid.New()
	order := &models.Order{
		ID:             uuid.New(),
		Number:         "MZ-20250810-FFFFFF",
		UserID:         &userID,
		Status:         enums.OrderStatusPending,
		PaymentStatus:  enums.PaymentStatusPending,
		PaymentMethod:  enums.PaymentMethodCashOnDelivery,
		ShippingMethod: enums.ShippingMethodStandard,
		Currency:       enums.CurrencyOMR,
		Subtotal:       decimal.RequireFromString("18.000"),
		ShippingFee:    decimal.RequireFromString("2.000"),
		Total:          decimal.RequireFromString("20.000"),
		ShippingAddress: types.AddressSnapshot{
			Name:    "Said Al Busaidi",
			Line1:   "Way 3012, Al Khoud",
			City:    "Muscat",
			Country: "OM",
		},
		Locale:    "en",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(order).Error)

	soldOut := uuid.New()
	stillStocked := uuid.New()
	createTestOrderItem(t, db, order.ID, soldOut, 3)
	createTestOrderItem(t, db, order.ID, stillStocked, 1)

	// Post-restore levels: the sold out product comes back to exactly its
	// restored quantity, the other one already had units on hand.
	stub := &stubStockApplier{onHand: map[uuid.UUID]int{soldOut: 3, stillStocked: 5}}
	svc := &service{repo: NewRepository(db), stock: stub}

	restocked, err := svc.restoreStock(ctx, db, order, &userID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{soldOut}, restocked)

	require.Len(t, stub.inputs, 2)
	for _, input := range stub.inputs {
		assert.Equal(t, enums.InventoryTransactionCancellation, input.Type)
		assert.Positive(t, input.Delta)
		require.NotNil(t, input.OrderID)
		assert.Equal(t, order.ID, *input.OrderID)
	}
}

func TestNotifyRestockedFiresPerProduct(t *testing.T) {
	svc := &service{}
	// No notifier registered yet; nothing to fire.
	svc.notifyRestocked(context.Background(), []uuid.UUID{uuid.New()})

	rec := &recordingNotifier{}
	svc.notifier = rec
	first, second := uuid.New(), uuid.New()
	svc.notifyRestocked(context.Background(), []uuid.UUID{first, second})

	assert.Equal(t, []uuid.UUID{first, second}, rec.products)
}
