package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
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
	"github.com/mazraaty/backend/pkg/money"
	"github.com/mazraaty/backend/pkg/types"
)

const numberAttempts = 5

// ItemInput is one requested line in a guest checkout.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// Input is the validated checkout payload. Signed-in checkouts take their
// lines from the stored cart; guest checkouts carry Items and GuestEmail.
type Input struct {
	GuestEmail      string
	Items           []ItemInput
	ShippingAddress types.AddressSnapshot
	SaveAddress     bool
	ShippingMethod  enums.ShippingMethod
	PaymentMethod   enums.PaymentMethod
	Notes           *string
	Locale          string
}

// Service turns a cart into an order.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, input Input) (*orders.OrderDTO, error)
	GuestCheckout(ctx context.Context, input Input) (*orders.OrderDTO, error)
}

// stockApplier reserves units inside the checkout transaction.
type stockApplier interface {
	Apply(ctx context.Context, tx *gorm.DB, input inventory.ApplyInput) (*models.InventoryLevel, error)
}

// addressSaver copies the shipping address into the customer's address book
// after the order commits.
type addressSaver interface {
	SaveSnapshot(ctx context.Context, userID uuid.UUID, snapshot types.AddressSnapshot) error
}

type service struct {
	cartRepo    *cart.Repository
	catalogRepo *catalog.Repository
	ordersRepo  *orders.Repository
	stock       stockApplier
	addresses   addressSaver
	dbClient    *db.Client
	logg        *logger.Logger
	standardFee money.Amount
	expressFee  money.Amount
	currency    enums.Currency
	places      int
}

// NewService constructs a checkout service instance.
func NewService(
	cartRepo *cart.Repository,
	catalogRepo *catalog.Repository,
	ordersRepo *orders.Repository,
	stock stockApplier,
	addresses addressSaver,
	dbClient *db.Client,
	logg *logger.Logger,
	currencyCfg config.CurrencyConfig,
	shippingCfg config.ShippingConfig,
) (Service, error) {
	if cartRepo == nil || catalogRepo == nil || ordersRepo == nil {
		return nil, fmt.Errorf("checkout repositories required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock applier required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address saver required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	standardFee, err := money.Parse(shippingCfg.StandardFee)
	if err != nil {
		return nil, fmt.Errorf("standard shipping fee: %w", err)
	}
	expressFee, err := money.Parse(shippingCfg.ExpressFee)
	if err != nil {
		return nil, fmt.Errorf("express shipping fee: %w", err)
	}

	currency := enums.Currency(currencyCfg.Display)
	if !currency.IsValid() {
		currency = enums.CurrencyOMR
	}

	return &service{
		cartRepo:    cartRepo,
		catalogRepo: catalogRepo,
		ordersRepo:  ordersRepo,
		stock:       stock,
		addresses:   addresses,
		dbClient:    dbClient,
		logg:        logg,
		standardFee: standardFee,
		expressFee:  expressFee,
		currency:    currency,
		places:      currencyCfg.DecimalPlaces,
	}, nil
}

// Checkout converts the signed-in customer's cart into an order. Prices and
// totals are recomputed from the live catalog; whatever the client sent for
// amounts is ignored. The whole conversion runs in one transaction, so either
// the order exists with its stock reserved and the cart cleared, or nothing
// changed.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, input Input) (*orders.OrderDTO, error) {
	if err := s.validateCommon(input); err != nil {
		return nil, err
	}
	// Guests may skip the phone; account holders must leave a number so
	// delivery can reach them.
	if strings.TrimSpace(input.ShippingAddress.Phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete").
			WithDetails(map[string]any{"missing": "phone"})
	}

	lines, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	requested := make([]ItemInput, 0, len(lines))
	for i := range lines {
		requested = append(requested, ItemInput{ProductID: lines[i].ProductID, Quantity: lines[i].Quantity})
	}

	order, err := s.placeOrder(ctx, &userID, nil, requested, input, true)
	if err != nil {
		return nil, err
	}

	if input.SaveAddress {
		s.saveAddress(ctx, userID, order)
	}
	return orders.NewOrderDTO(order, input.Locale, s.places), nil
}

// GuestCheckout places an order without an account. The contact email rides
// on the order itself.
func (s *service) GuestCheckout(ctx context.Context, input Input) (*orders.OrderDTO, error) {
	if err := s.validateCommon(input); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(input.GuestEmail))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "items are required")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
	}

	order, err := s.placeOrder(ctx, nil, &email, input.Items, input, false)
	if err != nil {
		return nil, err
	}
	return orders.NewOrderDTO(order, input.Locale, s.places), nil
}

func (s *service) validateCommon(input Input) error {
	if !input.ShippingMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping method")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if missing := input.ShippingAddress.Validate(); missing != "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete").
			WithDetails(map[string]any{"missing": missing})
	}
	return nil
}

func (s *service) placeOrder(ctx context.Context, userID *uuid.UUID, guestEmail *string, requested []ItemInput, input Input, clearCart bool) (*models.Order, error) {
	locale := input.Locale
	if locale == "" {
		locale = "en"
	}

	var order *models.Order
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalogRepo.WithTx(tx)

		items := make([]models.OrderItem, 0, len(requested))
		subtotal := money.Zero
		for _, line := range requested {
			product, err := catalogRepo.FindProductByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, "product no longer available").
						WithDetails(map[string]any{"product_id": line.ProductID})
				}
				return err
			}
			if !product.IsPublished {
				return pkgerrors.New(pkgerrors.CodeValidation, "product no longer available").
					WithDetails(map[string]any{"product_id": line.ProductID})
			}

			unit := money.New(product.Price)
			lineTotal := unit.MulInt(int64(line.Quantity))
			subtotal = subtotal.Add(lineTotal)
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				SKU:       product.SKU,
				UnitPrice: unit.Decimal(),
				Quantity:  line.Quantity,
				LineTotal: lineTotal.Decimal(),
			})
		}

		fee := s.shippingFee(input.ShippingMethod)
		total := subtotal.Add(fee)

		order = &models.Order{
			UserID:          userID,
			GuestEmail:      guestEmail,
			Status:          enums.OrderStatusPending,
			PaymentStatus:   enums.PaymentStatusPending,
			PaymentMethod:   input.PaymentMethod,
			ShippingMethod:  input.ShippingMethod,
			Currency:        s.currency,
			Subtotal:        subtotal.Decimal(),
			ShippingFee:     fee.Decimal(),
			Total:           total.Decimal(),
			ShippingAddress: input.ShippingAddress,
			Locale:          locale,
			Notes:           input.Notes,
			Items:           items,
		}
		if err := s.createWithNumber(ctx, tx, order); err != nil {
			return err
		}

		for _, line := range requested {
			_, err := s.stock.Apply(ctx, tx, inventory.ApplyInput{
				ProductID: line.ProductID,
				Type:      enums.InventoryTransactionSale,
				Delta:     -line.Quantity,
				OrderID:   &order.ID,
				ActorID:   userID,
			})
			if err != nil {
				return err
			}
		}

		if clearCart && userID != nil {
			if err := s.cartRepo.WithTx(tx).Clear(ctx, *userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
	}

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"number": order.Number,
		"total":  money.New(order.Total).StringFixed(s.places),
		"guest":  userID == nil,
	})
	s.logg.Info(logCtx, "checkout.order_placed")
	return order, nil
}

// createWithNumber retries on the rare order number collision. Each attempt
// runs under a savepoint because a unique violation would otherwise abort the
// surrounding transaction.
func (s *service) createWithNumber(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	repo := s.ordersRepo.WithTx(tx)
	for attempt := 0; attempt < numberAttempts; attempt++ {
		number, err := orders.NewOrderNumber(time.Now())
		if err != nil {
			return err
		}
		order.Number = number

		if err := tx.SavePoint("order_number").Error; err != nil {
			return err
		}
		err = repo.Create(ctx, order)
		if err == nil {
			return nil
		}
		if !db.IsUniqueViolation(err, "idx_orders_number") {
			return err
		}
		if err := tx.RollbackTo("order_number").Error; err != nil {
			return err
		}
	}
	return fmt.Errorf("order number collisions exhausted retries")
}

func (s *service) shippingFee(method enums.ShippingMethod) money.Amount {
	if method == enums.ShippingMethodExpress {
		return s.expressFee
	}
	return s.standardFee
}

// saveAddress runs after commit. A failure must not undo the order, so it is
// recorded on the order instead of returned.
func (s *service) saveAddress(ctx context.Context, userID uuid.UUID, order *models.Order) {
	err := s.addresses.SaveSnapshot(ctx, userID, order.ShippingAddress)
	if err == nil {
		return
	}

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Error(logCtx, "checkout.address_save_failed", err)

	order.AddressSaveFailed = true
	if saveErr := s.ordersRepo.Save(ctx, order); saveErr != nil {
		s.logg.Error(logCtx, "checkout.address_save_flag_failed", saveErr)
	}
}
