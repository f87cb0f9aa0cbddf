package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mazraaty/backend/pkg/config"
	"github.com/mazraaty/backend/pkg/db/models"
	pkgerrors "github.com/mazraaty/backend/pkg/errors"
	"github.com/mazraaty/backend/pkg/money"
)

const maxLineQuantity = 999

// ItemDTO is one cart line resolved for the requested locale.
type ItemDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	UnitPrice string    `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	LineTotal string    `json:"line_total"`
	ImageURL  *string   `json:"image_url,omitempty"`
	InStock   bool      `json:"in_stock"`
	Available int       `json:"available"`
}

// CartDTO is the customer's cart with a server-computed subtotal.
type CartDTO struct {
	Items    []ItemDTO `json:"items"`
	Subtotal string    `json:"subtotal"`
	Currency string    `json:"currency"`
}

// Service exposes cart management for signed-in customers.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID, locale string) (*CartDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int, locale string) (*CartDTO, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int, locale string) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID, locale string) (*CartDTO, error)
	Merge(ctx context.Context, userID uuid.UUID, lines []MergeLine, locale string) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// MergeLine is one entry of a client-held guest cart being folded into the
// account cart after login.
type MergeLine struct {
	ProductID uuid.UUID
	Quantity  int
}

type productReader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo      *Repository
	products  productReader
	converter *money.Converter
	currency  string
}

// NewService constructs a cart service instance.
func NewService(repo *Repository, products productReader, cfg config.CurrencyConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	converter, err := money.NewConverter(cfg.USDExchangeRate, cfg.DecimalPlaces)
	if err != nil {
		return nil, fmt.Errorf("currency converter: %w", err)
	}
	return &service{
		repo:      repo,
		products:  products,
		converter: converter,
		currency:  cfg.Display,
	}, nil
}

// GetCart returns the cart with prices read from the live catalog.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID, locale string) (*CartDTO, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.toCartDTO(items, locale), nil
}

// AddItem upserts a line: adding an existing product bumps its quantity.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int, locale string) (*CartDTO, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if !product.InStock() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is out of stock")
	}

	line, err := s.repo.FindLine(ctx, userID, productID)
	switch {
	case err == nil:
		line.Quantity = clampQuantity(line.Quantity + quantity)
		if saveErr := s.repo.Save(ctx, line); saveErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, saveErr, "update cart line")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		line = &models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  clampQuantity(quantity),
		}
		if createErr := s.repo.Create(ctx, line); createErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "create cart line")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	return s.GetCart(ctx, userID, locale)
}

// Merge folds guest cart lines into the account cart. Lines pointing at
// products that are gone, unpublished or sold out are skipped rather than
// failing the whole merge; the returned cart is the surviving state.
func (s *service) Merge(ctx context.Context, userID uuid.UUID, lines []MergeLine, locale string) (*CartDTO, error) {
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		_, err := s.AddItem(ctx, userID, line.ProductID, line.Quantity, locale)
		if err == nil {
			continue
		}
		if typed := pkgerrors.As(err); typed != nil &&
			(typed.Code() == pkgerrors.CodeNotFound || typed.Code() == pkgerrors.CodeStateConflict) {
			continue
		}
		return nil, err
	}
	return s.GetCart(ctx, userID, locale)
}

// UpdateItem sets a line's quantity; zero removes the line.
func (s *service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int, locale string) (*CartDTO, error) {
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, userID, itemID, locale)
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	var target *models.CartItem
	for i := range items {
		if items[i].ID == itemID {
			target = &items[i]
			break
		}
	}
	if target == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	target.Quantity = clampQuantity(quantity)
	target.Product = nil
	if err := s.repo.Save(ctx, target); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	return s.GetCart(ctx, userID, locale)
}

// RemoveItem deletes one line.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID, locale string) (*CartDTO, error) {
	if err := s.repo.Delete(ctx, userID, itemID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return s.GetCart(ctx, userID, locale)
}

// Clear empties the cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) toCartDTO(items []models.CartItem, locale string) *CartDTO {
	dto := &CartDTO{Items: make([]ItemDTO, 0, len(items)), Currency: s.currency}
	subtotal := money.Zero
	for i := range items {
		item := &items[i]
		if item.Product == nil {
			continue
		}
		unit := money.New(item.Product.Price)
		lineTotal := unit.MulInt(int64(item.Quantity))
		subtotal = subtotal.Add(lineTotal)

		line := ItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Slug:      item.Product.Slug,
			Name:      item.Product.Name.Resolve(locale),
			UnitPrice: unit.StringFixed(s.converter.Places()),
			Quantity:  item.Quantity,
			LineTotal: lineTotal.StringFixed(s.converter.Places()),
			ImageURL:  item.Product.ImageURL,
			InStock:   item.Product.InStock(),
		}
		if item.Product.Inventory != nil {
			line.Available = item.Product.Inventory.OnHand
		}
		dto.Items = append(dto.Items, line)
	}
	dto.Subtotal = subtotal.StringFixed(s.converter.Places())
	return dto
}

func clampQuantity(quantity int) int {
	if quantity > maxLineQuantity {
		return maxLineQuantity
	}
	return quantity
}
