package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mazraaty/backend/internal/orders"
	"github.com/mazraaty/backend/pkg/config"
	"github.com/mazraaty/backend/pkg/db/models"
	pkgerrors "github.com/mazraaty/backend/pkg/errors"
	"github.com/mazraaty/backend/pkg/money"
)

// Invoice is a rendered plain-text invoice ready for download.
type Invoice struct {
	OrderNumber string `json:"order_number"`
	Filename    string `json:"filename"`
	Content     string `json:"content"`
}

// Service renders invoices for placed orders.
type Service interface {
	ForCustomer(ctx context.Context, userID, orderID uuid.UUID) (*Invoice, error)
	ForGuest(ctx context.Context, orderNumber, email string) (*Invoice, error)
	ForAdmin(ctx context.Context, orderID uuid.UUID) (*Invoice, error)
}

type service struct {
	repo   *orders.Repository
	store  config.StoreConfig
	places int
}

// NewService constructs an invoices service instance.
func NewService(repo *orders.Repository, store config.StoreConfig, cfg config.CurrencyConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo, store: store, places: cfg.DecimalPlaces}, nil
}

// ForCustomer renders the invoice for an order the user owns.
func (s *service) ForCustomer(ctx context.Context, userID, orderID uuid.UUID) (*Invoice, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.render(order), nil
}

// ForGuest renders the invoice for a guest order. The caller must present the
// order number together with the email used at checkout; a miss on either
// looks identical to a missing order.
func (s *service) ForGuest(ctx context.Context, orderNumber, email string) (*Invoice, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	email = strings.ToLower(strings.TrimSpace(email))
	if orderNumber == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number and email are required")
	}

	order, err := s.repo.FindByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.GuestEmail == nil || strings.ToLower(*order.GuestEmail) != email {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.render(order), nil
}

// ForAdmin renders the invoice for any order.
func (s *service) ForAdmin(ctx context.Context, orderID uuid.UUID) (*Invoice, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.render(order), nil
}

func (s *service) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// render lays the invoice out in the locale the order was placed in. The
// format is deliberately plain text: it prints cleanly and survives every
// mail client.
func (s *service) render(order *models.Order) *Invoice {
	locale := order.Locale
	labels := englishLabels
	storeName := s.store.NameEN
	if locale == "ar" {
		labels = arabicLabels
		storeName = s.store.NameAR
	}

	var b strings.Builder
	line := strings.Repeat("=", 52)

	fmt.Fprintf(&b, "%s\n%s\n", storeName, line)
	if s.store.Address != "" {
		fmt.Fprintf(&b, "%s\n", s.store.Address)
	}
	if s.store.Email != "" {
		fmt.Fprintf(&b, "%s\n", s.store.Email)
	}
	if s.store.Phone != "" {
		fmt.Fprintf(&b, "%s\n", s.store.Phone)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s: %s\n", labels.invoice, order.Number)
	fmt.Fprintf(&b, "%s: %s\n", labels.date, order.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "%s: %s\n", labels.payment, order.PaymentMethod.String())
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s:\n", labels.shipTo)
	addr := order.ShippingAddress
	fmt.Fprintf(&b, "  %s\n  %s\n", addr.Name, addr.Line1)
	if addr.Line2 != "" {
		fmt.Fprintf(&b, "  %s\n", addr.Line2)
	}
	fmt.Fprintf(&b, "  %s, %s\n", addr.City, addr.Country)
	if addr.Phone != "" {
		fmt.Fprintf(&b, "  %s\n", addr.Phone)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s\n%s\n", labels.items, line)
	for i := range order.Items {
		item := &order.Items[i]
		fmt.Fprintf(&b, "%-30s x%-3d %10s\n",
			truncate(item.Name.Resolve(locale), 30),
			item.Quantity,
			money.New(item.LineTotal).StringFixed(s.places),
		)
		fmt.Fprintf(&b, "  %s @ %s\n", item.SKU, money.New(item.UnitPrice).StringFixed(s.places))
	}
	b.WriteString(line + "\n")

	currency := order.Currency.String()
	fmt.Fprintf(&b, "%-35s %10s %s\n", labels.subtotal, money.New(order.Subtotal).StringFixed(s.places), currency)
	fmt.Fprintf(&b, "%-35s %10s %s\n", labels.shipping, money.New(order.ShippingFee).StringFixed(s.places), currency)
	fmt.Fprintf(&b, "%-35s %10s %s\n", labels.total, money.New(order.Total).StringFixed(s.places), currency)

	return &Invoice{
		OrderNumber: order.Number,
		Filename:    fmt.Sprintf("invoice-%s.txt", order.Number),
		Content:     b.String(),
	}
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}

type labelSet struct {
	invoice  string
	date     string
	payment  string
	shipTo   string
	items    string
	subtotal string
	shipping string
	total    string
}

var englishLabels = labelSet{
	invoice:  "Invoice",
	date:     "Date",
	payment:  "Payment method",
	shipTo:   "Ship to",
	items:    "Items",
	subtotal: "Subtotal",
	shipping: "Shipping",
	total:    "Total",
}

var arabicLabels = labelSet{
	invoice:  "فاتورة",
	date:     "التاريخ",
	payment:  "طريقة الدفع",
	shipTo:   "الشحن إلى",
	items:    "المنتجات",
	subtotal: "المجموع الفرعي",
	shipping: "الشحن",
	total:    "الإجمالي",
}
