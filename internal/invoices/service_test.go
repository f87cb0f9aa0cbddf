package invoices

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mazraaty/backend/pkg/config"
	"github.com/mazraaty/backend/pkg/db/models"
	"github.com/mazraaty/backend/pkg/enums"
	"github.com/mazraaty/backend/pkg/types"
)

func testStore() config.StoreConfig {
	return config.StoreConfig{
		NameEN: "Mazraaty Poultry Equipment",
		NameAR: "مزرعتي لمعدات الدواجن",
		Email:  "orders@mazraaty.om",
	}
}

func sampleOrder(locale string) *models.Order {
	userID := uuid.New()
	return &models.Order{
		ID:             uuid.New(),
		Number:         "MZ-20250810-7KQ2XF",
		UserID:         &userID,
		Status:         enums.OrderStatusPending,
		PaymentStatus:  enums.PaymentStatusPending,
		PaymentMethod:  enums.PaymentMethodCashOnDelivery,
		ShippingMethod: enums.ShippingMethodStandard,
		Currency:       enums.CurrencyOMR,
		Subtotal:       decimal.RequireFromString("25.000"),
		ShippingFee:    decimal.RequireFromString("5.000"),
		Total:          decimal.RequireFromString("30.000"),
		ShippingAddress: types.AddressSnapshot{
			Name:    "Said Al Busaidi",
			Line1:   "Way 3012, Al Khoud",
			City:    "Muscat",
			Country: "OM",
			Phone:   "+968 9123 4567",
		},
		Locale: locale,
		Items: []models.OrderItem{
			{
				ProductID: uuid.New(),
				Name:      types.LocalizedText{EN: "Automatic Chicken Feeder", AR: "معلفة دجاج أوتوماتيكية"},
				SKU:       "FEED-AUTO-01",
				UnitPrice: decimal.RequireFromString("12.500"),
				Quantity:  2,
				LineTotal: decimal.RequireFromString("25.000"),
			},
		},
		CreatedAt: time.Date(2025, time.August, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestRenderEnglishInvoice(t *testing.T) {
	svc := &service{store: testStore(), places: 3}

	invoice := svc.render(sampleOrder("en"))

	if invoice.Filename != "invoice-MZ-20250810-7KQ2XF.txt" {
		t.Fatalf("unexpected filename %q", invoice.Filename)
	}
	for _, want := range []string{
		"Mazraaty Poultry Equipment",
		"Invoice: MZ-20250810-7KQ2XF",
		"Date: 2025-08-10",
		"Automatic Chicken Feeder",
		"FEED-AUTO-01 @ 12.500",
		"Subtotal",
		"30.000 OMR",
	} {
		if !strings.Contains(invoice.Content, want) {
			t.Fatalf("invoice missing %q:\n%s", want, invoice.Content)
		}
	}
}

func TestRenderArabicInvoice(t *testing.T) {
	svc := &service{store: testStore(), places: 3}

	invoice := svc.render(sampleOrder("ar"))

	for _, want := range []string{
		"مزرعتي لمعدات الدواجن",
		"فاتورة: MZ-20250810-7KQ2XF",
		"معلفة دجاج أوتوماتيكية",
		"الإجمالي",
	} {
		if !strings.Contains(invoice.Content, want) {
			t.Fatalf("invoice missing %q:\n%s", want, invoice.Content)
		}
	}
	if strings.Contains(invoice.Content, "Automatic Chicken Feeder") {
		t.Fatalf("arabic invoice should resolve item names in arabic")
	}
}

func TestRenderTruncatesLongItemNames(t *testing.T) {
	svc := &service{store: testStore(), places: 3}
	order := sampleOrder("en")
	order.Items[0].Name = types.LocalizedText{EN: "An Extremely Long Industrial Poultry Watering System Name"}

	invoice := svc.render(order)

	if !strings.Contains(invoice.Content, "...") {
		t.Fatalf("expected truncated item name in:\n%s", invoice.Content)
	}
	if strings.Contains(invoice.Content, "Watering System Name") {
		t.Fatalf("expected the long tail to be cut")
	}
}
