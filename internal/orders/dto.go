package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/mazraaty/backend/pkg/db/models"
	"github.com/mazraaty/backend/pkg/money"
	"github.com/mazraaty/backend/pkg/types"
)

// ItemDTO is one purchased line with the name resolved for the locale.
type ItemDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	UnitPrice string    `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	LineTotal string    `json:"line_total"`
}

// OrderDTO is the customer-facing order view.
type OrderDTO struct {
	ID              uuid.UUID             `json:"id"`
	Number          string                `json:"number"`
	Status          string                `json:"status"`
	PaymentStatus   string                `json:"payment_status"`
	PaymentMethod   string                `json:"payment_method"`
	ShippingMethod  string                `json:"shipping_method"`
	Currency        string                `json:"currency"`
	Subtotal        string                `json:"subtotal"`
	ShippingFee     string                `json:"shipping_fee"`
	Total           string                `json:"total"`
	ShippingAddress types.AddressSnapshot `json:"shipping_address"`
	Notes           *string               `json:"notes,omitempty"`
	Items           []ItemDTO             `json:"items"`
	CreatedAt       time.Time             `json:"created_at"`
}

// OrderListResult is one customer page plus the next cursor.
type OrderListResult struct {
	Items      []OrderDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// StatusEventDTO is one audit row in the order's status history.
type StatusEventDTO struct {
	FromStatus string     `json:"from_status"`
	ToStatus   string     `json:"to_status"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	Note       *string    `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AdminItemDTO keeps both languages for the back office.
type AdminItemDTO struct {
	ProductID uuid.UUID           `json:"product_id"`
	Name      types.LocalizedText `json:"name"`
	SKU       string              `json:"sku"`
	UnitPrice string              `json:"unit_price"`
	Quantity  int                 `json:"quantity"`
	LineTotal string              `json:"line_total"`
}

// AdminOrderDTO is the back office order view with audit history.
type AdminOrderDTO struct {
	ID                uuid.UUID             `json:"id"`
	Number            string                `json:"number"`
	UserID            *uuid.UUID            `json:"user_id,omitempty"`
	GuestEmail        *string               `json:"guest_email,omitempty"`
	Status            string                `json:"status"`
	PaymentStatus     string                `json:"payment_status"`
	PaymentMethod     string                `json:"payment_method"`
	ShippingMethod    string                `json:"shipping_method"`
	Currency          string                `json:"currency"`
	Subtotal          string                `json:"subtotal"`
	ShippingFee       string                `json:"shipping_fee"`
	Total             string                `json:"total"`
	ShippingAddress   types.AddressSnapshot `json:"shipping_address"`
	AddressSaveFailed bool                  `json:"address_save_failed"`
	Locale            string                `json:"locale"`
	Notes             *string               `json:"notes,omitempty"`
	Items             []AdminItemDTO        `json:"items"`
	StatusEvents      []StatusEventDTO      `json:"status_events"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// AdminOrderListResult is one back office page plus the next cursor.
type AdminOrderListResult struct {
	Items      []AdminOrderDTO `json:"items"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// NewOrderDTO converts a stored order for customer responses.
func NewOrderDTO(order *models.Order, locale string, places int) *OrderDTO {
	dto := &OrderDTO{
		ID:              order.ID,
		Number:          order.Number,
		Status:          order.Status.String(),
		PaymentStatus:   order.PaymentStatus.String(),
		PaymentMethod:   order.PaymentMethod.String(),
		ShippingMethod:  order.ShippingMethod.String(),
		Currency:        order.Currency.String(),
		Subtotal:        money.New(order.Subtotal).StringFixed(places),
		ShippingFee:     money.New(order.ShippingFee).StringFixed(places),
		Total:           money.New(order.Total).StringFixed(places),
		ShippingAddress: order.ShippingAddress,
		Notes:           order.Notes,
		Items:           make([]ItemDTO, 0, len(order.Items)),
		CreatedAt:       order.CreatedAt,
	}
	for i := range order.Items {
		item := &order.Items[i]
		dto.Items = append(dto.Items, ItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name.Resolve(locale),
			SKU:       item.SKU,
			UnitPrice: money.New(item.UnitPrice).StringFixed(places),
			Quantity:  item.Quantity,
			LineTotal: money.New(item.LineTotal).StringFixed(places),
		})
	}
	return dto
}

func toAdminDTO(order *models.Order, places int) *AdminOrderDTO {
	dto := &AdminOrderDTO{
		ID:                order.ID,
		Number:            order.Number,
		UserID:            order.UserID,
		GuestEmail:        order.GuestEmail,
		Status:            order.Status.String(),
		PaymentStatus:     order.PaymentStatus.String(),
		PaymentMethod:     order.PaymentMethod.String(),
		ShippingMethod:    order.ShippingMethod.String(),
		Currency:          order.Currency.String(),
		Subtotal:          money.New(order.Subtotal).StringFixed(places),
		ShippingFee:       money.New(order.ShippingFee).StringFixed(places),
		Total:             money.New(order.Total).StringFixed(places),
		ShippingAddress:   order.ShippingAddress,
		AddressSaveFailed: order.AddressSaveFailed,
		Locale:            order.Locale,
		Notes:             order.Notes,
		Items:             make([]AdminItemDTO, 0, len(order.Items)),
		StatusEvents:      make([]StatusEventDTO, 0, len(order.StatusEvents)),
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
	for i := range order.Items {
		item := &order.Items[i]
		dto.Items = append(dto.Items, AdminItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			SKU:       item.SKU,
			UnitPrice: money.New(item.UnitPrice).StringFixed(places),
			Quantity:  item.Quantity,
			LineTotal: money.New(item.LineTotal).StringFixed(places),
		})
	}
	for i := range order.StatusEvents {
		event := &order.StatusEvents[i]
		dto.StatusEvents = append(dto.StatusEvents, StatusEventDTO{
			FromStatus: event.FromStatus.String(),
			ToStatus:   event.ToStatus.String(),
			ActorID:    event.ActorID,
			Note:       event.Note,
			CreatedAt:  event.CreatedAt,
		})
	}
	return dto
}
