package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mazraaty/backend/pkg/enums"
	"github.com/mazraaty/backend/pkg/types"
)

// Order is the immutable record of a checkout. Shipping details are captured
// as a jsonb snapshot so later address edits never rewrite order history.
// UserID is nil for guest checkouts; GuestEmail carries the contact instead.
type Order struct {
	ID                uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Number            string                `gorm:"column:number;not null;uniqueIndex"`
	UserID            *uuid.UUID            `gorm:"column:user_id;type:uuid;index"`
	GuestEmail        *string               `gorm:"column:guest_email"`
	Status            enums.OrderStatus     `gorm:"column:status;not null;default:pending"`
	PaymentStatus     enums.PaymentStatus   `gorm:"column:payment_status;not null;default:pending"`
	PaymentMethod     enums.PaymentMethod   `gorm:"column:payment_method;not null"`
	ShippingMethod    enums.ShippingMethod  `gorm:"column:shipping_method;not null"`
	Currency          enums.Currency        `gorm:"column:currency;not null;default:OMR"`
	Subtotal          decimal.Decimal       `gorm:"column:subtotal;type:numeric(12,3);not null"`
	ShippingFee       decimal.Decimal       `gorm:"column:shipping_fee;type:numeric(12,3);not null"`
	Total             decimal.Decimal       `gorm:"column:total;type:numeric(12,3);not null"`
	ShippingAddress   types.AddressSnapshot `gorm:"column:shipping_address;type:jsonb;serializer:json;not null"`
	AddressSaveFailed bool                  `gorm:"column:address_save_failed;not null;default:false"`
	Locale            string                `gorm:"column:locale;not null;default:en"`
	Notes             *string               `gorm:"column:notes"`
	Items             []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusEvents      []OrderStatusEvent    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
