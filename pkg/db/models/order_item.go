package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mazraaty/backend/pkg/types"
)

// OrderItem snapshots one product line at purchase time. Name, SKU and unit
// price are copies, not references, so catalog edits leave history intact.
type OrderItem struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	Name      types.LocalizedText `gorm:"column:name;type:jsonb;serializer:json;not null"`
	SKU       string              `gorm:"column:sku;not null"`
	UnitPrice decimal.Decimal     `gorm:"column:unit_price;type:numeric(12,3);not null"`
	Quantity  int                 `gorm:"column:quantity;not null"`
	LineTotal decimal.Decimal     `gorm:"column:line_total;type:numeric(12,3);not null"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}
