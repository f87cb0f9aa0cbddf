package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mazraaty/backend/pkg/types"
)

// Product is a catalog listing. Prices are stored in the display currency
// with three decimal places; the slug never changes after creation so
// storefront links stay stable across renames.
type Product struct {
	ID             uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID     uuid.UUID           `gorm:"column:category_id;type:uuid;not null;index"`
	Slug           string              `gorm:"column:slug;not null;uniqueIndex"`
	SKU            string              `gorm:"column:sku;not null;uniqueIndex"`
	Name           types.LocalizedText `gorm:"column:name;type:jsonb;serializer:json;not null"`
	Description    types.LocalizedText `gorm:"column:description;type:jsonb;serializer:json"`
	Specs          types.SpecList      `gorm:"column:specs;type:jsonb;serializer:json"`
	Features       types.FeatureList   `gorm:"column:features;type:jsonb;serializer:json"`
	Price          decimal.Decimal     `gorm:"column:price;type:numeric(12,3);not null"`
	CompareAtPrice *decimal.Decimal    `gorm:"column:compare_at_price;type:numeric(12,3)"`
	ImageURL       *string             `gorm:"column:image_url"`
	Gallery        pq.StringArray      `gorm:"column:gallery;type:text[];not null;default:ARRAY[]::text[]"`
	Tags           pq.StringArray      `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	IsPublished    bool                `gorm:"column:is_published;not null;default:false"`
	IsFeatured     bool                `gorm:"column:is_featured;not null;default:false"`
	Category       *Category           `gorm:"foreignKey:CategoryID"`
	Inventory      *InventoryLevel     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// InStock reports whether the preloaded inventory level has units on hand.
func (p *Product) InStock() bool {
	return p.Inventory != nil && p.Inventory.OnHand > 0
}
