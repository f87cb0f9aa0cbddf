package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mazraaty/backend/pkg/types"
)

// Category groups products for storefront browsing. Name and description are
// bilingual jsonb documents.
type Category struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Slug        string              `gorm:"column:slug;not null;uniqueIndex"`
	Name        types.LocalizedText `gorm:"column:name;type:jsonb;serializer:json;not null"`
	Description types.LocalizedText `gorm:"column:description;type:jsonb;serializer:json"`
	ImageURL    *string             `gorm:"column:image_url"`
	SortOrder   int                 `gorm:"column:sort_order;not null;default:0"`
	IsActive    bool                `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
