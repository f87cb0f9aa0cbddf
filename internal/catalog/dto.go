package catalog

import (
	"github.com/google/uuid"

	"github.com/mazraaty/backend/pkg/db/models"
	"github.com/mazraaty/backend/pkg/money"
	"github.com/mazraaty/backend/pkg/types"
)

// CategoryDTO is the storefront view of a category, resolved to one locale.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	SortOrder   int       `json:"sort_order"`
}

// SpecDTO is one resolved key/value technical specification.
type SpecDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ProductSummaryDTO is the storefront listing card.
type ProductSummaryDTO struct {
	ID             uuid.UUID `json:"id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	Price          string    `json:"price"`
	CompareAtPrice *string   `json:"compare_at_price,omitempty"`
	Currency       string    `json:"currency"`
	ImageURL       *string   `json:"image_url,omitempty"`
	CategorySlug   string    `json:"category_slug,omitempty"`
	InStock        bool      `json:"in_stock"`
	IsFeatured     bool      `json:"is_featured"`
}

// ProductDTO is the storefront detail view.
type ProductDTO struct {
	ProductSummaryDTO
	SKU         string    `json:"sku"`
	Description string    `json:"description,omitempty"`
	Specs       []SpecDTO `json:"specs,omitempty"`
	Features    []string  `json:"features,omitempty"`
	Gallery     []string  `json:"gallery,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	LowStock    bool      `json:"low_stock"`
}

// ProductListResult is one storefront page plus the cursor for the next one.
type ProductListResult struct {
	Items      []ProductSummaryDTO `json:"items"`
	NextCursor string              `json:"next_cursor,omitempty"`
}

// AdminCategoryDTO exposes the full bilingual category record.
type AdminCategoryDTO struct {
	ID          uuid.UUID           `json:"id"`
	Slug        string              `json:"slug"`
	Name        types.LocalizedText `json:"name"`
	Description types.LocalizedText `json:"description"`
	ImageURL    *string             `json:"image_url,omitempty"`
	SortOrder   int                 `json:"sort_order"`
	IsActive    bool                `json:"is_active"`
}

// AdminProductDTO exposes the full bilingual product record for the back office.
type AdminProductDTO struct {
	ID                uuid.UUID           `json:"id"`
	CategoryID        uuid.UUID           `json:"category_id"`
	Slug              string              `json:"slug"`
	SKU               string              `json:"sku"`
	Name              types.LocalizedText `json:"name"`
	Description       types.LocalizedText `json:"description"`
	Specs             types.SpecList      `json:"specs,omitempty"`
	Features          types.FeatureList   `json:"features,omitempty"`
	Price             string              `json:"price"`
	CompareAtPrice    *string             `json:"compare_at_price,omitempty"`
	Currency          string              `json:"currency"`
	ImageURL          *string             `json:"image_url,omitempty"`
	Gallery           []string            `json:"gallery,omitempty"`
	Tags              []string            `json:"tags,omitempty"`
	IsPublished       bool                `json:"is_published"`
	IsFeatured        bool                `json:"is_featured"`
	OnHand            int                 `json:"on_hand"`
	LowStockThreshold int                 `json:"low_stock_threshold"`
}

// AdminProductListResult is one back office page plus the next cursor.
type AdminProductListResult struct {
	Items      []AdminProductDTO `json:"items"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

func toCategoryDTO(category *models.Category, locale string) CategoryDTO {
	return CategoryDTO{
		ID:          category.ID,
		Slug:        category.Slug,
		Name:        category.Name.Resolve(locale),
		Description: category.Description.Resolve(locale),
		ImageURL:    category.ImageURL,
		SortOrder:   category.SortOrder,
	}
}

func toAdminCategoryDTO(category *models.Category) AdminCategoryDTO {
	return AdminCategoryDTO{
		ID:          category.ID,
		Slug:        category.Slug,
		Name:        category.Name,
		Description: category.Description,
		ImageURL:    category.ImageURL,
		SortOrder:   category.SortOrder,
		IsActive:    category.IsActive,
	}
}

func (s *service) toSummaryDTO(product *models.Product, locale string) ProductSummaryDTO {
	dto := ProductSummaryDTO{
		ID:         product.ID,
		Slug:       product.Slug,
		Name:       product.Name.Resolve(locale),
		Price:      money.New(product.Price).StringFixed(s.converter.Places()),
		Currency:   s.currency,
		ImageURL:   product.ImageURL,
		InStock:    product.InStock(),
		IsFeatured: product.IsFeatured,
	}
	if product.CompareAtPrice != nil {
		compare := money.New(*product.CompareAtPrice).StringFixed(s.converter.Places())
		dto.CompareAtPrice = &compare
	}
	if product.Category != nil {
		dto.CategorySlug = product.Category.Slug
	}
	return dto
}

func (s *service) toProductDTO(product *models.Product, locale string) *ProductDTO {
	dto := &ProductDTO{
		ProductSummaryDTO: s.toSummaryDTO(product, locale),
		SKU:               product.SKU,
		Description:       product.Description.Resolve(locale),
		Gallery:           product.Gallery,
		Tags:              product.Tags,
	}
	for _, spec := range product.Specs {
		dto.Specs = append(dto.Specs, SpecDTO{Key: spec.Key.Resolve(locale), Value: spec.Value.Resolve(locale)})
	}
	for _, feature := range product.Features {
		if resolved := feature.Resolve(locale); resolved != "" {
			dto.Features = append(dto.Features, resolved)
		}
	}
	if product.Inventory != nil {
		dto.LowStock = product.Inventory.OnHand > 0 && product.Inventory.OnHand <= product.Inventory.LowStockThreshold
	}
	return dto
}

func (s *service) toAdminProductDTO(product *models.Product) *AdminProductDTO {
	dto := &AdminProductDTO{
		ID:          product.ID,
		CategoryID:  product.CategoryID,
		Slug:        product.Slug,
		SKU:         product.SKU,
		Name:        product.Name,
		Description: product.Description,
		Specs:       product.Specs,
		Features:    product.Features,
		Price:       money.New(product.Price).StringFixed(s.converter.Places()),
		Currency:    s.currency,
		ImageURL:    product.ImageURL,
		Gallery:     product.Gallery,
		Tags:        product.Tags,
		IsPublished: product.IsPublished,
		IsFeatured:  product.IsFeatured,
	}
	if product.CompareAtPrice != nil {
		compare := money.New(*product.CompareAtPrice).StringFixed(s.converter.Places())
		dto.CompareAtPrice = &compare
	}
	if product.Inventory != nil {
		dto.OnHand = product.Inventory.OnHand
		dto.LowStockThreshold = product.Inventory.LowStockThreshold
	}
	return dto
}
