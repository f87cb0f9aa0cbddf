package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mazraaty/backend/pkg/config"
	"github.com/mazraaty/backend/pkg/db"
	"github.com/mazraaty/backend/pkg/db/models"
	"github.com/mazraaty/backend/pkg/enums"
	pkgerrors "github.com/mazraaty/backend/pkg/errors"
	"github.com/mazraaty/backend/pkg/money"
	"github.com/mazraaty/backend/pkg/pagination"
	"github.com/mazraaty/backend/pkg/types"
)

// Service exposes storefront reads and back office catalog management.
type Service interface {
	ListCategories(ctx context.Context, locale string) ([]CategoryDTO, error)
	GetCategory(ctx context.Context, slug, locale string) (*CategoryDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	GetProduct(ctx context.Context, slug, locale string) (*ProductDTO, error)

	CreateProduct(ctx context.Context, actorID uuid.UUID, input CreateProductInput) (*AdminProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*AdminProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetAdminProduct(ctx context.Context, productID uuid.UUID) (*AdminProductDTO, error)
	ListAdminProducts(ctx context.Context, input ListAdminProductsInput) (*AdminProductListResult, error)

	CreateCategory(ctx context.Context, input CategoryInput) (*AdminCategoryDTO, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, input CategoryInput) (*AdminCategoryDTO, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
	ListAdminCategories(ctx context.Context) ([]AdminCategoryDTO, error)
}

// ListProductsInput holds storefront listing filters.
type ListProductsInput struct {
	CategorySlug string
	FeaturedOnly bool
	Tag          string
	Search       string
	Locale       string
	Page         pagination.Params
}

// ListAdminProductsInput holds back office listing filters.
type ListAdminProductsInput struct {
	CategoryID *uuid.UUID
	Search     string
	Page       pagination.Params
}

// CreateProductInput holds the validated payload to create a product. Price is
// a decimal string in the display currency; PriceUSD converts through the
// configured exchange rate instead when provided.
type CreateProductInput struct {
	CategoryID        uuid.UUID
	SKU               string
	Name              types.LocalizedText
	Description       types.LocalizedText
	Specs             types.SpecList
	Features          types.FeatureList
	Price             string
	PriceUSD          string
	CompareAtPrice    *string
	ImageURL          *string
	Gallery           []string
	Tags              []string
	IsPublished       bool
	IsFeatured        bool
	InitialStock      int
	LowStockThreshold int
}

// UpdateProductInput holds optional mutation values. The slug is immutable by
// design so published storefront links never break.
type UpdateProductInput struct {
	CategoryID     *uuid.UUID
	SKU            *string
	Name           *types.LocalizedText
	Description    *types.LocalizedText
	Specs          *types.SpecList
	Features       *types.FeatureList
	Price          *string
	PriceUSD       *string
	CompareAtPrice *string
	ImageURL       *string
	Gallery        *[]string
	Tags           *[]string
	IsPublished    *bool
	IsFeatured     *bool
	RegenerateSlug bool
}

// CategoryInput holds the payload to create or update a category.
type CategoryInput struct {
	Name        types.LocalizedText
	Description types.LocalizedText
	ImageURL    *string
	SortOrder   int
	IsActive    bool
}

// stockInitializer seeds the inventory level and ledger for a new product
// inside the same transaction that creates it.
type stockInitializer interface {
	InitializeProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID, initial, lowStockThreshold int, actorID *uuid.UUID) error
}

type service struct {
	repo      *Repository
	dbClient  *db.Client
	stock     stockInitializer
	converter *money.Converter
	currency  string
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client, stock stockInitializer, cfg config.CurrencyConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock initializer required")
	}
	converter, err := money.NewConverter(cfg.USDExchangeRate, cfg.DecimalPlaces)
	if err != nil {
		return nil, fmt.Errorf("currency converter: %w", err)
	}
	currency := cfg.Display
	if currency == "" {
		currency = enums.CurrencyOMR.String()
	}
	return &service{
		repo:      repo,
		dbClient:  dbClient,
		stock:     stock,
		converter: converter,
		currency:  currency,
	}, nil
}

// ListCategories returns active categories for the storefront.
func (s *service) ListCategories(ctx context.Context, locale string) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		dtos = append(dtos, toCategoryDTO(&categories[i], locale))
	}
	return dtos, nil
}

// GetCategory loads one active category by slug.
func (s *service) GetCategory(ctx context.Context, slug, locale string) (*CategoryDTO, error) {
	category, err := s.repo.FindCategoryBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if !category.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	dto := toCategoryDTO(category, locale)
	return &dto, nil
}

// ListProducts returns a storefront page of published products.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	filter := ProductFilter{
		PublishedOnly: true,
		FeaturedOnly:  input.FeaturedOnly,
		Tag:           input.Tag,
		Search:        input.Search,
	}
	if slug := strings.TrimSpace(input.CategorySlug); slug != "" {
		category, err := s.repo.FindCategoryBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
		filter.CategoryID = &category.ID
	}

	cursor, err := pagination.ParseCursor(input.Page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(input.Page.Limit)

	products, err := s.repo.ListProducts(ctx, filter, cursor, pagination.LimitWithBuffer(input.Page.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	result := &ProductListResult{Items: make([]ProductSummaryDTO, 0, len(products))}
	for i := range products {
		if i == limit {
			last := products[limit-1]
			result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
			break
		}
		result.Items = append(result.Items, s.toSummaryDTO(&products[i], input.Locale))
	}
	return result, nil
}

// GetProduct loads one published product by slug. Unpublished products are
// invisible to the storefront regardless of who asks.
func (s *service) GetProduct(ctx context.Context, slug, locale string) (*ProductDTO, error) {
	product, err := s.repo.FindProductBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return s.toProductDTO(product, locale), nil
}

// CreateProduct creates the listing with its inventory level and opening
// ledger entry in one transaction.
func (s *service) CreateProduct(ctx context.Context, actorID uuid.UUID, input CreateProductInput) (*AdminProductDTO, error) {
	if input.Name.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required in at least one language")
	}
	if strings.TrimSpace(input.SKU) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if input.InitialStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "initial_stock cannot be negative")
	}

	price, err := s.resolvePrice(input.Price, input.PriceUSD)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindCategoryByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	slug, err := s.assignProductSlug(ctx, input.Name.EN, input.SKU)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		CategoryID:  input.CategoryID,
		Slug:        slug,
		SKU:         strings.TrimSpace(input.SKU),
		Name:        input.Name.Trimmed(),
		Description: input.Description.Trimmed(),
		Specs:       input.Specs.Sanitized(),
		Features:    input.Features.Sanitized(),
		Price:       price.Decimal(),
		ImageURL:    input.ImageURL,
		Gallery:     input.Gallery,
		Tags:        input.Tags,
		IsPublished: input.IsPublished,
		IsFeatured:  input.IsFeatured,
	}
	if input.CompareAtPrice != nil {
		compare, parseErr := money.Parse(*input.CompareAtPrice)
		if parseErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid compare_at_price")
		}
		d := compare.Decimal()
		product.CompareAtPrice = &d
	}

	threshold := input.LowStockThreshold
	if threshold <= 0 {
		threshold = 5
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, txErr := s.repo.WithTx(tx).CreateProduct(ctx, product); txErr != nil {
			if db.IsUniqueViolation(txErr, "idx_products_sku") {
				return pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
			}
			return txErr
		}
		actor := actorID
		return s.stock.InitializeProduct(ctx, tx, product.ID, input.InitialStock, threshold, &actor)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	return s.GetAdminProduct(ctx, product.ID)
}

// UpdateProduct applies the provided field updates. The slug survives renames
// unless the caller explicitly asks for regeneration.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*AdminProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
		product.CategoryID = *input.CategoryID
	}
	if input.SKU != nil {
		if strings.TrimSpace(*input.SKU) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku cannot be blank")
		}
		product.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Name != nil {
		if input.Name.IsEmpty() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		product.Name = input.Name.Trimmed()
	}
	if input.Description != nil {
		product.Description = input.Description.Trimmed()
	}
	if input.Specs != nil {
		product.Specs = input.Specs.Sanitized()
	}
	if input.Features != nil {
		product.Features = input.Features.Sanitized()
	}
	if input.Price != nil || input.PriceUSD != nil {
		var priceStr, priceUSDStr string
		if input.Price != nil {
			priceStr = *input.Price
		}
		if input.PriceUSD != nil {
			priceUSDStr = *input.PriceUSD
		}
		price, priceErr := s.resolvePrice(priceStr, priceUSDStr)
		if priceErr != nil {
			return nil, priceErr
		}
		product.Price = price.Decimal()
	}
	if input.CompareAtPrice != nil {
		if *input.CompareAtPrice == "" {
			product.CompareAtPrice = nil
		} else {
			compare, parseErr := money.Parse(*input.CompareAtPrice)
			if parseErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid compare_at_price")
			}
			d := compare.Decimal()
			product.CompareAtPrice = &d
		}
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.Gallery != nil {
		product.Gallery = *input.Gallery
	}
	if input.Tags != nil {
		product.Tags = *input.Tags
	}
	if input.IsPublished != nil {
		product.IsPublished = *input.IsPublished
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.RegenerateSlug {
		slug, slugErr := s.assignProductSlug(ctx, product.Name.EN, product.SKU)
		if slugErr != nil {
			return nil, slugErr
		}
		product.Slug = slug
	}

	product.Category = nil
	product.Inventory = nil
	if _, err := s.repo.SaveProduct(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "idx_products_sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product")
	}

	return s.GetAdminProduct(ctx, product.ID)
}

// DeleteProduct removes a product and its inventory rows.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindProductByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// GetAdminProduct loads the full bilingual record for the back office.
func (s *service) GetAdminProduct(ctx context.Context, productID uuid.UUID) (*AdminProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return s.toAdminProductDTO(product), nil
}

// ListAdminProducts pages through the full catalog including drafts.
func (s *service) ListAdminProducts(ctx context.Context, input ListAdminProductsInput) (*AdminProductListResult, error) {
	cursor, err := pagination.ParseCursor(input.Page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(input.Page.Limit)

	filter := ProductFilter{CategoryID: input.CategoryID, Search: input.Search}
	products, err := s.repo.ListProducts(ctx, filter, cursor, pagination.LimitWithBuffer(input.Page.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	result := &AdminProductListResult{Items: make([]AdminProductDTO, 0, len(products))}
	for i := range products {
		if i == limit {
			last := products[limit-1]
			result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
			break
		}
		result.Items = append(result.Items, *s.toAdminProductDTO(&products[i]))
	}
	return result, nil
}

// CreateCategory creates a category with a slug derived from the English name.
func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*AdminCategoryDTO, error) {
	if input.Name.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required in at least one language")
	}

	base := Slugify(input.Name.EN)
	if base == "" {
		base = "category"
	}
	slug, err := s.uniqueCategorySlug(ctx, base)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Slug:        slug,
		Name:        input.Name.Trimmed(),
		Description: input.Description.Trimmed(),
		ImageURL:    input.ImageURL,
		SortOrder:   input.SortOrder,
		IsActive:    input.IsActive,
	}
	if _, err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	dto := toAdminCategoryDTO(category)
	return &dto, nil
}

// UpdateCategory applies field updates; the slug stays put.
func (s *service) UpdateCategory(ctx context.Context, categoryID uuid.UUID, input CategoryInput) (*AdminCategoryDTO, error) {
	category, err := s.repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if input.Name.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required in at least one language")
	}

	category.Name = input.Name.Trimmed()
	category.Description = input.Description.Trimmed()
	category.ImageURL = input.ImageURL
	category.SortOrder = input.SortOrder
	category.IsActive = input.IsActive

	if _, err := s.repo.SaveCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save category")
	}
	dto := toAdminCategoryDTO(category)
	return &dto, nil
}

// DeleteCategory refuses to orphan products.
func (s *service) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.repo.FindCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	count, err := s.repo.CountProductsInCategory(ctx, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has products")
	}

	if err := s.repo.DeleteCategory(ctx, categoryID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

// ListAdminCategories returns all categories including inactive ones.
func (s *service) ListAdminCategories(ctx context.Context) ([]AdminCategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	dtos := make([]AdminCategoryDTO, 0, len(categories))
	for i := range categories {
		dtos = append(dtos, toAdminCategoryDTO(&categories[i]))
	}
	return dtos, nil
}

func (s *service) resolvePrice(price, priceUSD string) (money.Amount, error) {
	switch {
	case strings.TrimSpace(price) != "":
		amount, err := money.Parse(price)
		if err != nil {
			return money.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
		}
		return s.converter.Round(amount), nil
	case strings.TrimSpace(priceUSD) != "":
		usd, err := money.Parse(priceUSD)
		if err != nil {
			return money.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price_usd")
		}
		return s.converter.FromUSD(usd), nil
	default:
		return money.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price or price_usd is required")
	}
}

func (s *service) assignProductSlug(ctx context.Context, name, sku string) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = Slugify(sku)
	}
	var checkErr error
	slug := UniqueSlug(base, func(candidate string) bool {
		if checkErr != nil {
			return false
		}
		exists, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			checkErr = err
			return false
		}
		return exists
	})
	if checkErr != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, checkErr, "check slug")
	}
	return slug, nil
}

func (s *service) uniqueCategorySlug(ctx context.Context, base string) (string, error) {
	var checkErr error
	slug := UniqueSlug(base, func(candidate string) bool {
		if checkErr != nil {
			return false
		}
		exists, err := s.repo.CategorySlugExists(ctx, candidate)
		if err != nil {
			checkErr = err
			return false
		}
		return exists
	})
	if checkErr != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, checkErr, "check slug")
	}
	return slug, nil
}
