package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mazraaty/backend/pkg/db/models"
	"github.com/mazraaty/backend/pkg/types"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL,
  name TEXT NOT NULL,
  sort_order INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  specs TEXT,
  features TEXT,
  price TEXT NOT NULL,
  compare_at_price TEXT,
  image_url TEXT,
  gallery TEXT,
  tags TEXT,
  is_published INTEGER NOT NULL DEFAULT 0,
  is_featured INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS inventory_levels (
  product_id TEXT PRIMARY KEY,
  on_hand INTEGER NOT NULL DEFAULT 0,
  low_stock_threshold INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

func createCatalogTestProduct(t *testing.T, gdb *gorm.DB, name string, published bool, created time.Time) *models.Product {
	t.Helper()

	suffix := uuid.New().String()[:8]
	product := &models.Product{
		ID:          uuid.New(),
		CategoryID:  uuid.New(),
		Slug:        "prod-" + suffix,
		SKU:         "SKU-" + suffix,
		Name:        types.LocalizedText{EN: name, AR: name},
		Price:       decimal.RequireFromString("9.900"),
		Gallery:     pq.StringArray{},
		Tags:        pq.StringArray{},
		IsPublished: published,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	require.NoError(t, gdb.Create(product).Error)
	return product
}

func TestListProductsHidesDraftsFromStorefront(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	base := time.Date(2025, time.August, 12, 9, 0, 0, 0, time.UTC)
	published := createCatalogTestProduct(t, gdb, "Automatic Chicken Feeder", true, base)
	draft := createCatalogTestProduct(t, gdb, "Egg Incubator", false, base.Add(time.Hour))

	storefront, err := repo.ListProducts(ctx, ProductFilter{PublishedOnly: true}, nil, 10)
	require.NoError(t, err)
	require.Len(t, storefront, 1)
	assert.Equal(t, published.ID, storefront[0].ID)

	// The back office still sees both.
	admin, err := repo.ListProducts(ctx, ProductFilter{}, nil, 10)
	require.NoError(t, err)
	require.Len(t, admin, 2)
	assert.Equal(t, draft.ID, admin[0].ID)
}
