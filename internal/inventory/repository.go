package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mazraaty/backend/pkg/db/models"
	"github.com/mazraaty/backend/pkg/pagination"
)

// Repository persists the stock ledger and cached levels.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateTransaction appends one ledger entry.
func (r *Repository) CreateTransaction(ctx context.Context, txn *models.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

// CreateLevel inserts the cached level row for a new product.
func (r *Repository) CreateLevel(ctx context.Context, level *models.InventoryLevel) error {
	return r.db.WithContext(ctx).Create(level).Error
}

// GetLevel loads the cached level without locking.
func (r *Repository) GetLevel(ctx context.Context, productID uuid.UUID) (*models.InventoryLevel, error) {
	var level models.InventoryLevel
	if err := r.db.WithContext(ctx).First(&level, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &level, nil
}

// GetLevelForUpdate loads the cached level under a row lock. Callers must be
// inside a transaction.
func (r *Repository) GetLevelForUpdate(ctx context.Context, productID uuid.UUID) (*models.InventoryLevel, error) {
	var level models.InventoryLevel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&level, "product_id = ?", productID).Error
	if err != nil {
		return nil, err
	}
	return &level, nil
}

// SaveLevel writes the cached level back.
func (r *Repository) SaveLevel(ctx context.Context, level *models.InventoryLevel) error {
	return r.db.WithContext(ctx).Save(level).Error
}

// SumDeltas replays the ledger for a product.
func (r *Repository) SumDeltas(ctx context.Context, productID uuid.UUID) (int, error) {
	var sum *int
	err := r.db.WithContext(ctx).
		Model(&models.InventoryTransaction{}).
		Where("product_id = ?", productID).
		Select("SUM(delta)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

// ListLevels returns every cached level, used by reconciliation.
func (r *Repository) ListLevels(ctx context.Context) ([]models.InventoryLevel, error) {
	var levels []models.InventoryLevel
	if err := r.db.WithContext(ctx).Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// ListTransactions pages the ledger for one product, newest first.
func (r *Repository) ListTransactions(ctx context.Context, productID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.InventoryTransaction, error) {
	query := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}
	var txns []models.InventoryTransaction
	if err := query.Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}
