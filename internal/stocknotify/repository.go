package stocknotify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mazraaty/backend/pkg/db/models"
)

// Repository persists back-in-stock subscriptions.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts one subscription.
func (r *Repository) Create(ctx context.Context, sub *models.StockNotification) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// ListPendingByProduct returns unsent subscriptions for one product.
func (r *Repository) ListPendingByProduct(ctx context.Context, productID uuid.UUID) ([]models.StockNotification, error) {
	var subs []models.StockNotification
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND notified_at IS NULL", productID).
		Order("created_at ASC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// ListByProduct returns every subscription for one product, oldest first.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.StockNotification, error) {
	var subs []models.StockNotification
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// PendingProductIDs returns products that have waiting subscribers.
func (r *Repository) PendingProductIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.StockNotification{}).
		Where("notified_at IS NULL").
		Distinct("product_id").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// MarkNotified stamps one subscription as sent.
func (r *Repository) MarkNotified(ctx context.Context, subID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.StockNotification{}).
		Where("id = ?", subID).
		Update("notified_at", at).Error
}
