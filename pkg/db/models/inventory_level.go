package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryLevel caches the current on-hand quantity per product so reads
// never sum the ledger. Writes happen in the same transaction as the ledger
// entry that caused them.
type InventoryLevel struct {
	ProductID         uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	OnHand            int       `gorm:"column:on_hand;not null;default:0"`
	LowStockThreshold int       `gorm:"column:low_stock_threshold;not null;default:5"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
