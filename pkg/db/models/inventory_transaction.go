package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mazraaty/backend/pkg/enums"
)

// InventoryTransaction is one entry in the append-only stock ledger. The
// cached level in InventoryLevel must always equal the sum of deltas; the
// reconciliation job replays the ledger to repair drift.
type InventoryTransaction struct {
	ID        uuid.UUID                      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID                      `gorm:"column:product_id;type:uuid;not null;index"`
	Type      enums.InventoryTransactionType `gorm:"column:type;not null"`
	Delta     int                            `gorm:"column:delta;not null"`
	OrderID   *uuid.UUID                     `gorm:"column:order_id;type:uuid"`
	ActorID   *uuid.UUID                     `gorm:"column:actor_id;type:uuid"`
	Reason    *string                        `gorm:"column:reason"`
	CreatedAt time.Time                      `gorm:"column:created_at;autoCreateTime"`
}
