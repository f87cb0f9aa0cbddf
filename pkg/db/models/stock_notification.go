package models

import (
	"time"

	"github.com/google/uuid"
)

// StockNotification records a customer's request to be emailed when an
// out-of-stock product returns. NotifiedAt nil means the request is pending.
type StockNotification struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID  `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_stock_notify_product_email"`
	Email      string     `gorm:"column:email;not null;uniqueIndex:idx_stock_notify_product_email"`
	Locale     string     `gorm:"column:locale;not null;default:en"`
	NotifiedAt *time.Time `gorm:"column:notified_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}
