package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem tracks on-hand stock per SKU per location, read by the
// control-tower inventory health section.
type InventoryItem struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID    uuid.UUID `gorm:"column:company_id;type:uuid;not null"`
	LocationID   uuid.UUID `gorm:"column:location_id;type:uuid;not null;index"`
	SKUID        string    `gorm:"column:sku_id;not null"`
	OnHand       int       `gorm:"column:on_hand;not null;default:0"`
	ReorderLevel int       `gorm:"column:reorder_level;not null;default:0"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
