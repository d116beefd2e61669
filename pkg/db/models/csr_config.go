package models

import (
	"time"

	"github.com/google/uuid"
)

// CSRConfig holds the cost/speed/reliability weights used by scored
// allocation rules. Weights are fractions and must sum to 1.
type CSRConfig struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID         uuid.UUID `gorm:"column:company_id;type:uuid;not null"`
	Name              string    `gorm:"column:name;not null"`
	CostWeight        float64   `gorm:"column:cost_weight;not null"`
	SpeedWeight       float64   `gorm:"column:speed_weight;not null"`
	ReliabilityWeight float64   `gorm:"column:reliability_weight;not null"`
	IsDefault         bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
