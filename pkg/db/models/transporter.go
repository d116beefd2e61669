package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
)

// Transporter is carrier master data plus the raw metrics CSR scoring reads.
type Transporter struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID       uuid.UUID            `gorm:"column:company_id;type:uuid;not null"`
	Code            string               `gorm:"column:code;not null;uniqueIndex:idx_transporters_company_code"`
	Name            string               `gorm:"column:name;not null"`
	Active          bool                 `gorm:"column:active;not null;default:true"`
	ShipmentTypes   []enums.ShipmentType `gorm:"column:shipment_types;type:jsonb;serializer:json"`
	CostPerKg       decimal.Decimal      `gorm:"column:cost_per_kg;type:numeric(12,4);not null"`
	AvgTransitHours float64              `gorm:"column:avg_transit_hours;not null"`
	SuccessRate     float64              `gorm:"column:success_rate;not null"`

	// Per-zone transit overrides; nil falls back to the platform defaults.
	MetroTransitHours    *float64 `gorm:"column:metro_transit_hours"`
	NonMetroTransitHours *float64 `gorm:"column:non_metro_transit_hours"`
	RemoteTransitHours   *float64 `gorm:"column:remote_transit_hours"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ServesShipmentType reports whether the carrier handles the given type.
// An empty list means the carrier accepts every shipment type.
func (t Transporter) ServesShipmentType(shipmentType enums.ShipmentType) bool {
	if len(t.ShipmentTypes) == 0 {
		return true
	}
	for _, candidate := range t.ShipmentTypes {
		if candidate == shipmentType {
			return true
		}
	}
	return false
}
