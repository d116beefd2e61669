package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
)

// Shipment is the dispatch unit the allocation engine assigns a carrier to.
type Shipment struct {
	ID                    uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID             uuid.UUID          `gorm:"column:company_id;type:uuid;not null"`
	OrderID               *uuid.UUID         `gorm:"column:order_id;type:uuid"`
	Type                  enums.ShipmentType `gorm:"column:type;type:text;not null"`
	WeightKg              float64            `gorm:"column:weight_kg;not null"`
	DeclaredValue         decimal.Decimal    `gorm:"column:declared_value;type:numeric(14,2);not null"`
	OriginZone            string             `gorm:"column:origin_zone;not null"`
	DestinationZone       string             `gorm:"column:destination_zone;not null"`
	IsCOD                 bool               `gorm:"column:is_cod;not null;default:false"`
	AssignedTransporterID *uuid.UUID         `gorm:"column:assigned_transporter_id;type:uuid"`
	AllocatedAt           *time.Time         `gorm:"column:allocated_at"`
	CreatedAt             time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
