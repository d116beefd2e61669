package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/types"
)

// Location is a fulfillment warehouse with its staffing plan.
type Location struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID uuid.UUID             `gorm:"column:company_id;type:uuid;not null"`
	Code      string                `gorm:"column:code;not null;uniqueIndex:idx_locations_company_code"`
	Name      string                `gorm:"column:name;not null"`
	Zone      enums.ZoneClass       `gorm:"column:zone;type:text;not null;default:'metro'"`
	Staffing  types.StaffingProfile `gorm:"column:staffing;type:jsonb;serializer:json"`
	Active    bool                  `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
