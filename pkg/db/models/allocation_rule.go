package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
)

// RuleCondition is one {field, operator, value} predicate inside a rule.
// Value holds a scalar for comparison operators and a list for "in".
type RuleCondition struct {
	Field    enums.RuleField    `json:"field"`
	Operator enums.RuleOperator `json:"operator"`
	Value    any                `json:"value"`
}

// AllocationRule decides which transporter fulfills a matching shipment.
// Rules are soft-deactivated, never deleted, so historical allocation
// decisions keep a valid audit reference.
type AllocationRule struct {
	ID                    uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID             uuid.UUID           `gorm:"column:company_id;type:uuid;not null"`
	Code                  string              `gorm:"column:code;not null;uniqueIndex:idx_allocation_rules_company_code"`
	Name                  string              `gorm:"column:name;not null"`
	Priority              int                 `gorm:"column:priority;not null"`
	ShipmentTypeFilter    *enums.ShipmentType `gorm:"column:shipment_type_filter;type:text"`
	Conditions            []RuleCondition     `gorm:"column:conditions;type:jsonb;serializer:json"`
	FixedTransporterID    *uuid.UUID          `gorm:"column:fixed_transporter_id;type:uuid"`
	UseCSRScoring         bool                `gorm:"column:use_csr_scoring;not null;default:false"`
	CSRConfigID           *uuid.UUID          `gorm:"column:csr_config_id;type:uuid"`
	FallbackTransporterID *uuid.UUID          `gorm:"column:fallback_transporter_id;type:uuid"`
	IsActive              bool                `gorm:"column:is_active;not null;default:true"`
	DeactivatedAt         *time.Time          `gorm:"column:deactivated_at"`
	CreatedAt             time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
