package models

import (
	"time"

	"github.com/google/uuid"
)

// Allocation decision outcomes.
const (
	AllocationOutcomeAllocated          = "allocated"
	AllocationOutcomeNoRuleMatched      = "no_rule_matched"
	AllocationOutcomeNoCarrierAvailable = "no_carrier_available"
)

// AllocationDecision is the audit record of one allocation attempt. Rows
// outlive rule deactivation so past decisions stay explainable.
type AllocationDecision struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID     uuid.UUID  `gorm:"column:company_id;type:uuid;not null"`
	ShipmentID    uuid.UUID  `gorm:"column:shipment_id;type:uuid;not null;index"`
	RuleID        *uuid.UUID `gorm:"column:rule_id;type:uuid"`
	RuleCode      string     `gorm:"column:rule_code"`
	TransporterID *uuid.UUID `gorm:"column:transporter_id;type:uuid"`
	Score         *float64   `gorm:"column:score"`
	Outcome       string     `gorm:"column:outcome;not null"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime;index"`
}
