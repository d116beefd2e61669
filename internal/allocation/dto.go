package allocation

import (
	"time"

	"github.com/google/uuid"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db/models"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
)

// SaveRuleInput carries the fields a caller may set when creating or
// updating an allocation rule. A nil RuleID means create.
type SaveRuleInput struct {
	RuleID                *uuid.UUID
	CompanyID             uuid.UUID
	Code                  string
	Name                  string
	Priority              int
	ShipmentTypeFilter    *enums.ShipmentType
	Conditions            []models.RuleCondition
	FixedTransporterID    *uuid.UUID
	UseCSRScoring         bool
	CSRConfigID           *uuid.UUID
	FallbackTransporterID *uuid.UUID
}

// SaveCSRConfigInput carries the fields for creating or updating a CSR
// weight config. A nil ConfigID means create.
type SaveCSRConfigInput struct {
	ConfigID          *uuid.UUID
	CompanyID         uuid.UUID
	Name              string
	CostWeight        float64
	SpeedWeight       float64
	ReliabilityWeight float64
	IsDefault         bool
}

// CandidateScore is one carrier's breakdown inside an allocation result.
type CandidateScore struct {
	TransporterID    uuid.UUID `json:"transporter_id"`
	Code             string    `json:"code"`
	CostScore        float64   `json:"cost_score"`
	SpeedScore       float64   `json:"speed_score"`
	ReliabilityScore float64   `json:"reliability_score"`
	Score            float64   `json:"score"`
}

// AllocationResult is the caller-facing view of one allocation attempt,
// including the full scored ranking when CSR scoring ran.
type AllocationResult struct {
	ShipmentID    uuid.UUID        `json:"shipment_id"`
	TransporterID uuid.UUID        `json:"transporter_id"`
	RuleID        uuid.UUID        `json:"rule_id"`
	RuleCode      string           `json:"rule_code"`
	Score         *float64         `json:"score,omitempty"`
	UsedFallback  bool             `json:"used_fallback"`
	Ranking       []CandidateScore `json:"ranking,omitempty"`
	AllocatedAt   time.Time        `json:"allocated_at"`
}
