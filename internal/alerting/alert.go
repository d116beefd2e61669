package alerting

import (
	"time"

	"github.com/google/uuid"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
)

// Alert is a control-tower notification published when a prediction crosses
// a critical threshold.
type Alert struct {
	ID         uuid.UUID           `json:"id"`
	CompanyID  uuid.UUID           `json:"company_id"`
	Type       enums.AlertType     `json:"type"`
	Severity   enums.AlertSeverity `json:"severity"`
	Title      string              `json:"title"`
	Message    string              `json:"message"`
	EntityID   *uuid.UUID          `json:"entity_id,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
}
