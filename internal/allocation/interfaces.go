package allocation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db/models"
)

// Repository defines persistence operations for allocation tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateRule(ctx context.Context, rule *models.AllocationRule) (*models.AllocationRule, error)
	UpdateRule(ctx context.Context, ruleID uuid.UUID, updates map[string]any) error
	FindRule(ctx context.Context, companyID, ruleID uuid.UUID) (*models.AllocationRule, error)
	FindRuleByCode(ctx context.Context, companyID uuid.UUID, code string) (*models.AllocationRule, error)
	ListRules(ctx context.Context, companyID uuid.UUID, includeInactive bool) ([]models.AllocationRule, error)
	ListActiveRules(ctx context.Context, companyID uuid.UUID) ([]models.AllocationRule, error)

	CreateCSRConfig(ctx context.Context, config *models.CSRConfig) (*models.CSRConfig, error)
	UpdateCSRConfig(ctx context.Context, configID uuid.UUID, updates map[string]any) error
	ClearDefaultCSRConfig(ctx context.Context, companyID uuid.UUID) error
	FindCSRConfig(ctx context.Context, companyID, configID uuid.UUID) (*models.CSRConfig, error)
	ListCSRConfigs(ctx context.Context, companyID uuid.UUID) ([]models.CSRConfig, error)

	FindShipment(ctx context.Context, companyID, shipmentID uuid.UUID) (*models.Shipment, error)
	MarkShipmentAllocated(ctx context.Context, shipmentID, transporterID uuid.UUID, allocatedAt time.Time) error
	ListActiveTransporters(ctx context.Context, companyID uuid.UUID) ([]models.Transporter, error)
	FindTransporter(ctx context.Context, companyID, transporterID uuid.UUID) (*models.Transporter, error)

	CreateDecision(ctx context.Context, decision *models.AllocationDecision) (*models.AllocationDecision, error)
	ListDecisionsByShipment(ctx context.Context, companyID, shipmentID uuid.UUID) ([]models.AllocationDecision, error)
	DeleteDecisionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
