package allocation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an allocation repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateRule(ctx context.Context, rule *models.AllocationRule) (*models.AllocationRule, error) {
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *repository) UpdateRule(ctx context.Context, ruleID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.AllocationRule{}).
		Where("id = ?", ruleID).
		Updates(updates).Error
}

func (r *repository) FindRule(ctx context.Context, companyID, ruleID uuid.UUID) (*models.AllocationRule, error) {
	var rule models.AllocationRule
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, ruleID).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) FindRuleByCode(ctx context.Context, companyID uuid.UUID, code string) (*models.AllocationRule, error) {
	var rule models.AllocationRule
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND code = ?", companyID, code).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) ListRules(ctx context.Context, companyID uuid.UUID, includeInactive bool) ([]models.AllocationRule, error) {
	query := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	var rules []models.AllocationRule
	if err := query.Order("priority ASC, code ASC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repository) ListActiveRules(ctx context.Context, companyID uuid.UUID) ([]models.AllocationRule, error) {
	return r.ListRules(ctx, companyID, false)
}

func (r *repository) CreateCSRConfig(ctx context.Context, config *models.CSRConfig) (*models.CSRConfig, error) {
	if err := r.db.WithContext(ctx).Create(config).Error; err != nil {
		return nil, err
	}
	return config, nil
}

func (r *repository) UpdateCSRConfig(ctx context.Context, configID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.CSRConfig{}).
		Where("id = ?", configID).
		Updates(updates).Error
}

func (r *repository) ClearDefaultCSRConfig(ctx context.Context, companyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CSRConfig{}).
		Where("company_id = ? AND is_default = ?", companyID, true).
		Update("is_default", false).Error
}

func (r *repository) FindCSRConfig(ctx context.Context, companyID, configID uuid.UUID) (*models.CSRConfig, error) {
	var config models.CSRConfig
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, configID).
		First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *repository) ListCSRConfigs(ctx context.Context, companyID uuid.UUID) ([]models.CSRConfig, error) {
	var configs []models.CSRConfig
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Find(&configs).Error
	if err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *repository) FindShipment(ctx context.Context, companyID, shipmentID uuid.UUID) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, shipmentID).
		First(&shipment).Error
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (r *repository) MarkShipmentAllocated(ctx context.Context, shipmentID, transporterID uuid.UUID, allocatedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Shipment{}).
		Where("id = ?", shipmentID).
		Updates(map[string]any{
			"assigned_transporter_id": transporterID,
			"allocated_at":            allocatedAt,
		}).Error
}

func (r *repository) ListActiveTransporters(ctx context.Context, companyID uuid.UUID) ([]models.Transporter, error) {
	var transporters []models.Transporter
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND active = ?", companyID, true).
		Order("code ASC").
		Find(&transporters).Error
	if err != nil {
		return nil, err
	}
	return transporters, nil
}

func (r *repository) FindTransporter(ctx context.Context, companyID, transporterID uuid.UUID) (*models.Transporter, error) {
	var transporter models.Transporter
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, transporterID).
		First(&transporter).Error
	if err != nil {
		return nil, err
	}
	return &transporter, nil
}

func (r *repository) CreateDecision(ctx context.Context, decision *models.AllocationDecision) (*models.AllocationDecision, error) {
	if err := r.db.WithContext(ctx).Create(decision).Error; err != nil {
		return nil, err
	}
	return decision, nil
}

func (r *repository) ListDecisionsByShipment(ctx context.Context, companyID, shipmentID uuid.UUID) ([]models.AllocationDecision, error) {
	var decisions []models.AllocationDecision
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND shipment_id = ?", companyID, shipmentID).
		Order("created_at DESC").
		Find(&decisions).Error
	if err != nil {
		return nil, err
	}
	return decisions, nil
}

func (r *repository) DeleteDecisionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.AllocationDecision{})
	return result.RowsAffected, result.Error
}
