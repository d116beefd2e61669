package allocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db/models"
	pkgerrors "github.com/mantoshmedhansh-dot/lsp-backend/pkg/errors"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines rule/config management and shipment allocation.
type Service interface {
	SaveRule(ctx context.Context, input SaveRuleInput) (*models.AllocationRule, error)
	DeactivateRule(ctx context.Context, companyID, ruleID uuid.UUID) error
	ListRules(ctx context.Context, companyID uuid.UUID, includeInactive bool) ([]models.AllocationRule, error)

	SaveCSRConfig(ctx context.Context, input SaveCSRConfigInput) (*models.CSRConfig, error)
	ListCSRConfigs(ctx context.Context, companyID uuid.UUID) ([]models.CSRConfig, error)

	AllocateShipment(ctx context.Context, companyID, shipmentID uuid.UUID) (*AllocationResult, error)
	ListDecisions(ctx context.Context, companyID, shipmentID uuid.UUID) ([]models.AllocationDecision, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	engine  *Engine
	log     *logger.Logger
	metrics *metrics.EngineMetrics
	now     func() time.Time
}

// NewService builds an allocation service with the required dependencies.
func NewService(repo Repository, tx txRunner, log *logger.Logger, engineMetrics *metrics.EngineMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("allocation repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		engine:  NewEngine(),
		log:     log,
		metrics: engineMetrics,
		now:     time.Now,
	}, nil
}

func (s *service) SaveRule(ctx context.Context, input SaveRuleInput) (*models.AllocationRule, error) {
	if err := validateRuleInput(input); err != nil {
		return nil, err
	}
	if err := s.checkRuleReferences(ctx, input); err != nil {
		return nil, err
	}

	if input.RuleID == nil {
		rule := &models.AllocationRule{
			CompanyID:             input.CompanyID,
			Code:                  input.Code,
			Name:                  input.Name,
			Priority:              input.Priority,
			ShipmentTypeFilter:    input.ShipmentTypeFilter,
			Conditions:            input.Conditions,
			FixedTransporterID:    input.FixedTransporterID,
			UseCSRScoring:         input.UseCSRScoring,
			CSRConfigID:           input.CSRConfigID,
			FallbackTransporterID: input.FallbackTransporterID,
			IsActive:              true,
		}
		created, err := s.repo.CreateRule(ctx, rule)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "rule code already exists for this company")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create allocation rule")
		}
		return created, nil
	}

	existing, err := s.repo.FindRule(ctx, input.CompanyID, *input.RuleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "allocation rule not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load allocation rule")
	}
	updates := map[string]any{
		"name":                    input.Name,
		"priority":                input.Priority,
		"shipment_type_filter":    input.ShipmentTypeFilter,
		"conditions":              input.Conditions,
		"fixed_transporter_id":    input.FixedTransporterID,
		"use_csr_scoring":         input.UseCSRScoring,
		"csr_config_id":           input.CSRConfigID,
		"fallback_transporter_id": input.FallbackTransporterID,
	}
	if err := s.repo.UpdateRule(ctx, existing.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update allocation rule")
	}
	return s.repo.FindRule(ctx, input.CompanyID, existing.ID)
}

func (s *service) DeactivateRule(ctx context.Context, companyID, ruleID uuid.UUID) error {
	rule, err := s.repo.FindRule(ctx, companyID, ruleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "allocation rule not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load allocation rule")
	}
	if !rule.IsActive {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "allocation rule is already inactive")
	}
	now := s.now().UTC()
	return s.repo.UpdateRule(ctx, rule.ID, map[string]any{
		"is_active":      false,
		"deactivated_at": now,
	})
}

func (s *service) ListRules(ctx context.Context, companyID uuid.UUID, includeInactive bool) ([]models.AllocationRule, error) {
	return s.repo.ListRules(ctx, companyID, includeInactive)
}

func (s *service) SaveCSRConfig(ctx context.Context, input SaveCSRConfigInput) (*models.CSRConfig, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "config name required")
	}
	candidate := models.CSRConfig{
		CostWeight:        input.CostWeight,
		SpeedWeight:       input.SpeedWeight,
		ReliabilityWeight: input.ReliabilityWeight,
	}
	if err := ValidateCSRConfig(candidate); err != nil {
		return nil, err
	}

	var saved *models.CSRConfig
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.IsDefault {
			if err := repo.ClearDefaultCSRConfig(ctx, input.CompanyID); err != nil {
				return err
			}
		}
		if input.ConfigID == nil {
			config := &models.CSRConfig{
				CompanyID:         input.CompanyID,
				Name:              input.Name,
				CostWeight:        input.CostWeight,
				SpeedWeight:       input.SpeedWeight,
				ReliabilityWeight: input.ReliabilityWeight,
				IsDefault:         input.IsDefault,
			}
			created, err := repo.CreateCSRConfig(ctx, config)
			if err != nil {
				return err
			}
			saved = created
			return nil
		}
		existing, err := repo.FindCSRConfig(ctx, input.CompanyID, *input.ConfigID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "csr config not found")
			}
			return err
		}
		if err := repo.UpdateCSRConfig(ctx, existing.ID, map[string]any{
			"name":               input.Name,
			"cost_weight":        input.CostWeight,
			"speed_weight":       input.SpeedWeight,
			"reliability_weight": input.ReliabilityWeight,
			"is_default":         input.IsDefault,
		}); err != nil {
			return err
		}
		saved, err = repo.FindCSRConfig(ctx, input.CompanyID, existing.ID)
		return err
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to save csr config")
	}
	return saved, nil
}

func (s *service) ListCSRConfigs(ctx context.Context, companyID uuid.UUID) ([]models.CSRConfig, error) {
	return s.repo.ListCSRConfigs(ctx, companyID)
}

// AllocateShipment runs the rule engine for one shipment and records the
// outcome as an audit row whether or not a carrier was found. The shipment
// update and the decision row commit in the same transaction.
func (s *service) AllocateShipment(ctx context.Context, companyID, shipmentID uuid.UUID) (*AllocationResult, error) {
	ctx = s.log.WithShipmentID(ctx, shipmentID.String())

	shipment, err := s.repo.FindShipment(ctx, companyID, shipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load shipment")
	}
	if shipment.AssignedTransporterID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "shipment is already allocated")
	}

	rules, err := s.repo.ListActiveRules(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load allocation rules")
	}
	transporters, err := s.repo.ListActiveTransporters(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load transporters")
	}
	configList, err := s.repo.ListCSRConfigs(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load csr configs")
	}

	candidates := make([]CarrierCandidate, 0, len(transporters))
	for _, transporter := range transporters {
		candidates = append(candidates, CandidateFromTransporter(transporter))
	}
	configs := make(map[uuid.UUID]models.CSRConfig, len(configList))
	for _, config := range configList {
		configs[config.ID] = config
	}

	decision, engineErr := s.engine.Allocate(ShipmentRequestFromModel(*shipment), rules, candidates, configs)
	switch {
	case errors.Is(engineErr, ErrNoRuleMatched):
		s.recordOutcome(ctx, companyID, shipmentID, nil, models.AllocationOutcomeNoRuleMatched)
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnallocated, engineErr, "no allocation rule matched shipment")
	case errors.Is(engineErr, ErrNoCarrierAvailable):
		s.recordOutcome(ctx, companyID, shipmentID, nil, models.AllocationOutcomeNoCarrierAvailable)
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnallocated, engineErr, "no carrier available for shipment")
	case engineErr != nil:
		return nil, engineErr
	}

	allocatedAt := s.now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.MarkShipmentAllocated(ctx, shipmentID, decision.TransporterID, allocatedAt); err != nil {
			return err
		}
		_, err := repo.CreateDecision(ctx, &models.AllocationDecision{
			CompanyID:     companyID,
			ShipmentID:    shipmentID,
			RuleID:        &decision.RuleID,
			RuleCode:      decision.RuleCode,
			TransporterID: &decision.TransporterID,
			Score:         decision.Score,
			Outcome:       models.AllocationOutcomeAllocated,
		})
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to persist allocation")
	}
	s.metrics.IncAllocation(models.AllocationOutcomeAllocated)
	s.log.Info(s.log.WithField(ctx, "rule_code", decision.RuleCode), "shipment allocated")

	ranking := make([]CandidateScore, 0, len(decision.Ranking))
	for _, candidate := range decision.Ranking {
		ranking = append(ranking, CandidateScore{
			TransporterID:    candidate.TransporterID,
			Code:             candidate.Code,
			CostScore:        candidate.CostScore,
			SpeedScore:       candidate.SpeedScore,
			ReliabilityScore: candidate.ReliabilityScore,
			Score:            candidate.Score,
		})
	}
	return &AllocationResult{
		ShipmentID:    shipmentID,
		TransporterID: decision.TransporterID,
		RuleID:        decision.RuleID,
		RuleCode:      decision.RuleCode,
		Score:         decision.Score,
		UsedFallback:  decision.UsedFallback,
		Ranking:       ranking,
		AllocatedAt:   allocatedAt,
	}, nil
}

func (s *service) ListDecisions(ctx context.Context, companyID, shipmentID uuid.UUID) ([]models.AllocationDecision, error) {
	return s.repo.ListDecisionsByShipment(ctx, companyID, shipmentID)
}

// recordOutcome persists a failed attempt outside any caller transaction so
// the audit row survives even though the allocation itself errored.
func (s *service) recordOutcome(ctx context.Context, companyID, shipmentID uuid.UUID, decision *Decision, outcome string) {
	row := &models.AllocationDecision{
		CompanyID:  companyID,
		ShipmentID: shipmentID,
		Outcome:    outcome,
	}
	if decision != nil {
		row.RuleID = &decision.RuleID
		row.RuleCode = decision.RuleCode
	}
	if _, err := s.repo.CreateDecision(ctx, row); err != nil {
		s.log.Error(ctx, "failed to record allocation outcome", err)
	}
	s.metrics.IncAllocation(outcome)
}

func validateRuleInput(input SaveRuleInput) error {
	if input.CompanyID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "company id required")
	}
	if input.Code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "rule code required")
	}
	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "rule name required")
	}
	if input.Priority < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rule priority must not be negative")
	}
	if input.ShipmentTypeFilter != nil && !input.ShipmentTypeFilter.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown shipment type %q", *input.ShipmentTypeFilter))
	}

	hasFixed := input.FixedTransporterID != nil
	if hasFixed == input.UseCSRScoring {
		return pkgerrors.New(pkgerrors.CodeValidation, "rule must use exactly one of a fixed transporter or csr scoring")
	}
	if hasFixed && input.CSRConfigID != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "fixed rules cannot reference a csr config")
	}
	if hasFixed && input.FallbackTransporterID != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "fallback transporter only applies to csr scored rules")
	}

	for _, condition := range input.Conditions {
		if !condition.Field.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown rule field %q", condition.Field))
		}
		if !condition.Operator.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown rule operator %q", condition.Operator))
		}
		if condition.Value == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "condition value required")
		}
	}
	return nil
}

func (s *service) checkRuleReferences(ctx context.Context, input SaveRuleInput) error {
	if input.FixedTransporterID != nil {
		if _, err := s.repo.FindTransporter(ctx, input.CompanyID, *input.FixedTransporterID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "fixed transporter not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load fixed transporter")
		}
	}
	if input.FallbackTransporterID != nil {
		if _, err := s.repo.FindTransporter(ctx, input.CompanyID, *input.FallbackTransporterID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "fallback transporter not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load fallback transporter")
		}
	}
	if input.CSRConfigID != nil {
		if _, err := s.repo.FindCSRConfig(ctx, input.CompanyID, *input.CSRConfigID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "csr config not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load csr config")
		}
	}
	return nil
}
