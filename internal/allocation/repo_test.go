package allocation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db/models"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
)

func setupAllocationTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE allocation_rules (
  id TEXT PRIMARY KEY,
  company_id TEXT NOT NULL,
  code TEXT NOT NULL,
  name TEXT NOT NULL,
  priority INTEGER NOT NULL,
  shipment_type_filter TEXT,
  conditions TEXT,
  fixed_transporter_id TEXT,
  use_csr_scoring INTEGER NOT NULL DEFAULT 0,
  csr_config_id TEXT,
  fallback_transporter_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  deactivated_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (company_id, code)
);`, `
CREATE TABLE csr_configs (
  id TEXT PRIMARY KEY,
  company_id TEXT NOT NULL,
  name TEXT NOT NULL,
  cost_weight REAL NOT NULL,
  speed_weight REAL NOT NULL,
  reliability_weight REAL NOT NULL,
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE transporters (
  id TEXT PRIMARY KEY,
  company_id TEXT NOT NULL,
  code TEXT NOT NULL,
  name TEXT NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  shipment_types TEXT,
  cost_per_kg TEXT NOT NULL,
  avg_transit_hours REAL NOT NULL,
  success_rate REAL NOT NULL,
  metro_transit_hours REAL,
  non_metro_transit_hours REAL,
  remote_transit_hours REAL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE shipments (
  id TEXT PRIMARY KEY,
  company_id TEXT NOT NULL,
  order_id TEXT,
  type TEXT NOT NULL,
  weight_kg REAL NOT NULL,
  declared_value TEXT NOT NULL,
  origin_zone TEXT NOT NULL,
  destination_zone TEXT NOT NULL,
  is_cod INTEGER NOT NULL DEFAULT 0,
  assigned_transporter_id TEXT,
  allocated_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE allocation_decisions (
  id TEXT PRIMARY KEY,
  company_id TEXT NOT NULL,
  shipment_id TEXT NOT NULL,
  rule_id TEXT,
  rule_code TEXT,
  transporter_id TEXT,
  score REAL,
  outcome TEXT NOT NULL,
  created_at DATETIME
);`}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func TestRepositoryListRulesOrdering(t *testing.T) {
	db := setupAllocationTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	transporterID := uuid.New()

	mkRule := func(code string, priority int, active bool) *models.AllocationRule {
		return &models.AllocationRule{
			ID:                 uuid.New(),
			CompanyID:          companyID,
			Code:               code,
			Name:               code,
			Priority:           priority,
			FixedTransporterID: &transporterID,
			IsActive:           active,
		}
	}
	_, err := repo.CreateRule(ctx, mkRule("b-rule", 10, true))
	require.NoError(t, err)
	_, err = repo.CreateRule(ctx, mkRule("a-rule", 10, true))
	require.NoError(t, err)
	_, err = repo.CreateRule(ctx, mkRule("first", 1, true))
	require.NoError(t, err)
	_, err = repo.CreateRule(ctx, mkRule("hidden", 0, false))
	require.NoError(t, err)

	active, err := repo.ListActiveRules(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, "first", active[0].Code)
	assert.Equal(t, "a-rule", active[1].Code)
	assert.Equal(t, "b-rule", active[2].Code)

	all, err := repo.ListRules(ctx, companyID, true)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestRepositoryRuleConditionsRoundTrip(t *testing.T) {
	db := setupAllocationTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	transporterID := uuid.New()

	rule := &models.AllocationRule{
		ID:                 uuid.New(),
		CompanyID:          companyID,
		Code:               "cod-heavy",
		Name:               "COD heavy",
		Priority:           5,
		FixedTransporterID: &transporterID,
		IsActive:           true,
		Conditions: []models.RuleCondition{
			{Field: enums.RuleFieldWeightKg, Operator: enums.RuleOperatorGt, Value: 25.0},
			{Field: enums.RuleFieldIsCOD, Operator: enums.RuleOperatorEq, Value: true},
		},
	}
	_, err := repo.CreateRule(ctx, rule)
	require.NoError(t, err)

	loaded, err := repo.FindRuleByCode(ctx, companyID, "cod-heavy")
	require.NoError(t, err)
	require.Len(t, loaded.Conditions, 2)
	assert.Equal(t, enums.RuleFieldWeightKg, loaded.Conditions[0].Field)
	assert.Equal(t, enums.RuleOperatorGt, loaded.Conditions[0].Operator)

	matched, err := EvaluateConditions(loaded.Conditions, ShipmentRequest{WeightKg: 30, IsCOD: true})
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestRepositoryClearDefaultCSRConfig(t *testing.T) {
	db := setupAllocationTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	first, err := repo.CreateCSRConfig(ctx, &models.CSRConfig{
		ID: uuid.New(), CompanyID: companyID, Name: "first",
		CostWeight: 0.4, SpeedWeight: 0.3, ReliabilityWeight: 0.3, IsDefault: true,
	})
	require.NoError(t, err)

	require.NoError(t, repo.ClearDefaultCSRConfig(ctx, companyID))
	_, err = repo.CreateCSRConfig(ctx, &models.CSRConfig{
		ID: uuid.New(), CompanyID: companyID, Name: "second",
		CostWeight: 0.5, SpeedWeight: 0.25, ReliabilityWeight: 0.25, IsDefault: true,
	})
	require.NoError(t, err)

	reloaded, err := repo.FindCSRConfig(ctx, companyID, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)
}

func TestRepositoryMarkShipmentAllocated(t *testing.T) {
	db := setupAllocationTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	shipmentID := uuid.New()
	transporterID := uuid.New()

	require.NoError(t, db.Create(&models.Shipment{
		ID:            shipmentID,
		CompanyID:     companyID,
		Type:          enums.ShipmentTypeParcel,
		WeightKg:      3,
		DeclaredValue: decimal.NewFromInt(100),
		OriginZone:    "metro",
	}).Error)

	allocatedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.MarkShipmentAllocated(ctx, shipmentID, transporterID, allocatedAt))

	shipment, err := repo.FindShipment(ctx, companyID, shipmentID)
	require.NoError(t, err)
	require.NotNil(t, shipment.AssignedTransporterID)
	assert.Equal(t, transporterID, *shipment.AssignedTransporterID)
	require.NotNil(t, shipment.AllocatedAt)
}

func TestRepositoryDeleteDecisionsBefore(t *testing.T) {
	db := setupAllocationTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	shipmentID := uuid.New()

	old := &models.AllocationDecision{
		ID: uuid.New(), CompanyID: companyID, ShipmentID: shipmentID,
		Outcome: models.AllocationOutcomeAllocated,
	}
	_, err := repo.CreateDecision(ctx, old)
	require.NoError(t, err)
	require.NoError(t, db.Model(old).Update("created_at", time.Now().Add(-48*time.Hour)).Error)

	recent := &models.AllocationDecision{
		ID: uuid.New(), CompanyID: companyID, ShipmentID: shipmentID,
		Outcome: models.AllocationOutcomeNoRuleMatched,
	}
	_, err = repo.CreateDecision(ctx, recent)
	require.NoError(t, err)

	deleted, err := repo.DeleteDecisionsBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, err := repo.ListDecisionsByShipment(ctx, companyID, shipmentID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, recent.ID, remaining[0].ID)
}
