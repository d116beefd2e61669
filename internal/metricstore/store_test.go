package metricstore

import (
	"context"
	"errors"
	"io"
	"math"
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
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/types"
)

func setupMetricTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  company_id TEXT NOT NULL,
  customer_id TEXT NOT NULL,
  location_id TEXT NOT NULL,
  status TEXT NOT NULL,
  payment_mode TEXT NOT NULL,
  total_amount REAL NOT NULL,
  promised_date DATETIME NOT NULL,
  shipping_address TEXT,
  billing_postal_code TEXT,
  assigned_transporter_id TEXT,
  delivered_at DATETIME,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  sku_id TEXT NOT NULL,
  quantity INTEGER NOT NULL
);`, `
CREATE TABLE locations (
  id TEXT PRIMARY KEY,
  company_id TEXT NOT NULL,
  code TEXT NOT NULL,
  name TEXT NOT NULL,
  zone TEXT NOT NULL,
  staffing TEXT,
  active INTEGER NOT NULL DEFAULT 1,
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
CREATE TABLE inventory_items (
  id TEXT PRIMARY KEY,
  company_id TEXT NOT NULL,
  location_id TEXT NOT NULL,
  sku_id TEXT NOT NULL,
  on_hand INTEGER NOT NULL,
  reorder_level INTEGER NOT NULL,
  updated_at DATETIME
);`}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newTestStore(t *testing.T, db *gorm.DB, stats StatsProvider) Store {
	t.Helper()
	return NewStore(db, stats, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
}

func seedOrder(t *testing.T, db *gorm.DB, order models.Order) models.Order {
	t.Helper()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestListActiveOrdersExcludesTerminal(t *testing.T) {
	db := setupMetricTestDB(t)
	store := newTestStore(t, db, nil)
	ctx := context.Background()
	companyID := uuid.New()
	customerID := uuid.New()
	locationID := uuid.New()

	base := models.Order{
		CompanyID: companyID, CustomerID: customerID, LocationID: locationID,
		PaymentMode: enums.PaymentModePrepaid, TotalAmount: decimal.NewFromInt(100),
		PromisedDate: time.Now().Add(48 * time.Hour),
	}
	active := base
	active.Status = enums.OrderStatusPicking
	seedOrder(t, db, active)

	delivered := base
	delivered.Status = enums.OrderStatusDelivered
	seedOrder(t, db, delivered)

	cancelled := base
	cancelled.Status = enums.OrderStatusCancelled
	seedOrder(t, db, cancelled)

	snapshots, err := store.ListActiveOrders(ctx, companyID, 0)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, enums.OrderStatusPicking, snapshots[0].Status)
}

func TestCountPendingOrdersByLocation(t *testing.T) {
	db := setupMetricTestDB(t)
	store := newTestStore(t, db, nil)
	ctx := context.Background()
	companyID := uuid.New()
	locationID := uuid.New()

	for _, status := range []enums.OrderStatus{
		enums.OrderStatusCreated,
		enums.OrderStatusPacking,
		enums.OrderStatusShipped,   // already dispatched, not pending
		enums.OrderStatusDelivered, // terminal
	} {
		seedOrder(t, db, models.Order{
			CompanyID: companyID, CustomerID: uuid.New(), LocationID: locationID,
			Status: status, PaymentMode: enums.PaymentModePrepaid,
			TotalAmount: decimal.NewFromInt(50), PromisedDate: time.Now().Add(24 * time.Hour),
		})
	}

	pending, err := store.CountPendingOrdersByLocation(ctx, companyID, locationID)
	require.NoError(t, err)
	assert.Equal(t, 2, pending)
}

func TestCustomerVelocityWindows(t *testing.T) {
	db := setupMetricTestDB(t)
	store := newTestStore(t, db, nil)
	ctx := context.Background()
	companyID := uuid.New()
	customerID := uuid.New()
	now := time.Now().UTC()

	mk := func(age time.Duration, postal string) {
		order := seedOrder(t, db, models.Order{
			CompanyID: companyID, CustomerID: customerID, LocationID: uuid.New(),
			Status: enums.OrderStatusCreated, PaymentMode: enums.PaymentModeCOD,
			TotalAmount: decimal.NewFromInt(10), PromisedDate: now.Add(24 * time.Hour),
			ShippingAddress: types.Address{Line1: "1 Main St", PostalCode: postal},
		})
		require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("created_at", now.Add(-age)).Error)
	}
	mk(10*time.Minute, "110001")
	mk(30*time.Minute, "110001")
	mk(5*time.Hour, "110001")
	mk(30*time.Hour, "110001")

	velocity, err := store.CustomerVelocity(ctx, companyID, customerID, "110001", now)
	require.NoError(t, err)
	assert.Equal(t, 2, velocity.OrdersLastHour)
	assert.Equal(t, 3, velocity.AddressOrdersLast24h)
}

func TestPopulationStatsFallbackMath(t *testing.T) {
	db := setupMetricTestDB(t)
	store := newTestStore(t, db, nil)
	ctx := context.Background()
	companyID := uuid.New()

	for _, amount := range []int64{100, 200, 300} {
		seedOrder(t, db, models.Order{
			CompanyID: companyID, CustomerID: uuid.New(), LocationID: uuid.New(),
			Status: enums.OrderStatusCreated, PaymentMode: enums.PaymentModePrepaid,
			TotalAmount: decimal.NewFromInt(amount), PromisedDate: time.Now().Add(24 * time.Hour),
			CreatedAt: time.Now(),
		})
	}

	stats, err := store.PopulationStats(ctx, companyID, 90)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.SampleSize)
	assert.InDelta(t, 200, stats.AvgValue, 1e-9)
	assert.InDelta(t, math.Sqrt(20000.0/3), stats.StdDevValue, 1e-6)
}

type failingStats struct{ calls int }

func (f *failingStats) OrderValueStats(ctx context.Context, companyID uuid.UUID, windowDays int) (PopulationStats, error) {
	f.calls++
	return PopulationStats{}, errors.New("analytics offline")
}

func TestPopulationStatsFallsBackWhenProviderFails(t *testing.T) {
	db := setupMetricTestDB(t)
	provider := &failingStats{}
	store := newTestStore(t, db, provider)
	ctx := context.Background()
	companyID := uuid.New()

	seedOrder(t, db, models.Order{
		CompanyID: companyID, CustomerID: uuid.New(), LocationID: uuid.New(),
		Status: enums.OrderStatusCreated, PaymentMode: enums.PaymentModePrepaid,
		TotalAmount: decimal.NewFromInt(500), PromisedDate: time.Now().Add(24 * time.Hour),
		CreatedAt: time.Now(),
	})

	stats, err := store.PopulationStats(ctx, companyID, 90)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SampleSize)
	assert.InDelta(t, 500, stats.AvgValue, 1e-9)
	// Initial attempt plus retries before the fallback kicked in.
	assert.GreaterOrEqual(t, provider.calls, 2)
}

func TestInventoryHealthByLocation(t *testing.T) {
	db := setupMetricTestDB(t)
	store := newTestStore(t, db, nil)
	ctx := context.Background()
	companyID := uuid.New()
	locationID := uuid.New()

	items := []models.InventoryItem{
		{ID: uuid.New(), CompanyID: companyID, LocationID: locationID, SKUID: "sku-1", OnHand: 0, ReorderLevel: 5},
		{ID: uuid.New(), CompanyID: companyID, LocationID: locationID, SKUID: "sku-2", OnHand: 3, ReorderLevel: 5},
		{ID: uuid.New(), CompanyID: companyID, LocationID: locationID, SKUID: "sku-3", OnHand: 50, ReorderLevel: 5},
	}
	for i := range items {
		require.NoError(t, db.Create(&items[i]).Error)
	}

	health, err := store.InventoryHealthByLocation(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, health, 1)
	assert.Equal(t, 1, health[0].LowStock)
	assert.Equal(t, 1, health[0].OutOfStock)
}

func TestListCompanyIDs(t *testing.T) {
	db := setupMetricTestDB(t)
	store := newTestStore(t, db, nil)
	ctx := context.Background()

	activeCompany := uuid.New()
	inactiveCompany := uuid.New()

	locations := []models.Location{
		{ID: uuid.New(), CompanyID: activeCompany, Code: "WH-1", Name: "Main", Zone: enums.ZoneClassMetro, Active: true},
		{ID: uuid.New(), CompanyID: activeCompany, Code: "WH-2", Name: "Spill", Zone: enums.ZoneClassMetro, Active: true},
		{ID: uuid.New(), CompanyID: inactiveCompany, Code: "WH-3", Name: "Closed", Zone: enums.ZoneClassRemote, Active: false},
	}
	for i := range locations {
		require.NoError(t, db.Create(&locations[i]).Error)
	}

	ids, err := store.ListCompanyIDs(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, activeCompany, ids[0])
}
