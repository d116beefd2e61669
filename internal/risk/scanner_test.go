package risk

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mantoshmedhansh-dot/lsp-backend/internal/metricstore"
	appconfig "github.com/mantoshmedhansh-dot/lsp-backend/pkg/config"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db/models"
	pkgerrors "github.com/mantoshmedhansh-dot/lsp-backend/pkg/errors"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/types"
)

type stubMetricStore struct {
	orders    []metricstore.OrderSnapshot
	histories map[uuid.UUID][]metricstore.OrderSnapshot
	velocity  metricstore.CustomerVelocity
	stats     metricstore.PopulationStats
}

func (s *stubMetricStore) ListCompanyIDs(ctx context.Context) ([]uuid.UUID, error) {
	panic("not implemented")
}

func (s *stubMetricStore) FindOrder(ctx context.Context, companyID, orderID uuid.UUID) (*metricstore.OrderSnapshot, error) {
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			order := s.orders[i]
			return &order, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMetricStore) ListActiveOrders(ctx context.Context, companyID uuid.UUID, limit int) ([]metricstore.OrderSnapshot, error) {
	return s.orders, nil
}

func (s *stubMetricStore) ListOrdersCreatedBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]metricstore.OrderSnapshot, error) {
	return s.orders, nil
}

func (s *stubMetricStore) ListOrdersPromisedBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]metricstore.OrderSnapshot, error) {
	return s.orders, nil
}

func (s *stubMetricStore) ListRecentOrders(ctx context.Context, companyID uuid.UUID, since time.Time, limit int) ([]metricstore.OrderSnapshot, error) {
	return s.orders, nil
}

func (s *stubMetricStore) ListCustomerHistory(ctx context.Context, companyID, customerID, excludeOrderID uuid.UUID, limit int) ([]metricstore.OrderSnapshot, error) {
	return s.histories[customerID], nil
}

func (s *stubMetricStore) CustomerVelocity(ctx context.Context, companyID, customerID uuid.UUID, postalCode string, now time.Time) (metricstore.CustomerVelocity, error) {
	return s.velocity, nil
}

func (s *stubMetricStore) CountOrdersByStatus(ctx context.Context, companyID uuid.UUID) ([]metricstore.StatusCount, error) {
	return nil, nil
}

func (s *stubMetricStore) CountPendingOrdersByLocation(ctx context.Context, companyID, locationID uuid.UUID) (int, error) {
	return 0, nil
}

func (s *stubMetricStore) AvgDailyOrders(ctx context.Context, companyID, locationID uuid.UUID, windowDays int) (float64, error) {
	return 0, nil
}

func (s *stubMetricStore) ListActiveLocations(ctx context.Context, companyID uuid.UUID) ([]models.Location, error) {
	return nil, nil
}

func (s *stubMetricStore) ListActiveTransporters(ctx context.Context, companyID uuid.UUID) ([]models.Transporter, error) {
	return nil, nil
}

func (s *stubMetricStore) FindTransporter(ctx context.Context, companyID, transporterID uuid.UUID) (*models.Transporter, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transporter not found")
}

func (s *stubMetricStore) CarrierLoads(ctx context.Context, companyID uuid.UUID, since time.Time) ([]metricstore.CarrierLoad, error) {
	return nil, nil
}

func (s *stubMetricStore) InventoryHealthByLocation(ctx context.Context, companyID uuid.UUID) ([]metricstore.InventoryHealth, error) {
	return nil, nil
}

func (s *stubMetricStore) PopulationStats(ctx context.Context, companyID uuid.UUID, windowDays int) (metricstore.PopulationStats, error) {
	return s.stats, nil
}

func riskConfig() appconfig.RiskConfig {
	return appconfig.RiskConfig{
		ScanWindowHours: 24,
		ScanMinScore:    40,
		ScanLimit:       200,
		StatsWindowDays: 90,
		HistoryOrderCap: 100,
	}
}

func scanOrder(amount int64, cod bool) metricstore.OrderSnapshot {
	order := metricstore.OrderSnapshot{
		ID:          uuid.New(),
		CustomerID:  uuid.New(),
		Status:      enums.OrderStatusCreated,
		PaymentMode: enums.PaymentModePrepaid,
		TotalAmount: decimal.NewFromInt(amount),
		CreatedAt:   time.Now(),
		ShippingAddress: types.Address{
			Line1: "14 Industrial Estate", City: "Pune", PostalCode: "411001",
		},
		Items: []metricstore.OrderItemSnapshot{{SKUID: "sku-1", Quantity: 1}},
	}
	if cod {
		order.PaymentMode = enums.PaymentModeCOD
	}
	return order
}

func newTestScanner(t *testing.T, store metricstore.Store) *Scanner {
	t.Helper()
	scanner, err := NewScanner(store, riskConfig(), logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("failed to build scanner: %v", err)
	}
	return scanner
}

func TestScanRecentFiltersAndSorts(t *testing.T) {
	risky := scanOrder(3000, true)
	risky2 := scanOrder(5000, true)
	clean := scanOrder(1000, false)

	store := &stubMetricStore{
		orders: []metricstore.OrderSnapshot{clean, risky, risky2},
		histories: map[uuid.UUID][]metricstore.OrderSnapshot{
			clean.CustomerID: {
				{ID: uuid.New(), Status: enums.OrderStatusDelivered},
				{ID: uuid.New(), Status: enums.OrderStatusDelivered},
			},
		},
		stats: metricstore.PopulationStats{AvgValue: 1000, StdDevValue: 300, SampleSize: 500},
	}
	scanner := newTestScanner(t, store)

	profiles, err := scanner.ScanRecent(context.Background(), uuid.New(), 24, 30, 10)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected the two cod orders, got %d", len(profiles))
	}
	if profiles[0].RiskScore < profiles[1].RiskScore {
		t.Fatal("profiles should sort by descending score")
	}
	for _, profile := range profiles {
		if profile.OrderID == clean.ID {
			t.Fatal("clean order should fall below the score floor")
		}
	}
}

func TestScanRecentHonorsLimit(t *testing.T) {
	store := &stubMetricStore{
		stats: metricstore.PopulationStats{AvgValue: 1000, StdDevValue: 300, SampleSize: 500},
	}
	for i := 0; i < 5; i++ {
		store.orders = append(store.orders, scanOrder(4000, true))
	}
	scanner := newTestScanner(t, store)

	profiles, err := scanner.ScanRecent(context.Background(), uuid.New(), 24, 30, 2)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected the limit to cap results, got %d", len(profiles))
	}
}

func TestScanRecentCancellation(t *testing.T) {
	store := &stubMetricStore{
		orders: []metricstore.OrderSnapshot{scanOrder(1000, false)},
		stats:  metricstore.PopulationStats{AvgValue: 1000, StdDevValue: 300},
	}
	scanner := newTestScanner(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := scanner.ScanRecent(ctx, uuid.New(), 24, 30, 10); err == nil {
		t.Fatal("cancelled context should abort the scan")
	}
}

func TestScoreOrderNotFound(t *testing.T) {
	scanner := newTestScanner(t, &stubMetricStore{})

	_, err := scanner.ScoreOrder(context.Background(), uuid.New(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
