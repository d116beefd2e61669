package controltower

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/mantoshmedhansh-dot/lsp-backend/internal/metricstore"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/prediction/capacity"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/prediction/dayperf"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/prediction/sla"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/risk"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/config"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
	pkgerrors "github.com/mantoshmedhansh-dot/lsp-backend/pkg/errors"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/metrics"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/redis"
)

const (
	sectionOrderMetrics    = "order_metrics"
	sectionSLASummary      = "sla_summary"
	sectionDayPerformance  = "day_performance"
	sectionCapacity        = "capacity"
	sectionAnomalies       = "anomalies"
	sectionCarrierHealth   = "carrier_health"
	sectionInventoryHealth = "inventory_health"

	topRiskCount         = 10
	carrierHealthWindow  = 7 * 24 * time.Hour
	degradedOnTimeRate   = 0.85
	minDeliveriesToJudge = 5
)

// Service assembles and caches control-tower snapshots.
type Service interface {
	// Snapshot returns the cached snapshot when fresh, otherwise rebuilds.
	Snapshot(ctx context.Context, companyID uuid.UUID) (*Snapshot, error)
	// Refresh rebuilds the snapshot and replaces the cached copy.
	Refresh(ctx context.Context, companyID uuid.UUID) (*Snapshot, error)
}

type anomalyScanner interface {
	ScanRecent(ctx context.Context, companyID uuid.UUID, windowHours int, minScore float64, limit int) ([]risk.Profile, error)
}

// Params wires the snapshot service dependencies. Cache and Metrics are
// optional.
type Params struct {
	Store    metricstore.Store
	Cache    redis.SnapshotStore
	Scanner  anomalyScanner
	SLA      *sla.Predictor
	DayPerf  *dayperf.Predictor
	Capacity *capacity.Predictor
	Logger   *logger.Logger
	Metrics  *metrics.EngineMetrics
	Config   config.ControlTowerConfig
	Demand   config.CapacityConfig
}

type service struct {
	store    metricstore.Store
	cache    redis.SnapshotStore
	scanner  anomalyScanner
	sla      *sla.Predictor
	dayperf  *dayperf.Predictor
	capacity *capacity.Predictor
	log      *logger.Logger
	metrics  *metrics.EngineMetrics
	cfg      config.ControlTowerConfig
	demand   config.CapacityConfig
}

// NewService builds the snapshot orchestrator.
func NewService(params Params) (Service, error) {
	if params.Store == nil {
		return nil, errors.New("metric store is required")
	}
	if params.Scanner == nil {
		return nil, errors.New("anomaly scanner is required")
	}
	if params.SLA == nil || params.DayPerf == nil || params.Capacity == nil {
		return nil, errors.New("predictors are required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &service{
		store:    params.Store,
		cache:    params.Cache,
		scanner:  params.Scanner,
		sla:      params.SLA,
		dayperf:  params.DayPerf,
		capacity: params.Capacity,
		log:      params.Logger,
		metrics:  params.Metrics,
		cfg:      params.Config,
		demand:   params.Demand,
	}, nil
}

func (s *service) Snapshot(ctx context.Context, companyID uuid.UUID) (*Snapshot, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id required")
	}

	if s.cache != nil {
		start := time.Now()
		raw, err := s.cache.Get(ctx, s.cache.SnapshotKey(companyID.String()))
		if err == nil && raw != "" {
			var snap Snapshot
			if err := json.Unmarshal([]byte(raw), &snap); err == nil {
				snap.Source = snapshotSourceCache
				s.metrics.ObserveSnapshot(snapshotSourceCache, time.Since(start))
				return &snap, nil
			}
			s.log.Warn(s.log.WithCompanyID(ctx, companyID.String()), "discarding unreadable cached snapshot")
		}
	}

	return s.Refresh(ctx, companyID)
}

func (s *service) Refresh(ctx context.Context, companyID uuid.UUID) (*Snapshot, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id required")
	}

	start := time.Now()
	now := start.UTC()
	logCtx := s.log.WithCompanyID(ctx, companyID.String())

	snap := &Snapshot{
		CompanyID:   companyID,
		GeneratedAt: now,
		Source:      snapshotSourceLive,
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)

	run := func(name string, build func(ctx context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sectionCtx := ctx
			if s.cfg.SectionTimeout > 0 {
				var cancel context.CancelFunc
				sectionCtx, cancel = context.WithTimeout(ctx, s.cfg.SectionTimeout)
				defer cancel()
			}
			if err := build(sectionCtx); err != nil {
				s.metrics.IncSectionFailure(name)
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		}()
	}

	run(sectionOrderMetrics, func(ctx context.Context) error {
		section, err := s.buildOrderMetrics(ctx, companyID)
		snap.OrderMetrics = section
		return err
	})
	run(sectionSLASummary, func(ctx context.Context) error {
		section, err := s.buildSLASummary(ctx, companyID, now)
		snap.SLASummary = section
		return err
	})
	run(sectionDayPerformance, func(ctx context.Context) error {
		section, err := s.buildDayPerformance(ctx, companyID, now)
		snap.DayPerformance = section
		return err
	})
	run(sectionCapacity, func(ctx context.Context) error {
		section, err := s.buildCapacity(ctx, companyID, now)
		snap.Capacity = section
		return err
	})
	run(sectionAnomalies, func(ctx context.Context) error {
		section, err := s.buildAnomalies(ctx, companyID)
		snap.Anomalies = section
		return err
	})
	run(sectionCarrierHealth, func(ctx context.Context) error {
		section, err := s.buildCarrierHealth(ctx, companyID, now)
		snap.CarrierHealth = section
		return err
	})
	run(sectionInventoryHealth, func(ctx context.Context) error {
		section, err := s.buildInventoryHealth(ctx, companyID)
		snap.InventoryHealth = section
		return err
	})

	wg.Wait()

	if errs != nil {
		s.log.Error(logCtx, "snapshot assembled with degraded sections", errs)
	}

	snap.Alerts = buildAlerts(companyID, snap, now)

	s.metrics.ObserveSnapshot(snapshotSourceLive, time.Since(start))
	s.cacheSnapshot(ctx, companyID, snap)

	return snap, nil
}

func (s *service) cacheSnapshot(ctx context.Context, companyID uuid.UUID, snap *Snapshot) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		s.log.Error(s.log.WithCompanyID(ctx, companyID.String()), "failed to encode snapshot for cache", err)
		return
	}
	if err := s.cache.Set(ctx, s.cache.SnapshotKey(companyID.String()), string(payload), s.cfg.SnapshotCacheTTL); err != nil {
		s.log.Warn(s.log.WithCompanyID(ctx, companyID.String()), "failed to cache snapshot")
	}
}

func (s *service) buildOrderMetrics(ctx context.Context, companyID uuid.UUID) (OrderMetricsSection, error) {
	counts, err := s.store.CountOrdersByStatus(ctx, companyID)
	if err != nil {
		return OrderMetricsSection{Section: failedSection(err)}, err
	}

	byStatus := make(map[enums.OrderStatus]int, len(counts))
	total := 0
	for _, row := range counts {
		byStatus[row.Status] = row.Count
		total += row.Count
	}
	return OrderMetricsSection{
		Section:     availableSection(),
		TotalOrders: total,
		ByStatus:    byStatus,
	}, nil
}

func (s *service) buildSLASummary(ctx context.Context, companyID uuid.UUID, now time.Time) (SLASummarySection, error) {
	orders, err := s.store.ListActiveOrders(ctx, companyID, s.cfg.SLASummaryLimit)
	if err != nil {
		return SLASummarySection{Section: failedSection(err)}, err
	}
	transporters, err := s.store.ListActiveTransporters(ctx, companyID)
	if err != nil {
		return SLASummarySection{Section: failedSection(err)}, err
	}

	carriers := make(map[uuid.UUID]sla.CarrierProfile, len(transporters))
	for _, t := range transporters {
		carriers[t.ID] = sla.CarrierProfile{
			MetroHours:    t.MetroTransitHours,
			NonMetroHours: t.NonMetroTransitHours,
			RemoteHours:   t.RemoteTransitHours,
		}
	}

	predictions, err := s.sla.BatchPredict(ctx, orders, carriers, now, s.cfg.SLASummaryLimit)
	if err != nil {
		return SLASummarySection{Section: failedSection(err)}, err
	}

	counts := make(map[enums.SLAStatus]int, 4)
	for _, prediction := range predictions {
		counts[prediction.Status]++
	}
	topRisks := predictions
	if len(topRisks) > topRiskCount {
		topRisks = topRisks[:topRiskCount]
	}
	return SLASummarySection{
		Section:   availableSection(),
		Evaluated: len(predictions),
		Counts:    counts,
		TopRisks:  topRisks,
	}, nil
}

func (s *service) buildDayPerformance(ctx context.Context, companyID uuid.UUID, now time.Time) (DayPerformanceSection, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	results := make(map[enums.DayMetric]dayperf.Prediction, 3)
	for offset, metric := range []enums.DayMetric{enums.DayMetricD0, enums.DayMetricD1, enums.DayMetricD2} {
		targetDate := today.AddDate(0, 0, offset)
		var (
			orders []metricstore.OrderSnapshot
			err    error
		)
		if metric == enums.DayMetricD0 {
			orders, err = s.store.ListOrdersCreatedBetween(ctx, companyID, targetDate, targetDate.AddDate(0, 0, 1))
		} else {
			orders, err = s.store.ListOrdersPromisedBetween(ctx, companyID, targetDate, targetDate.AddDate(0, 0, 1))
		}
		if err != nil {
			return DayPerformanceSection{Section: failedSection(err)}, err
		}
		results[metric] = s.dayperf.Predict(metric, targetDate, orders, now)
	}

	return DayPerformanceSection{
		Section: availableSection(),
		Metrics: results,
	}, nil
}

func (s *service) buildCapacity(ctx context.Context, companyID uuid.UUID, now time.Time) (CapacitySection, error) {
	locations, err := s.store.ListActiveLocations(ctx, companyID)
	if err != nil {
		return CapacitySection{Section: failedSection(err)}, err
	}

	remaining := s.capacity.RemainingWorkHours(now.Hour())
	fraction := s.capacity.FractionOfDayRemaining(now.Hour())

	predictions := make([]capacity.Prediction, 0, len(locations))
	for _, location := range locations {
		pending, err := s.store.CountPendingOrdersByLocation(ctx, companyID, location.ID)
		if err != nil {
			return CapacitySection{Section: failedSection(err)}, err
		}
		avgDaily, err := s.store.AvgDailyOrders(ctx, companyID, location.ID, s.demand.DemandWindowDays)
		if err != nil {
			return CapacitySection{Section: failedSection(err)}, err
		}
		predictions = append(predictions, s.capacity.Predict(location.ID, pending, avgDaily, location.Staffing, remaining, fraction))
	}

	return CapacitySection{
		Section:   availableSection(),
		Locations: predictions,
	}, nil
}

func (s *service) buildAnomalies(ctx context.Context, companyID uuid.UUID) (AnomalySection, error) {
	profiles, err := s.scanner.ScanRecent(ctx, companyID, 0, 0, 0)
	if err != nil {
		return AnomalySection{Section: failedSection(err)}, err
	}
	return AnomalySection{
		Section: availableSection(),
		Orders:  profiles,
	}, nil
}

func (s *service) buildCarrierHealth(ctx context.Context, companyID uuid.UUID, now time.Time) (CarrierHealthSection, error) {
	loads, err := s.store.CarrierLoads(ctx, companyID, now.Add(-carrierHealthWindow))
	if err != nil {
		return CarrierHealthSection{Section: failedSection(err)}, err
	}

	carriers := make([]CarrierHealth, 0, len(loads))
	for _, load := range loads {
		delivered := load.DeliveredOnTime + load.DeliveredLate
		onTimeRate := 1.0
		if delivered > 0 {
			onTimeRate = float64(load.DeliveredOnTime) / float64(delivered)
		}
		carriers = append(carriers, CarrierHealth{
			TransporterID: load.TransporterID,
			Code:          load.Code,
			Name:          load.Name,
			InFlight:      load.InFlight,
			Delivered:     delivered,
			OnTimeRate:    onTimeRate,
			Degraded:      delivered >= minDeliveriesToJudge && onTimeRate < degradedOnTimeRate,
		})
	}
	sort.Slice(carriers, func(i, j int) bool { return carriers[i].Code < carriers[j].Code })

	return CarrierHealthSection{
		Section:  availableSection(),
		Carriers: carriers,
	}, nil
}

func (s *service) buildInventoryHealth(ctx context.Context, companyID uuid.UUID) (InventoryHealthSection, error) {
	rows, err := s.store.InventoryHealthByLocation(ctx, companyID)
	if err != nil {
		return InventoryHealthSection{Section: failedSection(err)}, err
	}

	locations := make([]InventoryLocationHealth, 0, len(rows))
	for _, row := range rows {
		locations = append(locations, InventoryLocationHealth{
			LocationID: row.LocationID,
			LowStock:   row.LowStock,
			OutOfStock: row.OutOfStock,
		})
	}
	return InventoryHealthSection{
		Section:   availableSection(),
		Locations: locations,
	}, nil
}
