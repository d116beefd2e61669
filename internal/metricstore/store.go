package metricstore

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db/models"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
	pkgerrors "github.com/mantoshmedhansh-dot/lsp-backend/pkg/errors"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
)

// statsSampleCap bounds how many order values the SQL fallback loads when
// computing population statistics in-process.
const statsSampleCap = 5000

// StatsProvider supplies order-value population statistics from an
// analytics backend. Nil means the SQL fallback is always used.
type StatsProvider interface {
	OrderValueStats(ctx context.Context, companyID uuid.UUID, windowDays int) (PopulationStats, error)
}

type store struct {
	db    *gorm.DB
	stats StatsProvider
	log   *logger.Logger
}

// NewStore builds the gorm-backed metric repository. stats may be nil.
func NewStore(db *gorm.DB, stats StatsProvider, log *logger.Logger) Store {
	return &store{db: db, stats: stats, log: log}
}

func (s *store) ListCompanyIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.Location{}).
		Where("active = ?", true).
		Distinct().
		Order("company_id ASC").
		Pluck("company_id", &ids).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDataUnavailable, err, "failed to list companies")
	}
	return ids, nil
}

func (s *store) FindOrder(ctx context.Context, companyID, orderID uuid.UUID) (*OrderSnapshot, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ? AND id = ?", companyID, orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	snapshot := SnapshotFromOrder(order)
	return &snapshot, nil
}

func (s *store) ListActiveOrders(ctx context.Context, companyID uuid.UUID, limit int) ([]OrderSnapshot, error) {
	var orders []models.Order
	query := s.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ? AND status NOT IN ?", companyID, terminalStatuses()).
		Order("promised_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return snapshots(orders), nil
}

func (s *store) ListOrdersCreatedBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]OrderSnapshot, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ? AND created_at >= ? AND created_at < ?", companyID, from, to).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return snapshots(orders), nil
}

func (s *store) ListOrdersPromisedBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]OrderSnapshot, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ? AND promised_date >= ? AND promised_date < ?", companyID, from, to).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return snapshots(orders), nil
}

func (s *store) ListRecentOrders(ctx context.Context, companyID uuid.UUID, since time.Time, limit int) ([]OrderSnapshot, error) {
	var orders []models.Order
	query := s.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ? AND created_at >= ?", companyID, since).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return snapshots(orders), nil
}

func (s *store) ListCustomerHistory(ctx context.Context, companyID, customerID, excludeOrderID uuid.UUID, limit int) ([]OrderSnapshot, error) {
	var orders []models.Order
	query := s.db.WithContext(ctx).
		Where("company_id = ? AND customer_id = ? AND id <> ?", companyID, customerID, excludeOrderID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return snapshots(orders), nil
}

func (s *store) CustomerVelocity(ctx context.Context, companyID, customerID uuid.UUID, postalCode string, now time.Time) (CustomerVelocity, error) {
	var velocity CustomerVelocity

	var lastHour int64
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("company_id = ? AND customer_id = ? AND created_at >= ?", companyID, customerID, now.Add(-time.Hour)).
		Count(&lastHour).Error
	if err != nil {
		return velocity, err
	}
	velocity.OrdersLastHour = int(lastHour)

	if postalCode != "" {
		var last24h int64
		err = s.db.WithContext(ctx).
			Model(&models.Order{}).
			Where("company_id = ? AND customer_id = ? AND created_at >= ?", companyID, customerID, now.Add(-24*time.Hour)).
			Where("shipping_address ->> 'postal_code' = ?", postalCode).
			Count(&last24h).Error
		if err != nil {
			return velocity, err
		}
		velocity.AddressOrdersLast24h = int(last24h)
	}
	return velocity, nil
}

func (s *store) CountOrdersByStatus(ctx context.Context, companyID uuid.UUID) ([]StatusCount, error) {
	var rows []StatusCount
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("company_id = ?", companyID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *store) CountPendingOrdersByLocation(ctx context.Context, companyID, locationID uuid.UUID) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("company_id = ? AND location_id = ?", companyID, locationID).
		Where("status NOT IN ?", append(dispatchReadyStatuses(), terminalStatuses()...)).
		Count(&count).Error
	return int(count), err
}

func (s *store) AvgDailyOrders(ctx context.Context, companyID, locationID uuid.UUID, windowDays int) (float64, error) {
	if windowDays <= 0 {
		windowDays = 28
	}
	since := time.Now().UTC().AddDate(0, 0, -windowDays)
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("company_id = ? AND location_id = ? AND created_at >= ?", companyID, locationID, since).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return float64(total) / float64(windowDays), nil
}

func (s *store) ListActiveLocations(ctx context.Context, companyID uuid.UUID) ([]models.Location, error) {
	var locations []models.Location
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND active = ?", companyID, true).
		Order("code ASC").
		Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

func (s *store) ListActiveTransporters(ctx context.Context, companyID uuid.UUID) ([]models.Transporter, error) {
	var transporters []models.Transporter
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND active = ?", companyID, true).
		Order("code ASC").
		Find(&transporters).Error
	if err != nil {
		return nil, err
	}
	return transporters, nil
}

func (s *store) FindTransporter(ctx context.Context, companyID, transporterID uuid.UUID) (*models.Transporter, error) {
	var transporter models.Transporter
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, transporterID).
		First(&transporter).Error
	if err != nil {
		return nil, err
	}
	return &transporter, nil
}

func (s *store) CarrierLoads(ctx context.Context, companyID uuid.UUID, since time.Time) ([]CarrierLoad, error) {
	transporters, err := s.ListActiveTransporters(ctx, companyID)
	if err != nil {
		return nil, err
	}
	loads := make([]CarrierLoad, 0, len(transporters))
	for _, transporter := range transporters {
		load := CarrierLoad{
			TransporterID: transporter.ID,
			Code:          transporter.Code,
			Name:          transporter.Name,
		}
		var inFlight int64
		err = s.db.WithContext(ctx).
			Model(&models.Order{}).
			Where("company_id = ? AND assigned_transporter_id = ?", companyID, transporter.ID).
			Where("status NOT IN ?", terminalStatuses()).
			Count(&inFlight).Error
		if err != nil {
			return nil, err
		}
		load.InFlight = int(inFlight)

		var onTime int64
		err = s.db.WithContext(ctx).
			Model(&models.Order{}).
			Where("company_id = ? AND assigned_transporter_id = ? AND status = ?", companyID, transporter.ID, enums.OrderStatusDelivered).
			Where("delivered_at >= ? AND delivered_at <= promised_date", since).
			Count(&onTime).Error
		if err != nil {
			return nil, err
		}
		load.DeliveredOnTime = int(onTime)

		var late int64
		err = s.db.WithContext(ctx).
			Model(&models.Order{}).
			Where("company_id = ? AND assigned_transporter_id = ? AND status = ?", companyID, transporter.ID, enums.OrderStatusDelivered).
			Where("delivered_at >= ? AND delivered_at > promised_date", since).
			Count(&late).Error
		if err != nil {
			return nil, err
		}
		load.DeliveredLate = int(late)

		loads = append(loads, load)
	}
	return loads, nil
}

func (s *store) InventoryHealthByLocation(ctx context.Context, companyID uuid.UUID) ([]InventoryHealth, error) {
	var rows []struct {
		LocationID uuid.UUID
		LowStock   int
		OutOfStock int
	}
	err := s.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Select(`location_id,
			SUM(CASE WHEN on_hand > 0 AND on_hand <= reorder_level THEN 1 ELSE 0 END) AS low_stock,
			SUM(CASE WHEN on_hand <= 0 THEN 1 ELSE 0 END) AS out_of_stock`).
		Where("company_id = ?", companyID).
		Group("location_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	health := make([]InventoryHealth, 0, len(rows))
	for _, row := range rows {
		health = append(health, InventoryHealth{
			LocationID: row.LocationID,
			LowStock:   row.LowStock,
			OutOfStock: row.OutOfStock,
		})
	}
	return health, nil
}

// PopulationStats prefers the analytics backend when one is wired, retrying
// transient failures, and falls back to an in-process aggregate over a
// bounded sample of recent order values.
func (s *store) PopulationStats(ctx context.Context, companyID uuid.UUID, windowDays int) (PopulationStats, error) {
	if s.stats != nil {
		backoff := retry.WithMaxRetries(2, retry.NewFibonacci(200*time.Millisecond))
		var stats PopulationStats
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			fetched, err := s.stats.OrderValueStats(ctx, companyID, windowDays)
			if err != nil {
				return retry.RetryableError(err)
			}
			stats = fetched
			return nil
		})
		if err == nil {
			return stats, nil
		}
		s.log.Warn(ctx, "analytics stats unavailable, falling back to sql aggregate")
	}
	return s.sampleStats(ctx, companyID, windowDays)
}

func (s *store) sampleStats(ctx context.Context, companyID uuid.UUID, windowDays int) (PopulationStats, error) {
	since := time.Now().UTC().AddDate(0, 0, -windowDays)
	var values []float64
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("company_id = ? AND created_at >= ? AND status <> ?", companyID, since, enums.OrderStatusCancelled).
		Order("created_at DESC").
		Limit(statsSampleCap).
		Pluck("total_amount", &values).Error
	if err != nil {
		return PopulationStats{}, pkgerrors.Wrap(pkgerrors.CodeDataUnavailable, err, "failed to sample order values")
	}
	if len(values) == 0 {
		return PopulationStats{}, nil
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return PopulationStats{
		AvgValue:    mean,
		StdDevValue: math.Sqrt(variance),
		SampleSize:  len(values),
	}, nil
}

func snapshots(orders []models.Order) []OrderSnapshot {
	result := make([]OrderSnapshot, 0, len(orders))
	for _, order := range orders {
		result = append(result, SnapshotFromOrder(order))
	}
	return result
}

func terminalStatuses() []enums.OrderStatus {
	return []enums.OrderStatus{enums.OrderStatusDelivered, enums.OrderStatusCancelled}
}

func dispatchReadyStatuses() []enums.OrderStatus {
	return []enums.OrderStatus{
		enums.OrderStatusReadyToShip,
		enums.OrderStatusShipped,
		enums.OrderStatusInTransit,
		enums.OrderStatusOutForDelivery,
	}
}
