package metricstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db/models"
)

// Store is the metric repository: read access to operational state for the
// predictors and the risk scorer. All methods are read-only.
type Store interface {
	ListCompanyIDs(ctx context.Context) ([]uuid.UUID, error)

	FindOrder(ctx context.Context, companyID, orderID uuid.UUID) (*OrderSnapshot, error)
	ListActiveOrders(ctx context.Context, companyID uuid.UUID, limit int) ([]OrderSnapshot, error)
	ListOrdersCreatedBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]OrderSnapshot, error)
	ListOrdersPromisedBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]OrderSnapshot, error)
	ListRecentOrders(ctx context.Context, companyID uuid.UUID, since time.Time, limit int) ([]OrderSnapshot, error)
	ListCustomerHistory(ctx context.Context, companyID, customerID, excludeOrderID uuid.UUID, limit int) ([]OrderSnapshot, error)
	CustomerVelocity(ctx context.Context, companyID, customerID uuid.UUID, postalCode string, now time.Time) (CustomerVelocity, error)

	CountOrdersByStatus(ctx context.Context, companyID uuid.UUID) ([]StatusCount, error)
	CountPendingOrdersByLocation(ctx context.Context, companyID, locationID uuid.UUID) (int, error)
	AvgDailyOrders(ctx context.Context, companyID, locationID uuid.UUID, windowDays int) (float64, error)

	ListActiveLocations(ctx context.Context, companyID uuid.UUID) ([]models.Location, error)
	ListActiveTransporters(ctx context.Context, companyID uuid.UUID) ([]models.Transporter, error)
	FindTransporter(ctx context.Context, companyID, transporterID uuid.UUID) (*models.Transporter, error)

	CarrierLoads(ctx context.Context, companyID uuid.UUID, since time.Time) ([]CarrierLoad, error)
	InventoryHealthByLocation(ctx context.Context, companyID uuid.UUID) ([]InventoryHealth, error)

	PopulationStats(ctx context.Context, companyID uuid.UUID, windowDays int) (PopulationStats, error)
}
