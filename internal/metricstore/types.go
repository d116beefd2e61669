package metricstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db/models"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/types"
)

// OrderSnapshot is a read-only projection of an order for prediction and
// risk scoring. It is never written back; order state lives in the orders
// table and snapshots are recomputed from it on demand.
type OrderSnapshot struct {
	ID                    uuid.UUID
	CustomerID            uuid.UUID
	LocationID            uuid.UUID
	Status                enums.OrderStatus
	PaymentMode           enums.PaymentMode
	TotalAmount           decimal.Decimal
	PromisedDate          time.Time
	CreatedAt             time.Time
	ShippingAddress       types.Address
	BillingPostalCode     *string
	AssignedTransporterID *uuid.UUID
	DeliveredAt           *time.Time
	CancelledAt           *time.Time
	Items                 []OrderItemSnapshot
}

// OrderItemSnapshot is one SKU line inside an OrderSnapshot.
type OrderItemSnapshot struct {
	SKUID    string
	Quantity int
}

// SnapshotFromOrder projects a persisted order into the read model.
func SnapshotFromOrder(order models.Order) OrderSnapshot {
	items := make([]OrderItemSnapshot, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemSnapshot{SKUID: item.SKUID, Quantity: item.Quantity})
	}
	return OrderSnapshot{
		ID:                    order.ID,
		CustomerID:            order.CustomerID,
		LocationID:            order.LocationID,
		Status:                order.Status,
		PaymentMode:           order.PaymentMode,
		TotalAmount:           order.TotalAmount,
		PromisedDate:          order.PromisedDate,
		CreatedAt:             order.CreatedAt,
		ShippingAddress:       order.ShippingAddress,
		BillingPostalCode:     order.BillingPostalCode,
		AssignedTransporterID: order.AssignedTransporterID,
		DeliveredAt:           order.DeliveredAt,
		CancelledAt:           order.CancelledAt,
		Items:                 items,
	}
}

// PopulationStats carries the order-value distribution used for z-scoring.
type PopulationStats struct {
	AvgValue    float64
	StdDevValue float64
	SampleSize  int
}

// CustomerVelocity bundles the windowed order counts velocity scoring reads.
type CustomerVelocity struct {
	OrdersLastHour       int
	AddressOrdersLast24h int
}

// StatusCount is one row of the orders-by-status aggregate.
type StatusCount struct {
	Status enums.OrderStatus
	Count  int
}

// CarrierLoad summarizes one transporter's current and historical delivery
// performance for the carrier-health snapshot section.
type CarrierLoad struct {
	TransporterID   uuid.UUID
	Code            string
	Name            string
	InFlight        int
	DeliveredOnTime int
	DeliveredLate   int
}

// InventoryHealth counts stock pressure per location.
type InventoryHealth struct {
	LocationID uuid.UUID
	LowStock   int
	OutOfStock int
}
