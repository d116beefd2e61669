package controltower

import (
	"time"

	"github.com/google/uuid"

	"github.com/mantoshmedhansh-dot/lsp-backend/internal/alerting"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/prediction/capacity"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/prediction/dayperf"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/prediction/sla"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/risk"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
)

// Section marks whether a snapshot section was assembled. A failed section
// keeps its zero value and reports Available=false instead of failing the
// whole snapshot.
type Section struct {
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

func availableSection() Section {
	return Section{Available: true}
}

func failedSection(err error) Section {
	if err == nil {
		return availableSection()
	}
	return Section{Available: false, Error: err.Error()}
}

// OrderMetricsSection is the live order pipeline breakdown.
type OrderMetricsSection struct {
	Section
	TotalOrders int                       `json:"total_orders"`
	ByStatus    map[enums.OrderStatus]int `json:"by_status"`
}

// SLASummarySection aggregates breach predictions over active orders.
type SLASummarySection struct {
	Section
	Evaluated int                     `json:"evaluated"`
	Counts    map[enums.SLAStatus]int `json:"counts"`
	TopRisks  []sla.Prediction        `json:"top_risks"`
}

// DayPerformanceSection holds the D0/D1/D2 on-time forecasts.
type DayPerformanceSection struct {
	Section
	Metrics map[enums.DayMetric]dayperf.Prediction `json:"metrics"`
}

// CapacitySection holds per-location utilization projections.
type CapacitySection struct {
	Section
	Locations []capacity.Prediction `json:"locations"`
}

// AnomalySection carries the high-risk orders found in the scan window.
type AnomalySection struct {
	Section
	Orders []risk.Profile `json:"orders"`
}

// CarrierHealth is one transporter's live delivery posture.
type CarrierHealth struct {
	TransporterID uuid.UUID `json:"transporter_id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	InFlight      int       `json:"in_flight"`
	Delivered     int       `json:"delivered"`
	OnTimeRate    float64   `json:"on_time_rate"`
	Degraded      bool      `json:"degraded"`
}

// CarrierHealthSection lists carrier posture for the company.
type CarrierHealthSection struct {
	Section
	Carriers []CarrierHealth `json:"carriers"`
}

// InventoryLocationHealth counts stock pressure at one location.
type InventoryLocationHealth struct {
	LocationID uuid.UUID `json:"location_id"`
	LowStock   int       `json:"low_stock"`
	OutOfStock int       `json:"out_of_stock"`
}

// InventoryHealthSection lists stock pressure across locations.
type InventoryHealthSection struct {
	Section
	Locations []InventoryLocationHealth `json:"locations"`
}

// Snapshot is the merged control-tower read model. It is derived state,
// safe to poll and safe to cache.
type Snapshot struct {
	CompanyID       uuid.UUID              `json:"company_id"`
	GeneratedAt     time.Time              `json:"generated_at"`
	Source          string                 `json:"source"`
	OrderMetrics    OrderMetricsSection    `json:"order_metrics"`
	SLASummary      SLASummarySection      `json:"sla_summary"`
	DayPerformance  DayPerformanceSection  `json:"day_performance"`
	Capacity        CapacitySection        `json:"capacity"`
	Anomalies       AnomalySection         `json:"anomalies"`
	CarrierHealth   CarrierHealthSection   `json:"carrier_health"`
	InventoryHealth InventoryHealthSection `json:"inventory_health"`
	Alerts          []alerting.Alert       `json:"alerts"`
}

const (
	snapshotSourceLive  = "live"
	snapshotSourceCache = "cache"
)
