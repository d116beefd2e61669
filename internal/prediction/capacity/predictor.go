package capacity

import (
	"math"

	"github.com/google/uuid"

	appconfig "github.com/mantoshmedhansh-dot/lsp-backend/pkg/config"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/types"
)

// Config externalizes the capacity model constants.
type Config struct {
	// AvgItemsPerOrder converts projected order volume into unit volume for
	// the picking and packing stages.
	AvgItemsPerOrder float64

	// Utilization bands, percent.
	OverloadedPct    float64
	StretchedPct     float64
	UnderUtilizedPct float64

	// Workday bounds used to derive the fraction of the day remaining.
	WorkdayStartHour int
	WorkdayEndHour   int
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		AvgItemsPerOrder: 2,
		OverloadedPct:    95,
		StretchedPct:     85,
		UnderUtilizedPct: 60,
		WorkdayStartHour: 8,
		WorkdayEndHour:   20,
	}
}

// ConfigFromApp maps environment-driven settings onto the predictor config.
func ConfigFromApp(cfg appconfig.CapacityConfig) Config {
	return Config{
		AvgItemsPerOrder: cfg.AvgItemsPerOrder,
		OverloadedPct:    cfg.OverloadedPct,
		StretchedPct:     cfg.StretchedPct,
		UnderUtilizedPct: cfg.UnderUtilizedPct,
		WorkdayStartHour: cfg.WorkdayStartHour,
		WorkdayEndHour:   cfg.WorkdayEndHour,
	}
}

// StageLoad is one stage's projected capacity picture.
type StageLoad struct {
	Capacity    float64 `json:"capacity"`
	Load        float64 `json:"load"`
	Utilization float64 `json:"utilization_pct"`
}

// Prediction is the projected saturation of one location for the remaining
// workday.
type Prediction struct {
	LocationID           uuid.UUID                            `json:"location_id"`
	PredictedOrderVolume int                                  `json:"predicted_order_volume"`
	PredictedUnits       int                                  `json:"predicted_units"`
	Stages               map[enums.FulfillmentStage]StageLoad `json:"stages"`
	Bottleneck           enums.FulfillmentStage               `json:"bottleneck"`
	Status               enums.CapacityStatus                 `json:"status"`
	Recommendations      []string                             `json:"recommendations"`
}

// Predictor projects per-stage warehouse utilization. Pure.
type Predictor struct {
	cfg Config
}

func NewPredictor(cfg Config) *Predictor {
	defaults := DefaultConfig()
	if cfg.AvgItemsPerOrder <= 0 {
		cfg.AvgItemsPerOrder = defaults.AvgItemsPerOrder
	}
	if cfg.OverloadedPct <= 0 {
		cfg.OverloadedPct = defaults.OverloadedPct
	}
	if cfg.StretchedPct <= 0 {
		cfg.StretchedPct = defaults.StretchedPct
	}
	if cfg.UnderUtilizedPct <= 0 {
		cfg.UnderUtilizedPct = defaults.UnderUtilizedPct
	}
	if cfg.WorkdayEndHour <= cfg.WorkdayStartHour {
		cfg.WorkdayStartHour = defaults.WorkdayStartHour
		cfg.WorkdayEndHour = defaults.WorkdayEndHour
	}
	return &Predictor{cfg: cfg}
}

// FractionOfDayRemaining reports how much of the configured workday is left
// at the given hour, clamped to [0,1].
func (p *Predictor) FractionOfDayRemaining(hour int) float64 {
	span := float64(p.cfg.WorkdayEndHour - p.cfg.WorkdayStartHour)
	left := float64(p.cfg.WorkdayEndHour-hour) / span
	return math.Min(1, math.Max(0, left))
}

// RemainingWorkHours reports the workday hours left at the given hour.
func (p *Predictor) RemainingWorkHours(hour int) float64 {
	return p.FractionOfDayRemaining(hour) * float64(p.cfg.WorkdayEndHour-p.cfg.WorkdayStartHour)
}

// Predict projects stage utilization for a location. Picking and packing
// work in units; shipping works in orders. A stage with zero configured
// capacity and non-zero load reports full saturation.
func (p *Predictor) Predict(locationID uuid.UUID, pendingOrders int, avgDailyOrders float64, staffing types.StaffingProfile, remainingHours float64, fractionOfDayRemaining float64) Prediction {
	projected := pendingOrders + int(math.Round(avgDailyOrders*fractionOfDayRemaining))
	units := int(math.Round(float64(projected) * p.cfg.AvgItemsPerOrder))

	stages := map[enums.FulfillmentStage]StageLoad{
		enums.FulfillmentStagePicking:  stageLoad(staffing.Picking, remainingHours, float64(units)),
		enums.FulfillmentStagePacking:  stageLoad(staffing.Packing, remainingHours, float64(units)),
		enums.FulfillmentStageShipping: stageLoad(staffing.Shipping, remainingHours, float64(projected)),
	}

	bottleneck := enums.FulfillmentStageNone
	maxUtilization := 0.0
	// Fixed evaluation order keeps the bottleneck deterministic on ties.
	for _, stage := range []enums.FulfillmentStage{
		enums.FulfillmentStagePicking,
		enums.FulfillmentStagePacking,
		enums.FulfillmentStageShipping,
	} {
		if stages[stage].Utilization > maxUtilization {
			maxUtilization = stages[stage].Utilization
			bottleneck = stage
		}
	}
	if maxUtilization < p.cfg.StretchedPct {
		bottleneck = enums.FulfillmentStageNone
	}

	status := p.statusForUtilization(maxUtilization)
	return Prediction{
		LocationID:           locationID,
		PredictedOrderVolume: projected,
		PredictedUnits:       units,
		Stages:               stages,
		Bottleneck:           bottleneck,
		Status:               status,
		Recommendations:      recommendations(status, bottleneck),
	}
}

func stageLoad(staffing types.StageStaffing, remainingHours, load float64) StageLoad {
	capacity := float64(staffing.StaffCount) * staffing.ThroughputPerHour * remainingHours
	result := StageLoad{Capacity: capacity, Load: load}
	switch {
	case capacity > 0:
		result.Utilization = load / capacity * 100
	case load > 0:
		result.Utilization = 100
	}
	return result
}

func (p *Predictor) statusForUtilization(utilization float64) enums.CapacityStatus {
	switch {
	case utilization >= p.cfg.OverloadedPct:
		return enums.CapacityStatusOverloaded
	case utilization >= p.cfg.StretchedPct:
		return enums.CapacityStatusStretched
	case utilization < p.cfg.UnderUtilizedPct:
		return enums.CapacityStatusUnderUtilized
	default:
		return enums.CapacityStatusOptimal
	}
}

// recommendations is a fixed status+bottleneck mapping, never free text.
func recommendations(status enums.CapacityStatus, bottleneck enums.FulfillmentStage) []string {
	var hints []string
	switch status {
	case enums.CapacityStatusOverloaded:
		hints = append(hints, "authorize overtime for the remaining shift")
		hints = append(hints, "divert new orders to another location if possible")
	case enums.CapacityStatusStretched:
		hints = append(hints, "monitor queue depth hourly")
	case enums.CapacityStatusUnderUtilized:
		hints = append(hints, "consider reassigning staff to other locations")
	}
	switch bottleneck {
	case enums.FulfillmentStagePicking:
		hints = append(hints, "cross-train packing staff on picking")
	case enums.FulfillmentStagePacking:
		hints = append(hints, "cross-train picking staff on packing")
	case enums.FulfillmentStageShipping:
		hints = append(hints, "schedule an additional carrier pickup")
	}
	return hints
}
