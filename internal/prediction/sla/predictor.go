package sla

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mantoshmedhansh-dot/lsp-backend/internal/metricstore"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
)

// remainingEpsilon floors the remaining-hours divisor so the time ratio
// stays finite as the promise approaches.
const remainingEpsilon = 0.1

// Risk factor strings. Each triggered factor is reported individually so a
// prediction is explainable without re-deriving the score.
const (
	FactorOverdue        = "promised date already passed"
	FactorLowBuffer      = "time buffer below threshold"
	FactorNoCarrier      = "no carrier assigned"
	FactorUnconfirmed    = "order not yet confirmed with limited time"
	FactorCashOnDelivery = "cash on delivery payment"
)

// CarrierProfile carries per-zone transit overrides for an assigned carrier.
// Nil fields fall back to the configured zone defaults.
type CarrierProfile struct {
	MetroHours    *float64
	NonMetroHours *float64
	RemoteHours   *float64
}

// Prediction is a point-in-time breach estimate for one order. It is
// derived state: recomputed on demand, never the system of record.
type Prediction struct {
	OrderID           uuid.UUID       `json:"order_id"`
	Status            enums.SLAStatus `json:"status"`
	BreachProbability float64         `json:"breach_probability"`
	DelayMinutes      int             `json:"delay_minutes"`
	RemainingHours    float64         `json:"remaining_hours"`
	RequiredHours     float64         `json:"required_hours"`
	RiskFactors       []string        `json:"risk_factors"`
	SuggestedActions  []string        `json:"suggested_actions"`
}

// Predictor estimates SLA breach probability per order. It is pure; all
// inputs arrive as arguments and nothing is persisted.
type Predictor struct {
	cfg Config
}

func NewPredictor(cfg Config) *Predictor {
	return &Predictor{cfg: cfg.normalized()}
}

// Predict estimates whether the order will meet its promised date as of now.
func (p *Predictor) Predict(order metricstore.OrderSnapshot, carrier *CarrierProfile, now time.Time) Prediction {
	prediction := Prediction{OrderID: order.ID}

	if order.Status == enums.OrderStatusDelivered {
		if order.DeliveredAt != nil && order.DeliveredAt.After(order.PromisedDate) {
			prediction.Status = enums.SLAStatusBreached
			prediction.BreachProbability = 1
			prediction.DelayMinutes = int(order.DeliveredAt.Sub(order.PromisedDate).Minutes())
		} else {
			prediction.Status = enums.SLAStatusOnTrack
		}
		return prediction
	}
	if order.Status == enums.OrderStatusCancelled {
		prediction.Status = enums.SLAStatusOnTrack
		return prediction
	}

	remaining := order.PromisedDate.Sub(now).Hours()
	required := p.requiredHours(order, carrier)
	prediction.RemainingHours = remaining
	prediction.RequiredHours = required
	prediction.DelayMinutes = int(math.Max(0, (required-remaining)*60))

	if remaining <= 0 {
		prediction.BreachProbability = 1
	} else {
		ratio := required / math.Max(remaining, remainingEpsilon)
		prediction.BreachProbability = clamp01(stepProbability(ratio) * stageMultiplier(order.Status))
	}
	prediction.Status = statusForProbability(prediction.BreachProbability)
	prediction.RiskFactors = p.riskFactors(order, remaining)
	prediction.SuggestedActions = suggestedActions(prediction.RiskFactors)
	return prediction
}

// BatchPredict scores every non-cancelled order, sorted by descending
// breach probability, checking for cancellation between iterations. A
// non-positive limit means no cap.
func (p *Predictor) BatchPredict(ctx context.Context, orders []metricstore.OrderSnapshot, carriers map[uuid.UUID]CarrierProfile, now time.Time, limit int) ([]Prediction, error) {
	predictions := make([]Prediction, 0, len(orders))
	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if order.Status == enums.OrderStatusCancelled {
			continue
		}
		var carrier *CarrierProfile
		if order.AssignedTransporterID != nil {
			if profile, ok := carriers[*order.AssignedTransporterID]; ok {
				carrier = &profile
			}
		}
		predictions = append(predictions, p.Predict(order, carrier, now))
	}
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].BreachProbability > predictions[j].BreachProbability
	})
	if limit > 0 && len(predictions) > limit {
		predictions = predictions[:limit]
	}
	return predictions, nil
}

// RequiredHours exposes the processing+transit estimate for reuse by the
// day-performance predictor.
func (p *Predictor) RequiredHours(order metricstore.OrderSnapshot, carrier *CarrierProfile) float64 {
	return p.requiredHours(order, carrier)
}

// ProcessingHours exposes the remaining warehouse work estimate by status.
func (p *Predictor) ProcessingHours(status enums.OrderStatus) float64 {
	return p.cfg.ProcessingHours[status]
}

// UnshippedBufferHours exposes the configured buffer for unshipped orders.
func (p *Predictor) UnshippedBufferHours() float64 {
	return p.cfg.UnshippedBufferHours
}

func (p *Predictor) requiredHours(order metricstore.OrderSnapshot, carrier *CarrierProfile) float64 {
	processing := p.cfg.ProcessingHours[order.Status]
	return processing + p.transitHours(order, carrier)
}

func (p *Predictor) transitHours(order metricstore.OrderSnapshot, carrier *CarrierProfile) float64 {
	zone, err := enums.ParseZoneClass(order.ShippingAddress.Zone)
	if err != nil {
		// Unknown destination: assume the slowest lane.
		zone = enums.ZoneClassRemote
	}
	switch zone {
	case enums.ZoneClassMetro:
		if carrier != nil && carrier.MetroHours != nil {
			return *carrier.MetroHours
		}
		return p.cfg.MetroTransitHours
	case enums.ZoneClassNonMetro:
		if carrier != nil && carrier.NonMetroHours != nil {
			return *carrier.NonMetroHours
		}
		return p.cfg.NonMetroTransitHours
	default:
		if carrier != nil && carrier.RemoteHours != nil {
			return *carrier.RemoteHours
		}
		return p.cfg.RemoteTransitHours
	}
}

func (p *Predictor) riskFactors(order metricstore.OrderSnapshot, remaining float64) []string {
	var factors []string
	if remaining <= 0 {
		factors = append(factors, FactorOverdue)
	} else if remaining < p.cfg.LowBufferHours {
		factors = append(factors, FactorLowBuffer)
	}
	if !order.Status.HasShipped() && order.AssignedTransporterID == nil {
		factors = append(factors, FactorNoCarrier)
	}
	if order.Status == enums.OrderStatusCreated && remaining < 24 {
		factors = append(factors, FactorUnconfirmed)
	}
	if order.PaymentMode == enums.PaymentModeCOD {
		factors = append(factors, FactorCashOnDelivery)
	}
	return factors
}

func suggestedActions(factors []string) []string {
	actions := make([]string, 0, len(factors))
	for _, factor := range factors {
		switch factor {
		case FactorOverdue:
			actions = append(actions, "escalate to operations and notify the customer")
		case FactorLowBuffer:
			actions = append(actions, "expedite warehouse processing")
		case FactorNoCarrier:
			actions = append(actions, "run carrier allocation now")
		case FactorUnconfirmed:
			actions = append(actions, "confirm the order immediately")
		case FactorCashOnDelivery:
			actions = append(actions, "verify the cod order before dispatch")
		default:
			actions = append(actions, fmt.Sprintf("review factor: %s", factor))
		}
	}
	return actions
}

func stepProbability(ratio float64) float64 {
	switch {
	case ratio >= 1.5:
		return 0.95
	case ratio >= 1.2:
		return 0.7
	case ratio >= 1.0:
		return 0.5
	case ratio >= 0.8:
		return 0.3
	default:
		return 0.1
	}
}

// stageMultiplier scales probability by pipeline uncertainty: work still in
// the warehouse can slip further than a parcel already moving.
func stageMultiplier(status enums.OrderStatus) float64 {
	switch status {
	case enums.OrderStatusCreated, enums.OrderStatusConfirmed:
		return 1.2
	case enums.OrderStatusPicking, enums.OrderStatusPicked, enums.OrderStatusPacking:
		return 1.1
	case enums.OrderStatusPacked, enums.OrderStatusReadyToShip:
		return 1.0
	default:
		return 0.8
	}
}

func statusForProbability(probability float64) enums.SLAStatus {
	switch {
	case probability >= 0.9:
		return enums.SLAStatusBreached
	case probability >= 0.7:
		return enums.SLAStatusCritical
	case probability >= 0.4:
		return enums.SLAStatusAtRisk
	default:
		return enums.SLAStatusOnTrack
	}
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
