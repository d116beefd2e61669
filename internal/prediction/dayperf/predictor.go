package dayperf

import (
	"fmt"
	"time"

	"github.com/mantoshmedhansh-dot/lsp-backend/internal/metricstore"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/prediction/sla"
	appconfig "github.com/mantoshmedhansh-dot/lsp-backend/pkg/config"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
)

// stuckThreshold is how long an order may sit in warehouse stages before it
// counts as stuck in the risk factors.
const stuckThreshold = 24 * time.Hour

// Config holds the per-metric on-time targets.
type Config struct {
	Targets map[enums.DayMetric]float64
}

// DefaultConfig returns the documented default targets.
func DefaultConfig() Config {
	return Config{Targets: map[enums.DayMetric]float64{
		enums.DayMetricD0: 95,
		enums.DayMetricD1: 98,
		enums.DayMetricD2: 99,
	}}
}

// ConfigFromApp maps environment-driven settings onto the predictor config.
func ConfigFromApp(cfg appconfig.PredictionConfig) Config {
	return Config{Targets: map[enums.DayMetric]float64{
		enums.DayMetricD0: cfg.D0TargetPct,
		enums.DayMetricD1: cfg.D1TargetPct,
		enums.DayMetricD2: cfg.D2TargetPct,
	}}
}

// Prediction is the forecast for one day metric on one target date.
type Prediction struct {
	Metric              enums.DayMetric         `json:"metric"`
	TargetDate          time.Time               `json:"target_date"`
	TotalOrders         int                     `json:"total_orders"`
	PredictedOnTime     int                     `json:"predicted_on_time"`
	PredictedPercentage float64                 `json:"predicted_percentage"`
	TargetPercentage    float64                 `json:"target_percentage"`
	Status              enums.PerformanceStatus `json:"status"`
	RiskFactors         []string                `json:"risk_factors"`
}

// Predictor forecasts same/next/second-day on-time percentages. Pure; it
// shares the SLA predictor's processing and transit estimates.
type Predictor struct {
	cfg Config
	sla *sla.Predictor
}

func NewPredictor(cfg Config, slaPredictor *sla.Predictor) *Predictor {
	if len(cfg.Targets) == 0 {
		cfg = DefaultConfig()
	}
	return &Predictor{cfg: cfg, sla: slaPredictor}
}

// Predict filters the candidate orders to the metric's bucket for targetDate
// and forecasts the on-time percentage against the configured target.
// An empty bucket predicts 100%: no orders means nothing can miss.
func (p *Predictor) Predict(metric enums.DayMetric, targetDate time.Time, orders []metricstore.OrderSnapshot, now time.Time) Prediction {
	bucket := p.filter(metric, targetDate, orders)
	target := p.cfg.Targets[metric]

	prediction := Prediction{
		Metric:           metric,
		TargetDate:       targetDate,
		TotalOrders:      len(bucket),
		TargetPercentage: target,
	}

	deadline := endOfDay(targetDate)
	hoursToTarget := deadline.Sub(now).Hours()

	var unprocessed, stuck int
	for _, order := range bucket {
		if p.predictedOnTime(order, hoursToTarget) {
			prediction.PredictedOnTime++
		}
		if order.Status == enums.OrderStatusCreated || order.Status == enums.OrderStatusConfirmed {
			unprocessed++
		} else if !order.Status.HasShipped() && now.Sub(order.CreatedAt) > stuckThreshold {
			stuck++
		}
	}

	if prediction.TotalOrders == 0 {
		prediction.PredictedPercentage = 100
	} else {
		prediction.PredictedPercentage = float64(prediction.PredictedOnTime) / float64(prediction.TotalOrders) * 100
	}
	prediction.Status = statusForPercentage(prediction.PredictedPercentage, target)

	if unprocessed > 0 {
		prediction.RiskFactors = append(prediction.RiskFactors,
			fmt.Sprintf("%d orders awaiting confirmation or processing", unprocessed))
	}
	if stuck > 0 {
		prediction.RiskFactors = append(prediction.RiskFactors,
			fmt.Sprintf("%d orders stuck in fulfillment beyond %s", stuck, stuckThreshold))
	}
	return prediction
}

// filter selects the metric's order set. D0 looks at orders created on the
// target date that have not reached a dispatch-ready status; D1/D2 look at
// orders promised on the target date, excluding terminal states.
func (p *Predictor) filter(metric enums.DayMetric, targetDate time.Time, orders []metricstore.OrderSnapshot) []metricstore.OrderSnapshot {
	var bucket []metricstore.OrderSnapshot
	for _, order := range orders {
		switch metric {
		case enums.DayMetricD0:
			if sameDay(order.CreatedAt, targetDate) && !order.Status.IsDispatchReady() && !order.Status.IsTerminal() {
				bucket = append(bucket, order)
			}
		default:
			if sameDay(order.PromisedDate, targetDate) && !order.Status.IsTerminal() {
				bucket = append(bucket, order)
			}
		}
	}
	return bucket
}

func (p *Predictor) predictedOnTime(order metricstore.OrderSnapshot, hoursToTarget float64) bool {
	if order.Status.HasShipped() || order.Status == enums.OrderStatusDelivered {
		return true
	}
	required := p.sla.ProcessingHours(order.Status) + p.sla.UnshippedBufferHours()
	return required <= hoursToTarget
}

func statusForPercentage(predicted, target float64) enums.PerformanceStatus {
	switch {
	case predicted >= target+2:
		return enums.PerformanceStatusExceeding
	case predicted < target-5:
		return enums.PerformanceStatusCritical
	case predicted < target:
		return enums.PerformanceStatusBelowTarget
	default:
		return enums.PerformanceStatusOnTarget
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func endOfDay(date time.Time) time.Time {
	year, month, day := date.UTC().Date()
	return time.Date(year, month, day, 23, 59, 59, 0, time.UTC)
}
