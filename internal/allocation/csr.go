package allocation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db/models"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
	pkgerrors "github.com/mantoshmedhansh-dot/lsp-backend/pkg/errors"
)

// weightSumTolerance absorbs float drift when checking that CSR weights sum to 1.
const weightSumTolerance = 1e-6

// CarrierCandidate is one carrier entering a CSR scoring round, with the raw
// metrics normalization reads and the computed score after ScoreCandidates.
type CarrierCandidate struct {
	TransporterID uuid.UUID
	Code          string
	ShipmentTypes []enums.ShipmentType
	CostPerKg     float64
	TransitHours  float64
	SuccessRate   float64

	CostScore        float64
	SpeedScore       float64
	ReliabilityScore float64
	Score            float64
}

// CandidateFromTransporter projects carrier master data into a scoring candidate.
func CandidateFromTransporter(transporter models.Transporter) CarrierCandidate {
	return CarrierCandidate{
		TransporterID: transporter.ID,
		Code:          transporter.Code,
		ShipmentTypes: transporter.ShipmentTypes,
		CostPerKg:     transporter.CostPerKg.InexactFloat64(),
		TransitHours:  transporter.AvgTransitHours,
		SuccessRate:   transporter.SuccessRate,
	}
}

func (c CarrierCandidate) servesShipmentType(shipmentType enums.ShipmentType) bool {
	if len(c.ShipmentTypes) == 0 {
		return true
	}
	for _, candidate := range c.ShipmentTypes {
		if candidate == shipmentType {
			return true
		}
	}
	return false
}

// ValidateCSRConfig enforces the weight invariants before a config is used
// or persisted: each weight in [0,1] and the three summing to 1.
func ValidateCSRConfig(config models.CSRConfig) error {
	weights := map[string]float64{
		"cost_weight":        config.CostWeight,
		"speed_weight":       config.SpeedWeight,
		"reliability_weight": config.ReliabilityWeight,
	}
	for name, weight := range weights {
		if weight < 0 || weight > 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be between 0 and 1, got %v", name, weight))
		}
	}
	sum := config.CostWeight + config.SpeedWeight + config.ReliabilityWeight
	if math.Abs(sum-1) > weightSumTolerance {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("csr weights must sum to 1, got %v", sum))
	}
	return nil
}

// ScoreCandidates min-max normalizes each metric across the candidate set and
// combines them with the config weights into a 0-100 score per carrier.
// Cost and transit hours are inverted so that cheaper and faster score higher.
// When every candidate shares the same value for a metric the metric is
// neutral and every carrier receives the full 100 for it.
func ScoreCandidates(config models.CSRConfig, candidates []CarrierCandidate) ([]CarrierCandidate, error) {
	if err := ValidateCSRConfig(config); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	scored := make([]CarrierCandidate, len(candidates))
	copy(scored, candidates)

	minCost, maxCost := metricRange(scored, func(c CarrierCandidate) float64 { return c.CostPerKg })
	minTransit, maxTransit := metricRange(scored, func(c CarrierCandidate) float64 { return c.TransitHours })
	minSuccess, maxSuccess := metricRange(scored, func(c CarrierCandidate) float64 { return c.SuccessRate })

	for i := range scored {
		scored[i].CostScore = normalizeInverted(scored[i].CostPerKg, minCost, maxCost)
		scored[i].SpeedScore = normalizeInverted(scored[i].TransitHours, minTransit, maxTransit)
		scored[i].ReliabilityScore = normalize(scored[i].SuccessRate, minSuccess, maxSuccess)
		scored[i].Score = config.CostWeight*scored[i].CostScore +
			config.SpeedWeight*scored[i].SpeedScore +
			config.ReliabilityWeight*scored[i].ReliabilityScore
	}
	return scored, nil
}

// RankCandidates orders scored candidates best-first. Ties break on raw
// success rate, then on transporter ID so the ordering is deterministic.
func RankCandidates(candidates []CarrierCandidate) []CarrierCandidate {
	ranked := make([]CarrierCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].SuccessRate != ranked[j].SuccessRate {
			return ranked[i].SuccessRate > ranked[j].SuccessRate
		}
		return strings.Compare(ranked[i].TransporterID.String(), ranked[j].TransporterID.String()) < 0
	})
	return ranked
}

func metricRange(candidates []CarrierCandidate, metric func(CarrierCandidate) float64) (float64, float64) {
	min, max := metric(candidates[0]), metric(candidates[0])
	for _, candidate := range candidates[1:] {
		v := metric(candidate)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func normalize(value, min, max float64) float64 {
	if max == min {
		return 100
	}
	return (value - min) / (max - min) * 100
}

func normalizeInverted(value, min, max float64) float64 {
	if max == min {
		return 100
	}
	return (max - value) / (max - min) * 100
}
