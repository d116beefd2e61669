package allocation

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db/models"
)

func TestValidateCSRConfig(t *testing.T) {
	valid := models.CSRConfig{CostWeight: 0.5, SpeedWeight: 0.3, ReliabilityWeight: 0.2}
	if err := ValidateCSRConfig(valid); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	// One third each only sums to 1 within tolerance.
	thirds := models.CSRConfig{CostWeight: 1.0 / 3, SpeedWeight: 1.0 / 3, ReliabilityWeight: 1.0 / 3}
	if err := ValidateCSRConfig(thirds); err != nil {
		t.Fatalf("expected tolerance to absorb float drift, got %v", err)
	}

	bad := []models.CSRConfig{
		{CostWeight: 0.5, SpeedWeight: 0.5, ReliabilityWeight: 0.5},
		{CostWeight: -0.1, SpeedWeight: 0.6, ReliabilityWeight: 0.5},
		{CostWeight: 1.2, SpeedWeight: -0.1, ReliabilityWeight: -0.1},
	}
	for _, config := range bad {
		if err := ValidateCSRConfig(config); err == nil {
			t.Fatalf("expected rejection for %+v", config)
		}
	}
}

func TestScoreCandidatesNormalization(t *testing.T) {
	config := models.CSRConfig{CostWeight: 0.5, SpeedWeight: 0.3, ReliabilityWeight: 0.2}
	candidates := []CarrierCandidate{
		{Code: "cheap", CostPerKg: 10, TransitHours: 72, SuccessRate: 0.90},
		{Code: "fast", CostPerKg: 30, TransitHours: 24, SuccessRate: 0.95},
		{Code: "mid", CostPerKg: 20, TransitHours: 48, SuccessRate: 0.99},
	}

	scored, err := ScoreCandidates(config, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byCode := map[string]CarrierCandidate{}
	for _, c := range scored {
		byCode[c.Code] = c
	}

	// Cheapest carrier gets the full cost score, slowest gets zero speed.
	if byCode["cheap"].CostScore != 100 || byCode["cheap"].SpeedScore != 0 {
		t.Fatalf("cheap carrier scores wrong: %+v", byCode["cheap"])
	}
	if byCode["fast"].CostScore != 0 || byCode["fast"].SpeedScore != 100 {
		t.Fatalf("fast carrier scores wrong: %+v", byCode["fast"])
	}
	if byCode["mid"].ReliabilityScore != 100 {
		t.Fatalf("most reliable carrier should normalize to 100, got %v", byCode["mid"].ReliabilityScore)
	}

	wantCheap := 0.5*100 + 0.3*0 + 0.2*0
	if math.Abs(byCode["cheap"].Score-wantCheap) > 1e-9 {
		t.Fatalf("expected cheap score %v, got %v", wantCheap, byCode["cheap"].Score)
	}
}

func TestScoreCandidatesFlatMetricIsNeutral(t *testing.T) {
	config := models.CSRConfig{CostWeight: 1, SpeedWeight: 0, ReliabilityWeight: 0}
	candidates := []CarrierCandidate{
		{Code: "a", CostPerKg: 15, TransitHours: 24, SuccessRate: 0.9},
		{Code: "b", CostPerKg: 15, TransitHours: 48, SuccessRate: 0.8},
	}
	scored, err := ScoreCandidates(config, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, candidate := range scored {
		if candidate.Score != 100 {
			t.Fatalf("flat cost metric should be neutral, got %v for %s", candidate.Score, candidate.Code)
		}
	}
}

func TestRankCandidatesTiebreaks(t *testing.T) {
	lowID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	highID := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	ranked := RankCandidates([]CarrierCandidate{
		{TransporterID: highID, Code: "b", Score: 80, SuccessRate: 0.95},
		{TransporterID: lowID, Code: "a", Score: 80, SuccessRate: 0.95},
		{TransporterID: uuid.New(), Code: "c", Score: 80, SuccessRate: 0.99},
		{TransporterID: uuid.New(), Code: "d", Score: 90, SuccessRate: 0.50},
	})

	if ranked[0].Code != "d" {
		t.Fatalf("highest score should win, got %s", ranked[0].Code)
	}
	if ranked[1].Code != "c" {
		t.Fatalf("score tie should break on success rate, got %s", ranked[1].Code)
	}
	if ranked[2].TransporterID != lowID || ranked[3].TransporterID != highID {
		t.Fatalf("full tie should break on transporter id, got %v then %v", ranked[2].TransporterID, ranked[3].TransporterID)
	}
}
