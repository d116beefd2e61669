package capacity

import (
	"testing"

	"github.com/google/uuid"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/types"
)

func staffingProfile(picking, packing, shipping int, throughput float64) types.StaffingProfile {
	return types.StaffingProfile{
		Picking:  types.StageStaffing{StaffCount: picking, ThroughputPerHour: throughput},
		Packing:  types.StageStaffing{StaffCount: packing, ThroughputPerHour: throughput},
		Shipping: types.StageStaffing{StaffCount: shipping, ThroughputPerHour: throughput},
	}
}

func TestPredictVolumeProjection(t *testing.T) {
	predictor := NewPredictor(DefaultConfig())

	// 40 pending plus half of a 120/day demand estimate.
	prediction := predictor.Predict(uuid.New(), 40, 120, staffingProfile(10, 10, 10, 20), 6, 0.5)
	if prediction.PredictedOrderVolume != 100 {
		t.Fatalf("expected 100 projected orders, got %d", prediction.PredictedOrderVolume)
	}
	if prediction.PredictedUnits != 200 {
		t.Fatalf("expected 200 projected units, got %d", prediction.PredictedUnits)
	}
}

func TestPredictUtilizationAndBottleneck(t *testing.T) {
	predictor := NewPredictor(DefaultConfig())

	// Picking: 2 staff * 10/h * 5h = 100 capacity against 180 units -> 180%.
	// Packing: 10 staff -> 36%. Shipping: 90 orders vs 500 -> 18%.
	staffing := types.StaffingProfile{
		Picking:  types.StageStaffing{StaffCount: 2, ThroughputPerHour: 10},
		Packing:  types.StageStaffing{StaffCount: 10, ThroughputPerHour: 10},
		Shipping: types.StageStaffing{StaffCount: 10, ThroughputPerHour: 10},
	}
	prediction := predictor.Predict(uuid.New(), 90, 0, staffing, 5, 0)

	if prediction.Bottleneck != enums.FulfillmentStagePicking {
		t.Fatalf("expected picking bottleneck, got %s", prediction.Bottleneck)
	}
	if prediction.Status != enums.CapacityStatusOverloaded {
		t.Fatalf("expected overloaded, got %s", prediction.Status)
	}
	picking := prediction.Stages[enums.FulfillmentStagePicking]
	if picking.Utilization != 180 {
		t.Fatalf("expected 180%% picking utilization, got %v", picking.Utilization)
	}
	if len(prediction.Recommendations) == 0 {
		t.Fatal("overloaded status should carry recommendations")
	}
}

func TestPredictBottleneckSuppressedBelowStretched(t *testing.T) {
	predictor := NewPredictor(DefaultConfig())

	// Plenty of capacity everywhere: max utilization well under 85%.
	prediction := predictor.Predict(uuid.New(), 10, 0, staffingProfile(10, 10, 10, 50), 8, 0)
	if prediction.Bottleneck != enums.FulfillmentStageNone {
		t.Fatalf("expected no bottleneck, got %s", prediction.Bottleneck)
	}
	if prediction.Status != enums.CapacityStatusUnderUtilized {
		t.Fatalf("expected under utilized, got %s", prediction.Status)
	}
}

func TestStatusBands(t *testing.T) {
	predictor := NewPredictor(DefaultConfig())
	cases := []struct {
		utilization float64
		want        enums.CapacityStatus
	}{
		{97, enums.CapacityStatusOverloaded},
		{95, enums.CapacityStatusOverloaded},
		{90, enums.CapacityStatusStretched},
		{85, enums.CapacityStatusStretched},
		{70, enums.CapacityStatusOptimal},
		{60, enums.CapacityStatusOptimal},
		{59, enums.CapacityStatusUnderUtilized},
	}
	for _, tc := range cases {
		if got := predictor.statusForUtilization(tc.utilization); got != tc.want {
			t.Fatalf("%v%%: expected %s, got %s", tc.utilization, tc.want, got)
		}
	}
}

func TestPredictZeroCapacityWithLoad(t *testing.T) {
	predictor := NewPredictor(DefaultConfig())

	prediction := predictor.Predict(uuid.New(), 5, 0, types.StaffingProfile{}, 4, 0)
	if prediction.Status != enums.CapacityStatusOverloaded {
		t.Fatalf("unstaffed location with pending work is overloaded, got %s", prediction.Status)
	}
}

func TestFractionOfDayRemaining(t *testing.T) {
	predictor := NewPredictor(DefaultConfig())
	cases := []struct {
		hour int
		want float64
	}{
		{6, 1},   // before the workday
		{8, 1},   // workday start
		{14, 0.5},
		{20, 0},  // workday end
		{23, 0},
	}
	for _, tc := range cases {
		if got := predictor.FractionOfDayRemaining(tc.hour); got != tc.want {
			t.Fatalf("hour %d: expected %v, got %v", tc.hour, tc.want, got)
		}
	}
}
