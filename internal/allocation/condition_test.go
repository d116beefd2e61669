package allocation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db/models"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
)

func testShipment() ShipmentRequest {
	return ShipmentRequest{
		Type:            enums.ShipmentTypeParcel,
		WeightKg:        12.5,
		DeclaredValue:   decimal.NewFromInt(2400),
		OriginZone:      "metro",
		DestinationZone: "remote",
		IsCOD:           true,
	}
}

func TestEvaluateConditionsNumericOperators(t *testing.T) {
	shipment := testShipment()
	cases := []struct {
		name      string
		condition models.RuleCondition
		want      bool
	}{
		{"gt matches", models.RuleCondition{Field: enums.RuleFieldWeightKg, Operator: enums.RuleOperatorGt, Value: 10.0}, true},
		{"gt misses", models.RuleCondition{Field: enums.RuleFieldWeightKg, Operator: enums.RuleOperatorGt, Value: 12.5}, false},
		{"gte boundary", models.RuleCondition{Field: enums.RuleFieldWeightKg, Operator: enums.RuleOperatorGte, Value: 12.5}, true},
		{"lt declared value", models.RuleCondition{Field: enums.RuleFieldDeclaredValue, Operator: enums.RuleOperatorLt, Value: 2500.0}, true},
		{"lte boundary", models.RuleCondition{Field: enums.RuleFieldDeclaredValue, Operator: enums.RuleOperatorLte, Value: 2400.0}, true},
		{"eq int value", models.RuleCondition{Field: enums.RuleFieldDeclaredValue, Operator: enums.RuleOperatorEq, Value: 2400}, true},
		{"neq", models.RuleCondition{Field: enums.RuleFieldWeightKg, Operator: enums.RuleOperatorNeq, Value: 5.0}, true},
		{"in list", models.RuleCondition{Field: enums.RuleFieldWeightKg, Operator: enums.RuleOperatorIn, Value: []any{5.0, 12.5}}, true},
		{"in list misses", models.RuleCondition{Field: enums.RuleFieldWeightKg, Operator: enums.RuleOperatorIn, Value: []any{5.0, 6.0}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EvaluateConditions([]models.RuleCondition{tc.condition}, shipment)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestEvaluateConditionsStringAndBool(t *testing.T) {
	shipment := testShipment()

	ok, err := EvaluateConditions([]models.RuleCondition{
		{Field: enums.RuleFieldOriginZone, Operator: enums.RuleOperatorEq, Value: "METRO"},
		{Field: enums.RuleFieldDestinationZone, Operator: enums.RuleOperatorIn, Value: []any{"remote", "non_metro"}},
		{Field: enums.RuleFieldIsCOD, Operator: enums.RuleOperatorEq, Value: true},
		{Field: enums.RuleFieldShipmentType, Operator: enums.RuleOperatorEq, Value: "parcel"},
	}, shipment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected all conditions to match")
	}

	ok, err = EvaluateConditions([]models.RuleCondition{
		{Field: enums.RuleFieldOriginZone, Operator: enums.RuleOperatorEq, Value: "metro"},
		{Field: enums.RuleFieldIsCOD, Operator: enums.RuleOperatorEq, Value: false},
	}, shipment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected conjunction to fail on the cod condition")
	}
}

func TestEvaluateConditionsEmptyListMatches(t *testing.T) {
	ok, err := EvaluateConditions(nil, testShipment())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("empty condition list should match everything")
	}
}

func TestEvaluateConditionsRejectsBadShapes(t *testing.T) {
	shipment := testShipment()
	bad := []models.RuleCondition{
		{Field: enums.RuleFieldOriginZone, Operator: enums.RuleOperatorGt, Value: "metro"},
		{Field: enums.RuleFieldIsCOD, Operator: enums.RuleOperatorEq, Value: "yes"},
		{Field: enums.RuleFieldWeightKg, Operator: enums.RuleOperatorEq, Value: "heavy"},
		{Field: "altitude", Operator: enums.RuleOperatorEq, Value: 1.0},
	}
	for _, condition := range bad {
		if _, err := EvaluateConditions([]models.RuleCondition{condition}, shipment); err == nil {
			t.Fatalf("expected error for condition %+v", condition)
		}
	}
}
