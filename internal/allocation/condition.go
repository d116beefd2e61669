package allocation

import (
	"fmt"
	"strings"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db/models"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
	pkgerrors "github.com/mantoshmedhansh-dot/lsp-backend/pkg/errors"
)

// EvaluateConditions reports whether every condition holds for the shipment.
// Conditions are AND-combined; an empty list always matches.
func EvaluateConditions(conditions []models.RuleCondition, shipment ShipmentRequest) (bool, error) {
	for _, condition := range conditions {
		ok, err := evaluateCondition(condition, shipment)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evaluateCondition(condition models.RuleCondition, shipment ShipmentRequest) (bool, error) {
	switch condition.Field {
	case enums.RuleFieldWeightKg:
		return compareNumeric(shipment.WeightKg, condition.Operator, condition.Value)
	case enums.RuleFieldDeclaredValue:
		return compareNumeric(shipment.DeclaredValue.InexactFloat64(), condition.Operator, condition.Value)
	case enums.RuleFieldOriginZone:
		return compareString(shipment.OriginZone, condition.Operator, condition.Value)
	case enums.RuleFieldDestinationZone:
		return compareString(shipment.DestinationZone, condition.Operator, condition.Value)
	case enums.RuleFieldIsCOD:
		return compareBool(shipment.IsCOD, condition.Operator, condition.Value)
	case enums.RuleFieldShipmentType:
		return compareString(string(shipment.Type), condition.Operator, condition.Value)
	default:
		return false, pkgerrors.New(pkgerrors.CodeConfiguration, fmt.Sprintf("unknown rule field %q", condition.Field))
	}
}

func compareNumeric(actual float64, operator enums.RuleOperator, raw any) (bool, error) {
	if operator == enums.RuleOperatorIn {
		values, err := toFloatSlice(raw)
		if err != nil {
			return false, err
		}
		for _, v := range values {
			if actual == v {
				return true, nil
			}
		}
		return false, nil
	}
	expected, err := toFloat(raw)
	if err != nil {
		return false, err
	}
	switch operator {
	case enums.RuleOperatorEq:
		return actual == expected, nil
	case enums.RuleOperatorNeq:
		return actual != expected, nil
	case enums.RuleOperatorGt:
		return actual > expected, nil
	case enums.RuleOperatorGte:
		return actual >= expected, nil
	case enums.RuleOperatorLt:
		return actual < expected, nil
	case enums.RuleOperatorLte:
		return actual <= expected, nil
	default:
		return false, pkgerrors.New(pkgerrors.CodeConfiguration, fmt.Sprintf("operator %q not valid for numeric fields", operator))
	}
}

func compareString(actual string, operator enums.RuleOperator, raw any) (bool, error) {
	if operator == enums.RuleOperatorIn {
		values, err := toStringSlice(raw)
		if err != nil {
			return false, err
		}
		for _, v := range values {
			if strings.EqualFold(actual, v) {
				return true, nil
			}
		}
		return false, nil
	}
	expected, ok := raw.(string)
	if !ok {
		return false, pkgerrors.New(pkgerrors.CodeConfiguration, fmt.Sprintf("expected string condition value, got %T", raw))
	}
	switch operator {
	case enums.RuleOperatorEq:
		return strings.EqualFold(actual, expected), nil
	case enums.RuleOperatorNeq:
		return !strings.EqualFold(actual, expected), nil
	default:
		return false, pkgerrors.New(pkgerrors.CodeConfiguration, fmt.Sprintf("operator %q not valid for string fields", operator))
	}
}

func compareBool(actual bool, operator enums.RuleOperator, raw any) (bool, error) {
	expected, ok := raw.(bool)
	if !ok {
		return false, pkgerrors.New(pkgerrors.CodeConfiguration, fmt.Sprintf("expected boolean condition value, got %T", raw))
	}
	switch operator {
	case enums.RuleOperatorEq:
		return actual == expected, nil
	case enums.RuleOperatorNeq:
		return actual != expected, nil
	default:
		return false, pkgerrors.New(pkgerrors.CodeConfiguration, fmt.Sprintf("operator %q not valid for boolean fields", operator))
	}
}

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, pkgerrors.New(pkgerrors.CodeConfiguration, fmt.Sprintf("expected numeric condition value, got %T", raw))
	}
}

func toFloatSlice(raw any) ([]float64, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConfiguration, fmt.Sprintf("expected list condition value, got %T", raw))
	}
	values := make([]float64, 0, len(items))
	for _, item := range items {
		v, err := toFloat(item)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func toStringSlice(raw any) ([]string, error) {
	switch typed := raw.(type) {
	case []string:
		return typed, nil
	case []any:
		values := make([]string, 0, len(typed))
		for _, item := range typed {
			s, ok := item.(string)
			if !ok {
				return nil, pkgerrors.New(pkgerrors.CodeConfiguration, fmt.Sprintf("expected string list item, got %T", item))
			}
			values = append(values, s)
		}
		return values, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeConfiguration, fmt.Sprintf("expected list condition value, got %T", raw))
	}
}
