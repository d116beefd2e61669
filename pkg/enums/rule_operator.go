package enums

import "fmt"

// RuleOperator is a comparison operator inside an allocation rule condition.
type RuleOperator string

const (
	RuleOperatorEq  RuleOperator = "eq"
	RuleOperatorNeq RuleOperator = "neq"
	RuleOperatorGt  RuleOperator = "gt"
	RuleOperatorGte RuleOperator = "gte"
	RuleOperatorLt  RuleOperator = "lt"
	RuleOperatorLte RuleOperator = "lte"
	RuleOperatorIn  RuleOperator = "in"
)

var validRuleOperators = []RuleOperator{
	RuleOperatorEq,
	RuleOperatorNeq,
	RuleOperatorGt,
	RuleOperatorGte,
	RuleOperatorLt,
	RuleOperatorLte,
	RuleOperatorIn,
}

// String implements fmt.Stringer.
func (r RuleOperator) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RuleOperator.
func (r RuleOperator) IsValid() bool {
	for _, candidate := range validRuleOperators {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRuleOperator converts raw input into a RuleOperator.
func ParseRuleOperator(value string) (RuleOperator, error) {
	for _, candidate := range validRuleOperators {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rule operator %q", value)
}
