package enums

import "fmt"

// RuleField names a shipment attribute an allocation rule condition can test.
type RuleField string

const (
	RuleFieldWeightKg        RuleField = "weight_kg"
	RuleFieldDeclaredValue   RuleField = "declared_value"
	RuleFieldOriginZone      RuleField = "origin_zone"
	RuleFieldDestinationZone RuleField = "destination_zone"
	RuleFieldIsCOD           RuleField = "is_cod"
	RuleFieldShipmentType    RuleField = "shipment_type"
)

var validRuleFields = []RuleField{
	RuleFieldWeightKg,
	RuleFieldDeclaredValue,
	RuleFieldOriginZone,
	RuleFieldDestinationZone,
	RuleFieldIsCOD,
	RuleFieldShipmentType,
}

// String implements fmt.Stringer.
func (r RuleField) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RuleField.
func (r RuleField) IsValid() bool {
	for _, candidate := range validRuleFields {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRuleField converts raw input into a RuleField.
func ParseRuleField(value string) (RuleField, error) {
	for _, candidate := range validRuleFields {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rule field %q", value)
}
