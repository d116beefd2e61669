package enums

import "fmt"

// ShipmentType classifies how a shipment moves.
type ShipmentType string

const (
	ShipmentTypeParcel ShipmentType = "parcel"
	ShipmentTypeLTL    ShipmentType = "ltl"
	ShipmentTypeFTL    ShipmentType = "ftl"
)

var validShipmentTypes = []ShipmentType{
	ShipmentTypeParcel,
	ShipmentTypeLTL,
	ShipmentTypeFTL,
}

// String implements fmt.Stringer.
func (s ShipmentType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShipmentType.
func (s ShipmentType) IsValid() bool {
	for _, candidate := range validShipmentTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShipmentType converts raw input into a ShipmentType.
func ParseShipmentType(value string) (ShipmentType, error) {
	for _, candidate := range validShipmentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipment type %q", value)
}
