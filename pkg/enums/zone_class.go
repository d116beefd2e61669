package enums

import "fmt"

// ZoneClass groups destination zones by expected transit profile.
type ZoneClass string

const (
	ZoneClassMetro    ZoneClass = "metro"
	ZoneClassNonMetro ZoneClass = "non_metro"
	ZoneClassRemote   ZoneClass = "remote"
)

var validZoneClasses = []ZoneClass{
	ZoneClassMetro,
	ZoneClassNonMetro,
	ZoneClassRemote,
}

// String implements fmt.Stringer.
func (z ZoneClass) String() string {
	return string(z)
}

// IsValid reports whether the value is a known ZoneClass.
func (z ZoneClass) IsValid() bool {
	for _, candidate := range validZoneClasses {
		if candidate == z {
			return true
		}
	}
	return false
}

// ParseZoneClass converts raw input into a ZoneClass.
func ParseZoneClass(value string) (ZoneClass, error) {
	for _, candidate := range validZoneClasses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid zone class %q", value)
}
