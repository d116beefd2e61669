package enums

import "fmt"

// DayMetric identifies the fulfillment-day performance bucket.
type DayMetric string

const (
	// DayMetricD0 measures same-day dispatch performance.
	DayMetricD0 DayMetric = "d0"
	// DayMetricD1 measures next-day delivery performance.
	DayMetricD1 DayMetric = "d1"
	// DayMetricD2 measures second-day delivery performance.
	DayMetricD2 DayMetric = "d2"
)

var validDayMetrics = []DayMetric{
	DayMetricD0,
	DayMetricD1,
	DayMetricD2,
}

// String implements fmt.Stringer.
func (d DayMetric) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DayMetric.
func (d DayMetric) IsValid() bool {
	for _, candidate := range validDayMetrics {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDayMetric converts raw input into a DayMetric.
func ParseDayMetric(value string) (DayMetric, error) {
	for _, candidate := range validDayMetrics {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid day metric %q", value)
}
