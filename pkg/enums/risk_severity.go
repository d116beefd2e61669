package enums

// RiskSeverity bands a composite order risk score.
type RiskSeverity string

const (
	RiskSeverityLow      RiskSeverity = "low"
	RiskSeverityMedium   RiskSeverity = "medium"
	RiskSeverityHigh     RiskSeverity = "high"
	RiskSeverityCritical RiskSeverity = "critical"
)

// String implements fmt.Stringer.
func (r RiskSeverity) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RiskSeverity.
func (r RiskSeverity) IsValid() bool {
	switch r {
	case RiskSeverityLow, RiskSeverityMedium, RiskSeverityHigh, RiskSeverityCritical:
		return true
	}
	return false
}

// Rank orders severities from low to critical for comparisons.
func (r RiskSeverity) Rank() int {
	switch r {
	case RiskSeverityLow:
		return 0
	case RiskSeverityMedium:
		return 1
	case RiskSeverityHigh:
		return 2
	case RiskSeverityCritical:
		return 3
	}
	return -1
}
