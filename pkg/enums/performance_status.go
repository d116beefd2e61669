package enums

// PerformanceStatus compares a predicted on-time percentage to its target.
type PerformanceStatus string

const (
	PerformanceStatusExceeding   PerformanceStatus = "exceeding"
	PerformanceStatusOnTarget    PerformanceStatus = "on_target"
	PerformanceStatusBelowTarget PerformanceStatus = "below_target"
	PerformanceStatusCritical    PerformanceStatus = "critical"
)

// String implements fmt.Stringer.
func (p PerformanceStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PerformanceStatus.
func (p PerformanceStatus) IsValid() bool {
	switch p {
	case PerformanceStatusExceeding, PerformanceStatusOnTarget, PerformanceStatusBelowTarget, PerformanceStatusCritical:
		return true
	}
	return false
}
