package enums

// SLAStatus grades how likely an order is to miss its promised date.
type SLAStatus string

const (
	SLAStatusOnTrack  SLAStatus = "on_track"
	SLAStatusAtRisk   SLAStatus = "at_risk"
	SLAStatusCritical SLAStatus = "critical"
	SLAStatusBreached SLAStatus = "breached"
)

// String implements fmt.Stringer.
func (s SLAStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SLAStatus.
func (s SLAStatus) IsValid() bool {
	switch s {
	case SLAStatusOnTrack, SLAStatusAtRisk, SLAStatusCritical, SLAStatusBreached:
		return true
	}
	return false
}
