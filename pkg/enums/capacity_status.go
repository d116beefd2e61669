package enums

// CapacityStatus grades projected warehouse utilization.
type CapacityStatus string

const (
	CapacityStatusUnderUtilized CapacityStatus = "under_utilized"
	CapacityStatusOptimal       CapacityStatus = "optimal"
	CapacityStatusStretched     CapacityStatus = "stretched"
	CapacityStatusOverloaded    CapacityStatus = "overloaded"
)

// String implements fmt.Stringer.
func (c CapacityStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CapacityStatus.
func (c CapacityStatus) IsValid() bool {
	switch c {
	case CapacityStatusUnderUtilized, CapacityStatusOptimal, CapacityStatusStretched, CapacityStatusOverloaded:
		return true
	}
	return false
}
