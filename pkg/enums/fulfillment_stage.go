package enums

// FulfillmentStage names a warehouse pipeline stage for capacity planning.
type FulfillmentStage string

const (
	FulfillmentStageNone     FulfillmentStage = "none"
	FulfillmentStagePicking  FulfillmentStage = "picking"
	FulfillmentStagePacking  FulfillmentStage = "packing"
	FulfillmentStageShipping FulfillmentStage = "shipping"
)

// String implements fmt.Stringer.
func (f FulfillmentStage) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FulfillmentStage.
func (f FulfillmentStage) IsValid() bool {
	switch f {
	case FulfillmentStageNone, FulfillmentStagePicking, FulfillmentStagePacking, FulfillmentStageShipping:
		return true
	}
	return false
}
