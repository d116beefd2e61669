package enums

// RiskAction is the recommended handling for a scored order.
type RiskAction string

const (
	// RiskActionApprove lets the order continue untouched.
	RiskActionApprove RiskAction = "approve"
	// RiskActionReview queues the order for a manual look.
	RiskActionReview RiskAction = "review"
	// RiskActionHold pauses fulfillment until cleared.
	RiskActionHold RiskAction = "hold"
	// RiskActionBlock rejects the order outright.
	RiskActionBlock RiskAction = "block"
)

// String implements fmt.Stringer.
func (r RiskAction) String() string {
	return string(r)
}

// ActionForSeverity maps a severity band to its recommended action.
func ActionForSeverity(severity RiskSeverity) RiskAction {
	switch severity {
	case RiskSeverityCritical:
		return RiskActionBlock
	case RiskSeverityHigh:
		return RiskActionHold
	case RiskSeverityMedium:
		return RiskActionReview
	default:
		return RiskActionApprove
	}
}
