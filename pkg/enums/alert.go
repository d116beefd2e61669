package enums

// AlertType categorizes control-tower alerts.
type AlertType string

const (
	AlertTypeSLABreach        AlertType = "sla_breach"
	AlertTypeSLARisk          AlertType = "sla_risk"
	AlertTypeCapacityOverload AlertType = "capacity_overload"
	AlertTypeDayTargetMiss    AlertType = "day_target_miss"
	AlertTypeOrderRisk        AlertType = "order_risk"
	AlertTypeCarrierDegraded  AlertType = "carrier_degraded"
	AlertTypeStockout         AlertType = "stockout"
)

// AlertSeverity grades how urgently an alert needs attention.
type AlertSeverity string

const (
	AlertSeverityInfo     AlertSeverity = "info"
	AlertSeverityWarning  AlertSeverity = "warning"
	AlertSeverityCritical AlertSeverity = "critical"
)

// String implements fmt.Stringer.
func (a AlertType) String() string {
	return string(a)
}

// String implements fmt.Stringer.
func (a AlertSeverity) String() string {
	return string(a)
}
