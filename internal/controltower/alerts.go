package controltower

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mantoshmedhansh-dot/lsp-backend/internal/alerting"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
)

// buildAlerts derives alerts from the assembled sections. The mapping is
// deterministic: the same sections always produce the same alert set
// (ids and timestamps aside).
func buildAlerts(companyID uuid.UUID, snap *Snapshot, generatedAt time.Time) []alerting.Alert {
	alerts := []alerting.Alert{}

	add := func(alertType enums.AlertType, severity enums.AlertSeverity, title, message string, entityID *uuid.UUID) {
		alerts = append(alerts, alerting.Alert{
			ID:         uuid.New(),
			CompanyID:  companyID,
			Type:       alertType,
			Severity:   severity,
			Title:      title,
			Message:    message,
			EntityID:   entityID,
			OccurredAt: generatedAt,
		})
	}

	if snap.SLASummary.Available {
		if breached := snap.SLASummary.Counts[enums.SLAStatusBreached]; breached > 0 {
			add(enums.AlertTypeSLABreach, enums.AlertSeverityCritical,
				"SLA breaches predicted",
				fmt.Sprintf("%d active orders are predicted to breach their promised dates", breached), nil)
		}
		if critical := snap.SLASummary.Counts[enums.SLAStatusCritical]; critical > 0 {
			add(enums.AlertTypeSLARisk, enums.AlertSeverityWarning,
				"Orders at critical SLA risk",
				fmt.Sprintf("%d active orders are at critical risk of missing their promised dates", critical), nil)
		}
	}

	if snap.DayPerformance.Available {
		for _, metric := range []enums.DayMetric{enums.DayMetricD0, enums.DayMetricD1, enums.DayMetricD2} {
			prediction, ok := snap.DayPerformance.Metrics[metric]
			if !ok || prediction.TotalOrders == 0 {
				continue
			}
			switch prediction.Status {
			case enums.PerformanceStatusCritical:
				add(enums.AlertTypeDayTargetMiss, enums.AlertSeverityCritical,
					fmt.Sprintf("%s performance critically below target", metric),
					fmt.Sprintf("predicted %.1f%% on-time against a %.1f%% target", prediction.PredictedPercentage, prediction.TargetPercentage), nil)
			case enums.PerformanceStatusBelowTarget:
				add(enums.AlertTypeDayTargetMiss, enums.AlertSeverityWarning,
					fmt.Sprintf("%s performance below target", metric),
					fmt.Sprintf("predicted %.1f%% on-time against a %.1f%% target", prediction.PredictedPercentage, prediction.TargetPercentage), nil)
			}
		}
	}

	if snap.Capacity.Available {
		for _, location := range snap.Capacity.Locations {
			if location.Status != enums.CapacityStatusOverloaded {
				continue
			}
			locationID := location.LocationID
			message := fmt.Sprintf("predicted volume of %d orders exceeds available capacity", location.PredictedOrderVolume)
			if location.Bottleneck != enums.FulfillmentStageNone {
				message = fmt.Sprintf("%s; bottleneck at %s", message, location.Bottleneck)
			}
			add(enums.AlertTypeCapacityOverload, enums.AlertSeverityCritical,
				"Warehouse predicted overloaded", message, &locationID)
		}
	}

	if snap.Anomalies.Available {
		for _, profile := range snap.Anomalies.Orders {
			if profile.Severity != enums.RiskSeverityCritical {
				continue
			}
			orderID := profile.OrderID
			add(enums.AlertTypeOrderRisk, enums.AlertSeverityCritical,
				"Critical-risk order detected",
				fmt.Sprintf("order scored %.0f; recommended action %s", profile.RiskScore, profile.Action), &orderID)
		}
	}

	if snap.CarrierHealth.Available {
		for _, carrier := range snap.CarrierHealth.Carriers {
			if !carrier.Degraded {
				continue
			}
			transporterID := carrier.TransporterID
			add(enums.AlertTypeCarrierDegraded, enums.AlertSeverityWarning,
				fmt.Sprintf("Carrier %s delivery rate degraded", carrier.Code),
				fmt.Sprintf("on-time rate %.0f%% over recent deliveries with %d shipments in flight", carrier.OnTimeRate*100, carrier.InFlight), &transporterID)
		}
	}

	if snap.InventoryHealth.Available {
		for _, location := range snap.InventoryHealth.Locations {
			if location.OutOfStock == 0 {
				continue
			}
			locationID := location.LocationID
			add(enums.AlertTypeStockout, enums.AlertSeverityWarning,
				"SKUs out of stock",
				fmt.Sprintf("%d SKUs out of stock, %d below reorder level", location.OutOfStock, location.LowStock), &locationID)
		}
	}

	return alerts
}
