package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/mantoshmedhansh-dot/lsp-backend/internal/alerting"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/risk"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
)

type anomalyScanner interface {
	ScanRecent(ctx context.Context, companyID uuid.UUID, windowHours int, minScore float64, limit int) ([]risk.Profile, error)
}

type alertPublisher interface {
	PublishBatch(ctx context.Context, alerts []alerting.Alert) error
}

// AnomalySweepJobParams configure the recurring risk sweep.
type AnomalySweepJobParams struct {
	Logger    *logger.Logger
	Companies companyLister
	Scanner   anomalyScanner
	Publisher alertPublisher
}

// NewAnomalySweepJob builds the cron job that scans recent orders and
// publishes alerts for HIGH and CRITICAL risk profiles.
func NewAnomalySweepJob(params AnomalySweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Companies == nil {
		return nil, fmt.Errorf("company lister required")
	}
	if params.Scanner == nil {
		return nil, fmt.Errorf("scanner required")
	}
	if params.Publisher == nil {
		return nil, fmt.Errorf("alert publisher required")
	}
	return &anomalySweepJob{
		logg:      params.Logger,
		companies: params.Companies,
		scanner:   params.Scanner,
		publisher: params.Publisher,
	}, nil
}

type anomalySweepJob struct {
	logg      *logger.Logger
	companies companyLister
	scanner   anomalyScanner
	publisher alertPublisher
}

func (j *anomalySweepJob) Name() string { return "anomaly_sweep" }

func (j *anomalySweepJob) Run(ctx context.Context) error {
	companyIDs, err := j.companies.ListCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("listing companies: %w", err)
	}

	var errs error
	published := 0
	for _, companyID := range companyIDs {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		profiles, err := j.scanner.ScanRecent(ctx, companyID, 0, 0, 0)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("scanning company %s: %w", companyID, err))
			continue
		}

		alerts := alertsForProfiles(companyID, profiles)
		if len(alerts) == 0 {
			continue
		}
		if err := j.publisher.PublishBatch(ctx, alerts); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("publishing for company %s: %w", companyID, err))
			continue
		}
		published += len(alerts)
	}

	logCtx := j.logg.WithField(ctx, "alerts_published", published)
	j.logg.Info(logCtx, "anomaly sweep complete")
	return errs
}

func alertsForProfiles(companyID uuid.UUID, profiles []risk.Profile) []alerting.Alert {
	var alerts []alerting.Alert
	for _, profile := range profiles {
		var severity enums.AlertSeverity
		switch profile.Severity {
		case enums.RiskSeverityCritical:
			severity = enums.AlertSeverityCritical
		case enums.RiskSeverityHigh:
			severity = enums.AlertSeverityWarning
		default:
			continue
		}
		orderID := profile.OrderID
		alerts = append(alerts, alerting.Alert{
			CompanyID: companyID,
			Type:      enums.AlertTypeOrderRisk,
			Severity:  severity,
			Title:     fmt.Sprintf("Order flagged %s risk", profile.Severity),
			Message:   fmt.Sprintf("order scored %.0f; recommended action %s", profile.RiskScore, profile.Action),
			EntityID:  &orderID,
		})
	}
	return alerts
}
