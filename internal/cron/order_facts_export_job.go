package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
)

const defaultExportLookback = 24 * time.Hour

type factExporter interface {
	Export(ctx context.Context, companyID uuid.UUID, from, to time.Time) (int, error)
}

// OrderFactsExportJobParams configure the BigQuery fact export job.
type OrderFactsExportJobParams struct {
	Logger    *logger.Logger
	Companies companyLister
	Exporter  factExporter
	Lookback  time.Duration
}

// NewOrderFactsExportJob builds the cron job that streams recently closed
// orders into the analytics order_facts table.
func NewOrderFactsExportJob(params OrderFactsExportJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Companies == nil {
		return nil, fmt.Errorf("company lister required")
	}
	if params.Exporter == nil {
		return nil, fmt.Errorf("exporter required")
	}
	lookback := params.Lookback
	if lookback <= 0 {
		lookback = defaultExportLookback
	}
	return &orderFactsExportJob{
		logg:      params.Logger,
		companies: params.Companies,
		exporter:  params.Exporter,
		lookback:  lookback,
	}, nil
}

type orderFactsExportJob struct {
	logg      *logger.Logger
	companies companyLister
	exporter  factExporter
	lookback  time.Duration
}

func (j *orderFactsExportJob) Name() string { return "order_facts_export" }

func (j *orderFactsExportJob) Run(ctx context.Context) error {
	companyIDs, err := j.companies.ListCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("listing companies: %w", err)
	}

	to := time.Now().UTC()
	from := to.Add(-j.lookback)

	var errs error
	exported := 0
	for _, companyID := range companyIDs {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		written, err := j.exporter.Export(ctx, companyID, from, to)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("exporting company %s: %w", companyID, err))
			continue
		}
		exported += written
	}

	logCtx := j.logg.WithField(ctx, "facts_exported", exported)
	j.logg.Info(logCtx, "order facts export complete")
	return errs
}
