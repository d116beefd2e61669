package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/mantoshmedhansh-dot/lsp-backend/internal/controltower"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
)

type companyLister interface {
	ListCompanyIDs(ctx context.Context) ([]uuid.UUID, error)
}

type snapshotRefresher interface {
	Refresh(ctx context.Context, companyID uuid.UUID) (*controltower.Snapshot, error)
}

// SnapshotRefreshJobParams configure the snapshot warm-up job.
type SnapshotRefreshJobParams struct {
	Logger    *logger.Logger
	Companies companyLister
	Snapshots snapshotRefresher
}

// NewSnapshotRefreshJob builds the cron job that rebuilds the cached
// control-tower snapshot for every active company.
func NewSnapshotRefreshJob(params SnapshotRefreshJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Companies == nil {
		return nil, fmt.Errorf("company lister required")
	}
	if params.Snapshots == nil {
		return nil, fmt.Errorf("snapshot service required")
	}
	return &snapshotRefreshJob{
		logg:      params.Logger,
		companies: params.Companies,
		snapshots: params.Snapshots,
	}, nil
}

type snapshotRefreshJob struct {
	logg      *logger.Logger
	companies companyLister
	snapshots snapshotRefresher
}

func (j *snapshotRefreshJob) Name() string { return "snapshot_refresh" }

func (j *snapshotRefreshJob) Run(ctx context.Context) error {
	companyIDs, err := j.companies.ListCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("listing companies: %w", err)
	}

	var errs error
	refreshed := 0
	for _, companyID := range companyIDs {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		if _, err := j.snapshots.Refresh(ctx, companyID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("company %s: %w", companyID, err))
			continue
		}
		refreshed++
	}

	logCtx := j.logg.WithField(ctx, "companies_refreshed", refreshed)
	j.logg.Info(logCtx, "snapshot refresh pass complete")
	return errs
}
