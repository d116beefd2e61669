package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
)

const defaultDecisionRetention = 90 * 24 * time.Hour

type decisionPruner interface {
	DeleteDecisionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// DecisionRetentionJobParams configure the allocation audit pruning job.
type DecisionRetentionJobParams struct {
	Logger    *logger.Logger
	Decisions decisionPruner
	Retention time.Duration
}

// NewDecisionRetentionJob builds the cron job that prunes allocation
// decision audit rows past the retention window.
func NewDecisionRetentionJob(params DecisionRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Decisions == nil {
		return nil, fmt.Errorf("decision repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultDecisionRetention
	}
	return &decisionRetentionJob{
		logg:      params.Logger,
		decisions: params.Decisions,
		retention: retention,
	}, nil
}

type decisionRetentionJob struct {
	logg      *logger.Logger
	decisions decisionPruner
	retention time.Duration
}

func (j *decisionRetentionJob) Name() string { return "decision_retention" }

func (j *decisionRetentionJob) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-j.retention)
	deleted, err := j.decisions.DeleteDecisionsBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("pruning allocation decisions: %w", err)
	}

	logCtx := j.logg.WithField(ctx, "decisions_deleted", deleted)
	logCtx = j.logg.WithField(logCtx, "cutoff", cutoff.Format(time.RFC3339))
	j.logg.Info(logCtx, "decision retention pass complete")
	return nil
}
