package analytics

import (
	"context"
	"fmt"
	"strings"

	cloudbigquery "cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/metricstore"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/bigquery"
	pkgerrors "github.com/mantoshmedhansh-dot/lsp-backend/pkg/errors"
	"google.golang.org/api/iterator"
)

const orderValueStatsSQL = `
SELECT
  AVG(total_amount) AS avg_value,
  STDDEV_POP(total_amount) AS stddev_value,
  COUNT(*) AS sample_size
FROM %s
WHERE company_id = @companyID
  AND created_at >= TIMESTAMP_SUB(CURRENT_TIMESTAMP(), INTERVAL @windowDays DAY)
`

// StatsService answers order-value distribution queries from the order facts
// table. It satisfies metricstore.StatsProvider.
type StatsService struct {
	client   *bigquery.Client
	tableRef string
}

// NewStatsService builds a stats service backed by BigQuery.
func NewStatsService(client *bigquery.Client, project, dataset, table string) (*StatsService, error) {
	if client == nil {
		return nil, fmt.Errorf("bigquery client required")
	}
	if strings.TrimSpace(project) == "" || strings.TrimSpace(dataset) == "" || strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("project, dataset, and table are required")
	}
	return &StatsService{
		client:   client,
		tableRef: fmt.Sprintf("`%s.%s.%s`", project, dataset, table),
	}, nil
}

// OrderValueStats returns the mean, population standard deviation, and sample
// size of order values for the company over the trailing window.
func (s *StatsService) OrderValueStats(ctx context.Context, companyID uuid.UUID, windowDays int) (metricstore.PopulationStats, error) {
	if companyID == uuid.Nil {
		return metricstore.PopulationStats{}, pkgerrors.New(pkgerrors.CodeValidation, "company id required")
	}
	if windowDays <= 0 {
		return metricstore.PopulationStats{}, pkgerrors.New(pkgerrors.CodeValidation, "window days must be positive")
	}

	params := []cloudbigquery.QueryParameter{
		{Name: "companyID", Value: companyID.String()},
		{Name: "windowDays", Value: windowDays},
	}

	iter, err := s.client.Query(ctx, fmt.Sprintf(orderValueStatsSQL, s.tableRef), params)
	if err != nil {
		return metricstore.PopulationStats{}, fmt.Errorf("query order value stats: %w", err)
	}

	var row struct {
		AvgValue    cloudbigquery.NullFloat64 `bigquery:"avg_value"`
		StdDevValue cloudbigquery.NullFloat64 `bigquery:"stddev_value"`
		SampleSize  int64                     `bigquery:"sample_size"`
	}
	if err := iter.Next(&row); err != nil {
		if err == iterator.Done {
			return metricstore.PopulationStats{}, nil
		}
		return metricstore.PopulationStats{}, fmt.Errorf("reading stats row: %w", err)
	}

	stats := metricstore.PopulationStats{SampleSize: int(row.SampleSize)}
	if row.AvgValue.Valid {
		stats.AvgValue = row.AvgValue.Float64
	}
	if row.StdDevValue.Valid {
		stats.StdDevValue = row.StdDevValue.Float64
	}
	return stats, nil
}
