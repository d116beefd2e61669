package analytics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/metricstore"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/bigquery"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultBatchSize      = 250
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 250 * time.Millisecond
	defaultMaximumBackoff = 2 * time.Second
)

// OrderFactRow is the streamed order_facts schema row.
type OrderFactRow struct {
	OrderID      string    `bigquery:"order_id"`
	CompanyID    string    `bigquery:"company_id"`
	CustomerID   string    `bigquery:"customer_id"`
	LocationID   string    `bigquery:"location_id"`
	Status       string    `bigquery:"status"`
	PaymentMode  string    `bigquery:"payment_mode"`
	TotalAmount  float64   `bigquery:"total_amount"`
	ItemCount    int       `bigquery:"item_count"`
	PromisedDate time.Time `bigquery:"promised_date"`
	CreatedAt    time.Time `bigquery:"created_at"`
	ClosedAt     time.Time `bigquery:"closed_at"`
}

type tableInserter interface {
	InsertRows(ctx context.Context, table string, rows []any) error
}

type orderSource interface {
	ListOrdersCreatedBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]metricstore.OrderSnapshot, error)
}

// ExporterConfig controls the order-facts exporter.
type ExporterConfig struct {
	Table       string
	BatchSize   int
	RetryPolicy RetryPolicy
}

// RetryPolicy controls how many times BigQuery inserts are retried.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaximumBackoff time.Duration
}

// Exporter streams closed orders into the order_facts table so the stats
// queries have a population to aggregate over.
type Exporter struct {
	client    tableInserter
	source    orderSource
	table     string
	batchSize int
	retry     RetryPolicy
}

// NewExporter creates an order-facts exporter backed by a shared client.
func NewExporter(client *bigquery.Client, source orderSource, cfg ExporterConfig) (*Exporter, error) {
	if client == nil {
		return nil, errors.New("bigquery client required")
	}
	if source == nil {
		return nil, errors.New("order source required")
	}
	table := strings.TrimSpace(cfg.Table)
	if table == "" {
		return nil, errors.New("order facts table is required")
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	retry := cfg.RetryPolicy
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = defaultMaxAttempts
	}
	if retry.InitialBackoff <= 0 {
		retry.InitialBackoff = defaultInitialBackoff
	}
	if retry.MaximumBackoff <= 0 {
		retry.MaximumBackoff = defaultMaximumBackoff
	}
	if retry.MaximumBackoff < retry.InitialBackoff {
		retry.MaximumBackoff = retry.InitialBackoff
	}

	return &Exporter{
		client:    client,
		source:    source,
		table:     table,
		batchSize: batchSize,
		retry:     retry,
	}, nil
}

// Export loads the company's orders created in [from, to) and streams the
// terminal ones as fact rows. Returns the number of rows written.
func (e *Exporter) Export(ctx context.Context, companyID uuid.UUID, from, to time.Time) (int, error) {
	if companyID == uuid.Nil {
		return 0, errors.New("company id required")
	}
	orders, err := e.source.ListOrdersCreatedBetween(ctx, companyID, from, to)
	if err != nil {
		return 0, fmt.Errorf("loading orders for export: %w", err)
	}

	rows := make([]any, 0, len(orders))
	for _, order := range orders {
		if !order.Status.IsTerminal() {
			continue
		}
		rows = append(rows, rowFromSnapshot(companyID, order))
	}
	if len(rows) == 0 {
		return 0, nil
	}

	written := 0
	for start := 0; start < len(rows); start += e.batchSize {
		end := start + e.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := e.insertWithRetry(ctx, rows[start:end]); err != nil {
			return written, err
		}
		written += end - start
	}
	return written, nil
}

func rowFromSnapshot(companyID uuid.UUID, order metricstore.OrderSnapshot) OrderFactRow {
	itemCount := 0
	for _, item := range order.Items {
		itemCount += item.Quantity
	}

	closedAt := order.CreatedAt
	if order.DeliveredAt != nil {
		closedAt = *order.DeliveredAt
	} else if order.CancelledAt != nil {
		closedAt = *order.CancelledAt
	}

	amount, _ := order.TotalAmount.Float64()
	return OrderFactRow{
		OrderID:      order.ID.String(),
		CompanyID:    companyID.String(),
		CustomerID:   order.CustomerID.String(),
		LocationID:   order.LocationID.String(),
		Status:       string(order.Status),
		PaymentMode:  string(order.PaymentMode),
		TotalAmount:  amount,
		ItemCount:    itemCount,
		PromisedDate: order.PromisedDate,
		CreatedAt:    order.CreatedAt,
		ClosedAt:     closedAt,
	}
}

func (e *Exporter) insertWithRetry(ctx context.Context, rows []any) error {
	backoff := e.retry.InitialBackoff
	var lastErr error
	for attempt := 1; attempt <= e.retry.MaxAttempts; attempt++ {
		lastErr = e.client.InsertRows(ctx, e.table, rows)
		if lastErr == nil {
			return nil
		}
		if !isTransient(lastErr) || attempt == e.retry.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > e.retry.MaximumBackoff {
			backoff = e.retry.MaximumBackoff
		}
	}
	return fmt.Errorf("inserting %d fact rows: %w", len(rows), lastErr)
}

func isTransient(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr != nil {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return true
	}
	return false
}
