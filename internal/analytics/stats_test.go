package analytics

import (
	"testing"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/bigquery"
)

func TestNewStatsServiceRequiresClient(t *testing.T) {
	if _, err := NewStatsService(nil, "project", "dataset", "table"); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestNewStatsServiceRequiresTableParts(t *testing.T) {
	client := &bigquery.Client{}
	for _, tc := range []struct {
		name                    string
		project, dataset, table string
	}{
		{"missing project", "", "dataset", "table"},
		{"missing dataset", "project", " ", "table"},
		{"missing table", "project", "dataset", ""},
	} {
		if _, err := NewStatsService(client, tc.project, tc.dataset, tc.table); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestNewStatsServiceBuildsTableRef(t *testing.T) {
	svc, err := NewStatsService(&bigquery.Client{}, "proj", "lsp_analytics", "order_facts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.tableRef != "`proj.lsp_analytics.order_facts`" {
		t.Fatalf("unexpected table ref %s", svc.tableRef)
	}
}
