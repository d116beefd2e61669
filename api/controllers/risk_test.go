package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mantoshmedhansh-dot/lsp-backend/internal/metricstore"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/types"
)

func scanReadyStore(orders []metricstore.OrderSnapshot) *stubMetricStore {
	store := &stubMetricStore{
		statsFn: func(context.Context, uuid.UUID, int) (metricstore.PopulationStats, error) {
			return metricstore.PopulationStats{AvgValue: 1000, StdDevValue: 250, SampleSize: 400}, nil
		},
		historyFn: func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, int) ([]metricstore.OrderSnapshot, error) {
			return nil, nil
		},
		velocityFn: func(context.Context, uuid.UUID, uuid.UUID, string, time.Time) (metricstore.CustomerVelocity, error) {
			return metricstore.CustomerVelocity{}, nil
		},
	}
	store.listRecentFn = func(context.Context, uuid.UUID, time.Time, int) ([]metricstore.OrderSnapshot, error) {
		return orders, nil
	}
	return store
}

func TestRiskScanReturnsProfiles(t *testing.T) {
	order := pendingOrder(uuid.New())
	store := scanReadyStore([]metricstore.OrderSnapshot{*order})

	rec := httptest.NewRecorder()
	req := companyRequest(http.MethodGet, "/api/v1/risk/scan?min_score=0", nil, nil)
	RiskScan(riskScannerForTest(t, store), controllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	data := envelope.Data.(map[string]any)
	if _, ok := data["count"]; !ok {
		t.Fatalf("expected count in payload, got %v", data)
	}
	if _, ok := data["profiles"]; !ok {
		t.Fatalf("expected profiles in payload, got %v", data)
	}
}

func TestRiskScanRejectsOutOfRangeLimit(t *testing.T) {
	store := scanReadyStore(nil)

	rec := httptest.NewRecorder()
	req := companyRequest(http.MethodGet, "/api/v1/risk/scan?limit=9999", nil, nil)
	RiskScan(riskScannerForTest(t, store), controllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRiskScanRejectsNonNumericWindow(t *testing.T) {
	store := scanReadyStore(nil)

	rec := httptest.NewRecorder()
	req := companyRequest(http.MethodGet, "/api/v1/risk/scan?window_hours=abc", nil, nil)
	RiskScan(riskScannerForTest(t, store), controllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
