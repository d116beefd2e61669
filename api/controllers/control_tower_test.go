package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mantoshmedhansh-dot/lsp-backend/internal/controltower"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/types"
)

type stubControlTowerService struct {
	snapshotFn func(context.Context, uuid.UUID) (*controltower.Snapshot, error)
	refreshFn  func(context.Context, uuid.UUID) (*controltower.Snapshot, error)
}

func (s *stubControlTowerService) Snapshot(ctx context.Context, companyID uuid.UUID) (*controltower.Snapshot, error) {
	return s.snapshotFn(ctx, companyID)
}

func (s *stubControlTowerService) Refresh(ctx context.Context, companyID uuid.UUID) (*controltower.Snapshot, error) {
	return s.refreshFn(ctx, companyID)
}

func TestControlTowerSnapshotServesCachedPath(t *testing.T) {
	snapshotCalled := false
	svc := &stubControlTowerService{
		snapshotFn: func(_ context.Context, companyID uuid.UUID) (*controltower.Snapshot, error) {
			snapshotCalled = true
			return &controltower.Snapshot{CompanyID: companyID, GeneratedAt: time.Now().UTC(), Source: "cache"}, nil
		},
		refreshFn: func(context.Context, uuid.UUID) (*controltower.Snapshot, error) {
			t.Fatal("refresh must not run without refresh=true")
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	req := companyRequest(http.MethodGet, "/api/v1/control-tower/snapshot", nil, nil)
	ControlTowerSnapshot(svc, controllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !snapshotCalled {
		t.Fatalf("expected snapshot path")
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	data := envelope.Data.(map[string]any)
	if data["source"] != "cache" {
		t.Fatalf("unexpected source %v", data["source"])
	}
}

func TestControlTowerSnapshotForcesRefresh(t *testing.T) {
	refreshCalled := false
	svc := &stubControlTowerService{
		snapshotFn: func(context.Context, uuid.UUID) (*controltower.Snapshot, error) {
			t.Fatal("snapshot must not run when refresh=true")
			return nil, nil
		},
		refreshFn: func(_ context.Context, companyID uuid.UUID) (*controltower.Snapshot, error) {
			refreshCalled = true
			return &controltower.Snapshot{CompanyID: companyID, GeneratedAt: time.Now().UTC(), Source: "live"}, nil
		},
	}

	rec := httptest.NewRecorder()
	req := companyRequest(http.MethodGet, "/api/v1/control-tower/snapshot?refresh=true", nil, nil)
	ControlTowerSnapshot(svc, controllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !refreshCalled {
		t.Fatalf("expected refresh path")
	}
}
