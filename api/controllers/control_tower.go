package controllers

import (
	"net/http"

	"github.com/mantoshmedhansh-dot/lsp-backend/api/middleware"
	"github.com/mantoshmedhansh-dot/lsp-backend/api/responses"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/controltower"
	pkgerrors "github.com/mantoshmedhansh-dot/lsp-backend/pkg/errors"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
)

// ControlTowerSnapshot returns the company dashboard snapshot, served
// from cache when fresh. Pass refresh=true to force a rebuild.
func ControlTowerSnapshot(svc controltower.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "control tower service unavailable"))
			return
		}

		companyID := middleware.CompanyIDFromContext(r.Context())

		var (
			snap *controltower.Snapshot
			err  error
		)
		if r.URL.Query().Get("refresh") == "true" {
			snap, err = svc.Refresh(r.Context(), companyID)
		} else {
			snap, err = svc.Snapshot(r.Context(), companyID)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, snap)
	}
}
