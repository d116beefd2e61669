package controllers

import (
	"net/http"

	"github.com/mantoshmedhansh-dot/lsp-backend/api/middleware"
	"github.com/mantoshmedhansh-dot/lsp-backend/api/responses"
	"github.com/mantoshmedhansh-dot/lsp-backend/api/validators"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/risk"
	pkgerrors "github.com/mantoshmedhansh-dot/lsp-backend/pkg/errors"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
)

// RiskScan scores recent orders and returns those at or above the
// minimum score. Zero-valued parameters fall back to configured defaults.
func RiskScan(scanner *risk.Scanner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if scanner == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "risk scanner unavailable"))
			return
		}

		windowHours, err := validators.ParseQueryInt(r, "window_hours", 0, 0, 24*30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		minScore, err := validators.ParseQueryFloat(r, "min_score", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		companyID := middleware.CompanyIDFromContext(r.Context())
		profiles, err := scanner.ScanRecent(r.Context(), companyID, windowHours, minScore, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"count":    len(profiles),
			"profiles": profiles,
		})
	}
}
