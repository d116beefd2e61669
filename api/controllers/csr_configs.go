package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mantoshmedhansh-dot/lsp-backend/api/middleware"
	"github.com/mantoshmedhansh-dot/lsp-backend/api/responses"
	"github.com/mantoshmedhansh-dot/lsp-backend/api/validators"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/allocation"
	pkgerrors "github.com/mantoshmedhansh-dot/lsp-backend/pkg/errors"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
)

type saveCSRConfigRequest struct {
	ConfigID          *uuid.UUID `json:"config_id"`
	Name              string     `json:"name" validate:"required,min=1,max=255"`
	CostWeight        float64    `json:"cost_weight" validate:"min=0,max=1"`
	SpeedWeight       float64    `json:"speed_weight" validate:"min=0,max=1"`
	ReliabilityWeight float64    `json:"reliability_weight" validate:"min=0,max=1"`
	IsDefault         bool       `json:"is_default"`
}

// SaveCSRConfig creates a weight config, or updates one when config_id
// is set. Weights must sum to 1; the service enforces the tolerance.
func SaveCSRConfig(svc allocation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "allocation service unavailable"))
			return
		}

		var body saveCSRConfigRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		config, err := svc.SaveCSRConfig(r.Context(), allocation.SaveCSRConfigInput{
			ConfigID:          body.ConfigID,
			CompanyID:         middleware.CompanyIDFromContext(r.Context()),
			Name:              body.Name,
			CostWeight:        body.CostWeight,
			SpeedWeight:       body.SpeedWeight,
			ReliabilityWeight: body.ReliabilityWeight,
			IsDefault:         body.IsDefault,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusOK
		if body.ConfigID == nil {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, config)
	}
}

// ListCSRConfigs returns the company's CSR weight configs.
func ListCSRConfigs(svc allocation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "allocation service unavailable"))
			return
		}

		configs, err := svc.ListCSRConfigs(r.Context(), middleware.CompanyIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"configs": configs})
	}
}
