package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mantoshmedhansh-dot/lsp-backend/api/middleware"
	"github.com/mantoshmedhansh-dot/lsp-backend/api/responses"
	"github.com/mantoshmedhansh-dot/lsp-backend/api/validators"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/allocation"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db/models"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
	pkgerrors "github.com/mantoshmedhansh-dot/lsp-backend/pkg/errors"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
)

type saveRuleRequest struct {
	RuleID                *uuid.UUID             `json:"rule_id"`
	Code                  string                 `json:"code" validate:"required,min=1,max=64"`
	Name                  string                 `json:"name" validate:"required,min=1,max=255"`
	Priority              int                    `json:"priority" validate:"min=0"`
	ShipmentTypeFilter    *enums.ShipmentType    `json:"shipment_type_filter"`
	Conditions            []models.RuleCondition `json:"conditions"`
	FixedTransporterID    *uuid.UUID             `json:"fixed_transporter_id"`
	UseCSRScoring         bool                   `json:"use_csr_scoring"`
	CSRConfigID           *uuid.UUID             `json:"csr_config_id"`
	FallbackTransporterID *uuid.UUID             `json:"fallback_transporter_id"`
}

// SaveAllocationRule creates a rule, or updates one when rule_id is set.
func SaveAllocationRule(svc allocation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "allocation service unavailable"))
			return
		}

		var body saveRuleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rule, err := svc.SaveRule(r.Context(), allocation.SaveRuleInput{
			RuleID:                body.RuleID,
			CompanyID:             middleware.CompanyIDFromContext(r.Context()),
			Code:                  body.Code,
			Name:                  body.Name,
			Priority:              body.Priority,
			ShipmentTypeFilter:    body.ShipmentTypeFilter,
			Conditions:            body.Conditions,
			FixedTransporterID:    body.FixedTransporterID,
			UseCSRScoring:         body.UseCSRScoring,
			CSRConfigID:           body.CSRConfigID,
			FallbackTransporterID: body.FallbackTransporterID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusOK
		if body.RuleID == nil {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, rule)
	}
}

// ListAllocationRules returns the company's rules ordered by priority.
func ListAllocationRules(svc allocation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "allocation service unavailable"))
			return
		}

		includeInactive := r.URL.Query().Get("include_inactive") == "true"
		rules, err := svc.ListRules(r.Context(), middleware.CompanyIDFromContext(r.Context()), includeInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"rules": rules})
	}
}

// DeactivateAllocationRule soft-deletes a rule so past decisions keep a
// valid audit reference.
func DeactivateAllocationRule(svc allocation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "allocation service unavailable"))
			return
		}

		ruleID, err := validators.ParseUUIDParam(r, "ruleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeactivateRule(r.Context(), middleware.CompanyIDFromContext(r.Context()), ruleID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
