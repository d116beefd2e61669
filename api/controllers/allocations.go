package controllers

import (
	"net/http"

	"github.com/mantoshmedhansh-dot/lsp-backend/api/middleware"
	"github.com/mantoshmedhansh-dot/lsp-backend/api/responses"
	"github.com/mantoshmedhansh-dot/lsp-backend/api/validators"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/allocation"
	pkgerrors "github.com/mantoshmedhansh-dot/lsp-backend/pkg/errors"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
)

// AllocateShipment runs the allocation engine for one shipment and
// returns the winning transporter with its scoring breakdown.
func AllocateShipment(svc allocation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "allocation service unavailable"))
			return
		}

		shipmentID, err := validators.ParseUUIDParam(r, "shipmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		companyID := middleware.CompanyIDFromContext(r.Context())
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithShipmentID(ctx, shipmentID.String())
		}

		result, err := svc.AllocateShipment(ctx, companyID, shipmentID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ListAllocationDecisions returns the audit trail for one shipment.
func ListAllocationDecisions(svc allocation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "allocation service unavailable"))
			return
		}

		shipmentID, err := validators.ParseUUIDParam(r, "shipmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		companyID := middleware.CompanyIDFromContext(r.Context())
		decisions, err := svc.ListDecisions(r.Context(), companyID, shipmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"decisions": decisions})
	}
}
