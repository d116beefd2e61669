package controllers

import (
	"net/http"
	"time"

	"github.com/mantoshmedhansh-dot/lsp-backend/api/middleware"
	"github.com/mantoshmedhansh-dot/lsp-backend/api/responses"
	"github.com/mantoshmedhansh-dot/lsp-backend/api/validators"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/metricstore"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/prediction/sla"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/risk"
	pkgerrors "github.com/mantoshmedhansh-dot/lsp-backend/pkg/errors"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
)

// OrderSLA computes an on-demand breach prediction for one order.
func OrderSLA(store metricstore.Store, predictor *sla.Predictor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil || predictor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sla predictor unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		companyID := middleware.CompanyIDFromContext(r.Context())
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, orderID.String())
		}

		order, err := store.FindOrder(ctx, companyID, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var carrier *sla.CarrierProfile
		if order.AssignedTransporterID != nil {
			transporter, err := store.FindTransporter(ctx, companyID, *order.AssignedTransporterID)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			carrier = &sla.CarrierProfile{
				MetroHours:    transporter.MetroTransitHours,
				NonMetroHours: transporter.NonMetroTransitHours,
				RemoteHours:   transporter.RemoteTransitHours,
			}
		}

		prediction := predictor.Predict(*order, carrier, time.Now().UTC())
		responses.WriteSuccess(w, prediction)
	}
}

// OrderRisk scores one order against the company's order population.
func OrderRisk(scanner *risk.Scanner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if scanner == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "risk scanner unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		companyID := middleware.CompanyIDFromContext(r.Context())
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, orderID.String())
		}

		profile, err := scanner.ScoreOrder(ctx, companyID, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}
