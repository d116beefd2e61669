package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/mantoshmedhansh-dot/lsp-backend/api/responses"
	pkgerrors "github.com/mantoshmedhansh-dot/lsp-backend/pkg/errors"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
)

type contextKey string

const ctxCompanyID contextKey = "company_id"

const companyIDHeader = "X-Company-Id"

func WithCompanyID(ctx context.Context, companyID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxCompanyID, companyID)
}

func CompanyIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxCompanyID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// CompanyContext requires a valid X-Company-Id header and scopes the
// request context and log fields to that company.
func CompanyContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(companyIDHeader)
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing X-Company-Id header"))
				return
			}

			companyID, err := uuid.Parse(raw)
			if err != nil || companyID == uuid.Nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid X-Company-Id header"))
				return
			}

			ctx := WithCompanyID(r.Context(), companyID)
			if logg != nil {
				ctx = logg.WithCompanyID(ctx, companyID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
