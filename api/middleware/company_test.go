package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestCompanyContextRequiresHeader(t *testing.T) {
	handler := CompanyContext(nil)(okHandler())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCompanyContextRejectsMalformedID(t *testing.T) {
	handler := CompanyContext(nil)(okHandler())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Company-Id", "not-a-uuid")
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCompanyContextPropagatesID(t *testing.T) {
	companyID := uuid.New()

	var got uuid.UUID
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CompanyIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := CompanyContext(nil)(inner)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Company-Id", companyID.String())
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got != companyID {
		t.Fatalf("expected company %s in context, got %s", companyID, got)
	}
}
