package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code       Code
		wantStatus int
		retryable  bool
	}{
		{CodeValidation, http.StatusBadRequest, false},
		{CodeConfiguration, http.StatusBadRequest, false},
		{CodeUnallocated, http.StatusUnprocessableEntity, false},
		{CodeDataUnavailable, http.StatusServiceUnavailable, true},
		{CodeDependency, http.StatusServiceUnavailable, true},
		{CodeInternal, http.StatusInternalServerError, true},
	}
	for _, tc := range cases {
		meta := MetadataFor(tc.code)
		if meta.HTTPStatus != tc.wantStatus {
			t.Fatalf("%s: status = %d, want %d", tc.code, meta.HTTPStatus, tc.wantStatus)
		}
		if meta.Retryable != tc.retryable {
			t.Fatalf("%s: retryable = %v, want %v", tc.code, meta.Retryable, tc.retryable)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown code should map to internal, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDataUnavailable, cause, "reading orders")

	if !stdErrors.Is(wrapped, cause) {
		t.Fatal("wrapped error should match its cause via errors.Is")
	}
	if As(fmt.Errorf("outer: %w", wrapped)) == nil {
		t.Fatal("As should locate *Error through a wrap chain")
	}
	if wrapped.Code() != CodeDataUnavailable {
		t.Fatalf("code = %s, want %s", wrapped.Code(), CodeDataUnavailable)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeConfiguration, "weights must sum to 1").
		WithDetails(map[string]any{"sum": 1.2})
	if err.Details() == nil {
		t.Fatal("details should round-trip")
	}
}

func TestDumpIncludesChain(t *testing.T) {
	err := Wrap(CodeUnallocated, stdErrors.New("no rule matched"), "allocation failed")
	dump := Dump(err)
	if dump.Code != CodeUnallocated {
		t.Fatalf("dump code = %s", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", dump.Chain)
	}
}
