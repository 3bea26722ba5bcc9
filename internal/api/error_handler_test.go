package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campusreg/registration-system/internal/core/domain"
)

func render(t *testing.T, err error) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	return rec, resp["error"]
}

func TestErrorHandler_DomainMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrRegistrationFailed, http.StatusBadRequest},
		{domain.ErrValidation, http.StatusBadRequest},
		{domain.ErrRateLimited, http.StatusTooManyRequests},
		{domain.ErrClassNotFound, http.StatusNotFound},
		{domain.ErrNotEnrolled, http.StatusNotFound},
		{domain.ErrUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		rec, _ := render(t, tc.err)
		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
	}

	// Wrapped sentinels map the same way.
	rec, _ := render(t, fmt.Errorf("drop: %w", domain.ErrNotEnrolled))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("wrapped sentinel: expected 404, got %d", rec.Code)
	}
}

func TestErrorHandler_DuplicateAndBadPasswordIndistinguishable(t *testing.T) {
	// ErrUserExists must never reach the handler, but if it ever does the
	// body still must not confirm the account: it falls through to the
	// generic 500 with no detail.
	rec, msg := render(t, domain.ErrUserExists)
	if strings.Contains(strings.ToLower(msg), "exists") || strings.Contains(strings.ToLower(msg), "taken") {
		t.Fatalf("message leaks account existence: %q", msg)
	}
	if rec.Code == http.StatusConflict {
		t.Fatalf("a 409 would confirm the account exists")
	}
}

func TestErrorHandler_UnexpectedStaysGeneric(t *testing.T) {
	rec, msg := render(t, errors.New("mongo: connection pool exhausted at 10.0.0.4:27017"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}

func TestErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	rec, msg := render(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg != "invalid payload" {
		t.Fatalf("unexpected message: %q", msg)
	}
}
