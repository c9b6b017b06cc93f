package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/callsheet/production-system/internal/core/domain"
)

func TestHTTPErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"production not found", domain.ErrProductionNotFound, http.StatusNotFound},
		{"profile not found", domain.ErrProfileNotFound, http.StatusNotFound},
		{"entry not found", domain.ErrEntryNotFound, http.StatusNotFound},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"not authorized", domain.ErrNotAuthorized, http.StatusForbidden},
		{"last admin", domain.ErrLastAdmin, http.StatusConflict},
		{"concurrent update", domain.ErrConcurrentUpdate, http.StatusConflict},
		{"user exists", domain.ErrUserExists, http.StatusConflict},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"store unavailable", domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"wrapped domain error", fmt.Errorf("find production: %w", domain.ErrProductionNotFound), http.StatusNotFound},
		{"echo http error", echo.NewHTTPError(http.StatusTeapot, "teapot"), http.StatusTeapot},
		{"unexpected error", errors.New("boom"), http.StatusInternalServerError},
	}

	handle := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/v1/productions/prod_001", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handle(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Errorf("status: want %d, got %d", tc.wantCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), `"error"`) {
				t.Errorf("expected error envelope, got %s", rec.Body.String())
			}
		})
	}
}

func TestHTTPErrorHandler_UnexpectedErrorHidesCause(t *testing.T) {
	handle := NewHTTPErrorHandler(zerolog.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/productions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handle(errors.New("dial tcp 10.0.0.5:27017: connection refused"), c)

	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Errorf("internal detail leaked to client: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "internal server error") {
		t.Errorf("expected generic message, got %s", rec.Body.String())
	}
}

func TestHTTPErrorHandler_CommittedResponseUntouched(t *testing.T) {
	handle := NewHTTPErrorHandler(zerolog.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = c.NoContent(http.StatusOK)
	handle(errors.New("late failure"), c)

	if rec.Code != http.StatusOK {
		t.Errorf("committed response rewritten: got %d", rec.Code)
	}
}
