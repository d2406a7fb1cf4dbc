package http_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/retail-stock/internal/domain"
	apphttp "github.com/jhoicas/retail-stock/internal/interfaces/http"
)

func TestErrorBody(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domain.NewValidationError("name", "is required"), http.StatusBadRequest, "VALIDATION"},
		{"wrapped stock", fmt.Errorf("record sale: %w", &domain.InsufficientStockError{ItemCode: "ITM001", Available: 1, Requested: 4}), http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"invariant", domain.NewInvariantViolation("status", "cannot move a Cancelled order to Received"), http.StatusUnprocessableEntity, "INVARIANT_VIOLATION"},
		{"not found", domain.NotFound("item", "ITM404"), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", domain.Conflict("commit transaction", nil), http.StatusServiceUnavailable, "CONCURRENCY_CONFLICT"},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"cancelled", context.Canceled, http.StatusServiceUnavailable, "CANCELLED"},
		{"other", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := apphttp.ErrorBody(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestErrorBodyCarriesQuantities(t *testing.T) {
	_, body := apphttp.ErrorBody(&domain.InsufficientStockError{ItemCode: "ITM001", Available: 3, Requested: 5})
	if assert.NotNil(t, body.Available) && assert.NotNil(t, body.Requested) {
		assert.Equal(t, 3, *body.Available)
		assert.Equal(t, 5, *body.Requested)
	}
	assert.Contains(t, body.Message, "3 available, 5 requested")
}

func TestErrorBodyNeverLeaksInternalErrors(t *testing.T) {
	_, body := apphttp.ErrorBody(errors.New("pq: password authentication failed for user postgres"))
	assert.NotContains(t, body.Message, "password")
}
