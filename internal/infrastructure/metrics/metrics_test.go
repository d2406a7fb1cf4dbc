package metrics_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/infrastructure/metrics"
)

func TestMetricsCountOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.Committed(context.Background(), "record_sale")
	m.Committed(context.Background(), "record_sale")
	m.Retried("record_sale", 1)
	m.Rejected("record_sale", &domain.InsufficientStockError{ItemCode: "ITM001", Available: 2, Requested: 5})

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 3)

	expected := `
# HELP retail_stock_units_committed_total Atomic units committed, by operation.
# TYPE retail_stock_units_committed_total counter
retail_stock_units_committed_total{op="record_sale"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "retail_stock_units_committed_total"))

	expected = `
# HELP retail_stock_units_rejected_total Units that returned an error, by operation and error kind.
# TYPE retail_stock_units_rejected_total counter
retail_stock_units_rejected_total{kind="insufficient_stock",op="record_sale"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "retail_stock_units_rejected_total"))
}

func TestKind(t *testing.T) {
	cases := map[string]error{
		"validation":           domain.NewValidationError("quantity", "must be positive"),
		"invariant_violation":  domain.NewInvariantViolation("status", "order already cancelled"),
		"concurrency_conflict": domain.Conflict("commit", nil),
		"not_found":            domain.NotFound("item", "ITM404"),
		"canceled":             fmt.Errorf("wrapped: %w", context.Canceled),
		"internal":             fmt.Errorf("boom"),
	}
	for want, err := range cases {
		assert.Equal(t, want, metrics.Kind(err), err.Error())
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.Committed(context.Background(), "create_item")
		m.Retried("create_item", 1)
		m.Rejected("create_item", domain.ErrNotFound)
	})
}
