package metrics

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/retail-stock/internal/application/inventory"
	"github.com/jhoicas/retail-stock/internal/domain"
)

var _ inventory.Observer = (*Metrics)(nil)

// Metrics counts atomic unit outcomes. It is registered as a UnitOfWork observer.
type Metrics struct {
	committed *prometheus.CounterVec
	retries   *prometheus.CounterVec
	rejected  *prometheus.CounterVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// New registers the collectors against registerer, or the default registerer when nil.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = build(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return build(registerer)
}

func build(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		committed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "retail_stock",
			Name:      "units_committed_total",
			Help:      "Atomic units committed, by operation.",
		}, []string{"op"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "retail_stock",
			Name:      "unit_retries_total",
			Help:      "Units rolled back and retried after a concurrency conflict.",
		}, []string{"op"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "retail_stock",
			Name:      "units_rejected_total",
			Help:      "Units that returned an error, by operation and error kind.",
		}, []string{"op", "kind"}),
	}
	registerer.MustRegister(m.committed, m.retries, m.rejected)
	return m
}

func (m *Metrics) Committed(_ context.Context, op string) {
	if m == nil {
		return
	}
	m.committed.WithLabelValues(op).Inc()
}

func (m *Metrics) Retried(op string, _ int) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(op).Inc()
}

func (m *Metrics) Rejected(op string, err error) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(op, Kind(err)).Inc()
}

// Kind maps err to a low-cardinality label.
func Kind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvariantViolation):
		return "invariant_violation"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return "concurrency_conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
