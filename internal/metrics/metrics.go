// internal/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wakala"

// Outcome labels shared by the counters below.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the Prometheus collectors exported by the ledger process.
type Metrics struct {
	LedgerOperations *prometheus.CounterVec   // op, outcome
	LedgerDuration   *prometheus.HistogramVec // op
	LockWait         prometheus.Histogram
	SweepItems       *prometheus.CounterVec // pass, outcome
	SweepDuration    prometheus.Histogram
	EventsPublished  *prometheus.CounterVec // type
}

// New creates the collectors and registers them with reg.
// A nil Registerer creates unregistered collectors, which is what tests use.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LedgerOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Balance-mutating ledger operations by outcome.",
		}, []string{"op", "outcome"}),
		LedgerDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Time spent inside a ledger operation, lock wait included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		LockWait: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting for a group lock.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}),
		SweepItems: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "sweep_items_total",
			Help:      "Items handled by lifecycle sweep passes by outcome.",
		}, []string{"pass", "outcome"}),
		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of a full lifecycle sweep.",
			Buckets:   prometheus.DefBuckets,
		}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Domain events handed to subscribers.",
		}, []string{"type"}),
	}
}

// ObserveLedger records one ledger operation.
func (m *Metrics) ObserveLedger(op string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.LedgerOperations.WithLabelValues(op, outcome).Inc()
	m.LedgerDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// ObserveLockWait records how long a caller waited for a group lock.
func (m *Metrics) ObserveLockWait(d time.Duration) {
	if m == nil {
		return
	}
	m.LockWait.Observe(d.Seconds())
}

// SweepItem counts one item of a sweep pass.
func (m *Metrics) SweepItem(pass string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.SweepItems.WithLabelValues(pass, outcome).Inc()
}

// ObserveSweep records the duration of a full sweep.
func (m *Metrics) ObserveSweep(d time.Duration) {
	if m == nil {
		return
	}
	m.SweepDuration.Observe(d.Seconds())
}

// EventPublished counts an event handed to the bus.
func (m *Metrics) EventPublished(eventType string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(eventType).Inc()
}
