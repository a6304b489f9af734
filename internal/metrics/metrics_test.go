// internal/metrics/metrics_test.go
package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue sums the samples of a gathered counter family matching labels.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metricLoop:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metricLoop
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestMetrics(t *testing.T) {
	t.Run("RegistersCollectors", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := New(reg)

		m.ObserveLedger("contribution", time.Now(), nil)
		m.ObserveLedger("contribution", time.Now(), errors.New("boom"))
		m.SweepItem("loan_expiry", nil)
		m.EventPublished("loan.defaulted")

		assert.Equal(t, float64(1), counterValue(t, reg, "wakala_ledger_operations_total",
			map[string]string{"op": "contribution", "outcome": OutcomeOK}))
		assert.Equal(t, float64(1), counterValue(t, reg, "wakala_ledger_operations_total",
			map[string]string{"op": "contribution", "outcome": OutcomeError}))
		assert.Equal(t, float64(1), counterValue(t, reg, "wakala_scheduler_sweep_items_total",
			map[string]string{"pass": "loan_expiry"}))
		assert.Equal(t, float64(1), counterValue(t, reg, "wakala_events_published_total",
			map[string]string{"type": "loan.defaulted"}))
	})

	t.Run("DoubleRegistrationPanics", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		New(reg)
		assert.Panics(t, func() { New(reg) })
	})

	t.Run("NilReceiverIsNoop", func(t *testing.T) {
		var m *Metrics
		assert.NotPanics(t, func() {
			m.ObserveLedger("contribution", time.Now(), nil)
			m.ObserveLockWait(time.Millisecond)
			m.SweepItem("revaluation", nil)
			m.ObserveSweep(time.Second)
			m.EventPublished("group.upgraded")
		})
	})

	t.Run("UnregisteredForTests", func(t *testing.T) {
		assert.NotPanics(t, func() {
			New(nil)
			New(nil)
		})
	})
}
