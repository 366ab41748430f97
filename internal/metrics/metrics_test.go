package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncTransfer("moved")
		m.IncDrop("single")
		m.AddUnplaced(3)
		m.IncTempDelete("deleted")
		m.ObserveTransport(time.Second)
	})
}

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncTransfer("moved")
	m.IncTransfer("moved")
	m.IncTempDelete("superseded")
	m.AddUnplaced(2)
	m.AddUnplaced(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transfers.WithLabelValues("moved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TempDeletes.WithLabelValues("superseded")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Unplaced))
}

func TestSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
