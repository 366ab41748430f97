// Package metrics exposes prometheus counters for the transfer engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for slot transfers. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Transfers by outcome: "moved", "copied", "external", "cancelled", "same_location", "failed"
	Transfers *prometheus.CounterVec

	// Drops by path: "single", "multi", "import", "directory", "forwarded"
	Drops *prometheus.CounterVec

	// Records dropped from a multi-slot batch because the walk ran out of slots
	Unplaced prometheus.Counter

	// Temp file deletions by result: "deleted", "superseded", "missing", "failed"
	TempDeletes *prometheus.CounterVec

	// Time spent blocked in the transport
	TransportLatency prometheus.Histogram
}

// New registers the transfer metrics with reg. Passing nil registers with
// the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Transfers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "slotshift_transfers_total",
			Help: "Total drag transfers by outcome",
		}, []string{"outcome"}),

		Drops: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "slotshift_drops_total",
			Help: "Total drops handled by path",
		}, []string{"path"}),

		Unplaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "slotshift_unplaced_records_total",
			Help: "Total records left unplaced by multi-slot drops",
		}),

		TempDeletes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "slotshift_temp_deletes_total",
			Help: "Total scheduled temp file deletions by result",
		}, []string{"result"}),

		TransportLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "slotshift_transport_duration_seconds",
			Help:    "Duration of the blocking transport call",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// IncTransfer records a finished transfer.
func (m *Metrics) IncTransfer(outcome string) {
	if m != nil {
		m.Transfers.WithLabelValues(outcome).Inc()
	}
}

// IncDrop records a handled drop.
func (m *Metrics) IncDrop(path string) {
	if m != nil {
		m.Drops.WithLabelValues(path).Inc()
	}
}

// AddUnplaced records records that a multi-slot drop could not place.
func (m *Metrics) AddUnplaced(n int) {
	if m != nil && n > 0 {
		m.Unplaced.Add(float64(n))
	}
}

// IncTempDelete records the result of a scheduled deletion.
func (m *Metrics) IncTempDelete(result string) {
	if m != nil {
		m.TempDeletes.WithLabelValues(result).Inc()
	}
}

// ObserveTransport records how long the transport blocked.
func (m *Metrics) ObserveTransport(d time.Duration) {
	if m != nil {
		m.TransportLatency.Observe(d.Seconds())
	}
}
