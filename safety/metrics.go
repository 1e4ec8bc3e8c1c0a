package safety

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics optionally exposes quota pressure to Prometheus. A session
// that never wires a Metrics (the common case for an embedded
// library) pays nothing beyond a nil check per call.
type Metrics struct {
	instructions    prometheus.Counter
	recursionDepth  prometheus.Gauge
	loopDepth       prometheus.Gauge
	memoryEstimate  prometheus.Gauge
	outputBytes     prometheus.Counter
}

// NewMetrics registers a fresh set of gauges/counters under the given
// namespace so an embedding running many sessions can scrape quota
// pressure across all of them without colliding metric names; pass a
// distinct namespace per session id, or share one Metrics across
// sessions when per-session granularity isn't needed.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		instructions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ellex_instructions_total",
			Help:      "Total instructions ticked by the safety monitor.",
		}),
		recursionDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ellex_recursion_depth",
			Help:      "Current active call-frame depth.",
		}),
		loopDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ellex_loop_depth",
			Help:      "Current nested repeat-loop depth.",
		}),
		memoryEstimate: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ellex_memory_estimate_bytes",
			Help:      "Additive memory estimate tracked by the safety monitor.",
		}),
		outputBytes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ellex_output_bytes_total",
			Help:      "Total output bytes emitted via tell.",
		}),
	}
}
