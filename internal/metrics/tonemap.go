// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus collectors for the tone-mapping
// pipeline. Registration is process-global via promauto; the embedding
// compositor decides where the registry is scraped or gathered.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for ToneMapOps.
const (
	OutcomeOK          = "ok"
	OutcomeUnsupported = "unsupported"
	OutcomeImportError = "import_error"
	OutcomeAccelError  = "accel_error"
)

var (
	// ToneMapOps counts tone-map operations by outcome.
	ToneMapOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hdrtone",
			Subsystem: "tonemap",
			Name:      "operations_total",
			Help:      "Total tone-map operations by outcome",
		},
		[]string{"outcome"},
	)

	// ToneMapDuration observes wall time per tone-map operation,
	// both accelerator passes included.
	ToneMapDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "hdrtone",
			Subsystem: "tonemap",
			Name:      "duration_seconds",
			Help:      "Time to tone-map one view (both passes)",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10), // 1ms to 512ms
		},
	)

	// ContextRebuilds counts processing context create/recreate cycles.
	// A steadily rising value means callers alternate render-target
	// formats and thrash the context.
	ContextRebuilds = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hdrtone",
			Subsystem: "tonemap",
			Name:      "context_rebuilds_total",
			Help:      "Processing context create/recreate cycles",
		},
	)

	// SurfacesInFlight tracks accelerator surfaces alive inside a
	// tone-map call. It should return to zero after every operation;
	// anything else is a cleanup defect.
	SurfacesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hdrtone",
			Subsystem: "tonemap",
			Name:      "surfaces_in_flight",
			Help:      "Accelerator surfaces currently alive",
		},
	)
)
