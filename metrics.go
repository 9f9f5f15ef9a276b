// Diagnostics metrics (C8, SPEC_FULL.md §4.8): process-wide Prometheus
// counters/histograms tracking choose/respond/activation volume.
// Grounded on tomtom215-cartographus's internal/authz/metrics.go, which
// registers package-level promauto vars at init and updates them
// unconditionally from hot-path code — here, the equivalent hot path is
// Agent.Choose/Agent.Respond rather than an authorization decision.
package ibl

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// chooseTotal counts every Choose/Choose2 invocation.
	chooseTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ibl_choose_total",
		Help: "Total number of choose/choose2 calls across all agents.",
	})

	// respondTotal counts every respond-protocol commit: each Respond
	// call, and each Choose2 call's provisional expectation. A later
	// DelayedResponse.Update is not counted again.
	respondTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ibl_respond_total",
		Help: "Total number of respond commits (Respond calls and Choose2 provisional commits) across all agents.",
	})

	// activationComputations counts every per-chunk activation
	// evaluation performed while scoring options.
	activationComputations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ibl_activation_computations_total",
		Help: "Total number of per-chunk activation computations.",
	})

	// noDataTotal counts choose calls that failed with the no-data
	// protocol error.
	noDataTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ibl_no_match_total",
		Help: "Total number of choose calls that failed for lack of matching data.",
	})

	// blendDuration tracks wall time spent blending one option's
	// matching chunks into a blended value.
	blendDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ibl_blend_duration_seconds",
		Help:    "Time spent computing one option's blended value.",
		Buckets: prometheus.DefBuckets,
	})
)
