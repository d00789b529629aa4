// Package metrics instruments the pactumctl driver with Prometheus
// counters and histograms. Nothing in pkg/step or its dependencies
// imports this package: the transition function stays pure and
// unobserved, exactly the boundary the reference driver draws between
// "core" and "plumbing".
//
// Grounded on the promauto registration style used for wormhole's
// observation-channel metrics in the retrieved corpus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// StepsTotal counts transitions by outcome: "ok" or an error token.
	StepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pactum_steps_total",
			Help: "Total number of step transitions processed, labeled by outcome.",
		},
		[]string{"outcome"},
	)

	// StepDuration measures wall-clock time spent inside Step.
	StepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pactum_step_duration_seconds",
			Help:    "Latency of a single step transition.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ClaimsPaidTotal counts successfully settled claim effects.
	ClaimsPaidTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pactum_claims_paid_total",
			Help: "Total number of claim_request events settled.",
		},
	)

	// QuorumRoundsTotal counts committed oracle rounds by feed.
	QuorumRoundsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pactum_quorum_rounds_total",
			Help: "Total number of oracle quorum rounds committed, labeled by feed.",
		},
		[]string{"feed"},
	)
)

// Handler returns the HTTP handler to mount at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
