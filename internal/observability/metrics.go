package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchCallsTotal counts commerce search calls by sort order and status.
	// Labels: sort (sim, asc, dsc), status (ok, error, simulated)
	SearchCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "giftgenie",
		Subsystem: "search",
		Name:      "calls_total",
		Help:      "Commerce search calls by sort order and status",
	}, []string{"sort", "status"})

	// RecordsDroppedTotal counts search records dropped during normalization and filtering.
	// Labels: reason (parse, budget, quality, duplicate, diversity)
	RecordsDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "giftgenie",
		Subsystem: "search",
		Name:      "records_dropped_total",
		Help:      "Search records dropped by reason",
	}, []string{"reason"})

	// RefinementAttemptsTotal counts refinement attempts by strategy and outcome.
	// Labels: strategy, outcome (success, insufficient, error)
	RefinementAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "giftgenie",
		Subsystem: "refinement",
		Name:      "attempts_total",
		Help:      "Refinement attempts by strategy and outcome",
	}, []string{"strategy", "outcome"})

	// MatchesTotal counts intent binding outcomes by method.
	// Labels: method (judge, heuristic, none)
	MatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "giftgenie",
		Subsystem: "matcher",
		Name:      "matches_total",
		Help:      "Intent binding outcomes by match method",
	}, []string{"method"})

	// LLMCallsTotal counts language model calls by operation and status.
	// Labels: operation (intents, refine, judge), status (ok, error)
	LLMCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "giftgenie",
		Subsystem: "llm",
		Name:      "calls_total",
		Help:      "Language model calls by operation and status",
	}, []string{"operation", "status"})

	// ResolveLatencySeconds measures end-to-end resolve latency.
	ResolveLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "giftgenie",
		Subsystem: "resolve",
		Name:      "latency_seconds",
		Help:      "End-to-end resolve latency",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})
)
