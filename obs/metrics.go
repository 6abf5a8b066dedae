package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PhaseCounter counts pipeline stage executions by phase.
	PhaseCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_requests_total",
			Help: "Total pipeline stage executions processed by the agent.",
		},
		[]string{"phase"},
	)

	// PhaseLatency tracks seconds spent in each pipeline phase.
	PhaseLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_phase_latency_seconds",
			Help:    "Seconds spent in each pipeline phase.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.3, 1, 2, 5},
		},
		[]string{"phase"},
	)
)
