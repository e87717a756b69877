package mcp

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

var (
	// Tool call metrics
	toolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metaval_mcp_tool_calls_total",
			Help: "Total number of MCP tool calls",
		},
		[]string{"tool", "status"}, // success or error
	)

	toolCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "metaval_mcp_tool_duration_seconds",
			Help:    "Duration of MCP tool calls in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"tool"},
	)

	// Validation outcome metrics
	documentsValidatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metaval_documents_validated_total",
			Help: "Total number of documents validated over MCP",
		},
		[]string{"outcome"}, // valid, invalid or degraded
	)

	httpRateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "metaval_mcp_http_rate_limited_total",
			Help: "Total number of HTTP requests rejected by the rate limiter",
		},
	)
)

// observeTool records the outcome and duration of one tool call.
func observeTool(tool string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	toolCallsTotal.WithLabelValues(tool, status).Inc()
	toolCallDuration.WithLabelValues(tool).Observe(time.Since(start).Seconds())
}

func observeResult(r *domain.ValidationResult) {
	switch {
	case r.MarginalityMissing():
		documentsValidatedTotal.WithLabelValues("degraded").Inc()
	case r.Valid():
		documentsValidatedTotal.WithLabelValues("valid").Inc()
	default:
		documentsValidatedTotal.WithLabelValues("invalid").Inc()
	}
}
