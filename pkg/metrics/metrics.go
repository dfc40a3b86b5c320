// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration on the health server.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests on the health server.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// MessagesTotal tracks inbound chat messages by how they were routed.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_messages_total",
			Help: "Inbound chat messages by routing outcome",
		},
		[]string{"routing"},
	)

	// RepliesTotal tracks outbound replies.
	RepliesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_replies_total",
			Help: "Total replies sent back to the channel",
		},
	)

	// WorkflowsStarted tracks started workflows by kind.
	WorkflowsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_workflows_started_total",
			Help: "Workflows started, by kind",
		},
		[]string{"workflow"},
	)

	// WorkflowsFinished tracks finished workflows by kind and outcome.
	WorkflowsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_workflows_finished_total",
			Help: "Workflows finished, by kind and outcome",
		},
		[]string{"workflow", "outcome"},
	)

	// ActiveDrafts tracks drafts currently held in the session store.
	ActiveDrafts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_active_drafts",
			Help: "Number of users with an in-progress workflow",
		},
	)

	// ClickUpRequestDuration tracks ClickUp API call duration.
	ClickUpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clickup_request_duration_seconds",
			Help:    "ClickUp API request duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint", "status"},
	)

	// ReportsGenerated tracks generated reports by kind.
	ReportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_reports_generated_total",
			Help: "Reports generated, by kind",
		},
		[]string{"report"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordClickUpRequest records metrics for one ClickUp API call.
func RecordClickUpRequest(endpoint, status string, duration float64) {
	ClickUpRequestDuration.WithLabelValues(endpoint, status).Observe(duration)
}

// RecordWorkflowStart records a workflow start.
func RecordWorkflowStart(workflow string) {
	WorkflowsStarted.WithLabelValues(workflow).Inc()
	ActiveDrafts.Inc()
}

// RecordWorkflowFinish records a workflow leaving the session store.
func RecordWorkflowFinish(workflow, outcome string) {
	WorkflowsFinished.WithLabelValues(workflow, outcome).Inc()
	ActiveDrafts.Dec()
}
