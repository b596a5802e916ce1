// Package metrics declares the service's Prometheus collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "bconnected"

// Completion service metrics.
var (
	CompletionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_requests_total",
			Help:      "Total number of completion stream requests",
		},
		[]string{"provider", "model", "status"},
	)

	CompletionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_request_duration_seconds",
			Help:      "Time from request to end of completion stream",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"provider", "model"},
	)

	CompletionTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_tokens_total",
			Help:      "Total completion tokens consumed",
		},
		[]string{"provider", "model", "type"}, // "prompt" / "completion"
	)

	CompletionErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_errors_total",
			Help:      "Total completion errors",
		},
		[]string{"provider", "model", "error_type"},
	)
)

// Chat and tool metrics.
var (
	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Chat requests by outcome",
		},
		[]string{"outcome"}, // "ok" / "error" / "rejected"
	)

	ChatStepsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_steps_total",
			Help:      "Completion steps run by the chat dispatcher",
		},
	)

	ToolInvocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_invocations_total",
			Help:      "Tool invocations by tool and status",
		},
		[]string{"tool", "status"},
	)

	ToolResultsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_results_returned",
			Help:      "Number of items returned per tool invocation",
			Buckets:   []float64{0, 1, 2, 3, 5, 10},
		},
		[]string{"tool"},
	)
)

// Session metrics.
var (
	AuthAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Sign-in attempts by result",
		},
		[]string{"result"}, // "success" / "invalid"
	)

	SessionsRevokedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_revoked_total",
			Help:      "Sessions ended by sign-out",
		},
	)
)

var registered bool

// Register registers the domain collectors. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(
		CompletionRequestsTotal,
		CompletionRequestDuration,
		CompletionTokensTotal,
		CompletionErrorsTotal,
		ChatRequestsTotal,
		ChatStepsTotal,
		ToolInvocationsTotal,
		ToolResultsReturned,
		AuthAttemptsTotal,
		SessionsRevokedTotal,
	)
	registered = true
}
