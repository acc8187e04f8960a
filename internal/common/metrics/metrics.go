// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_messages_processed_total",
			Help: "Total number of chat messages processed, by intent and branch",
		},
		[]string{"intent", "branch"},
	)

	LLMCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_llm_calls_total",
			Help: "Total number of LLM calls, by purpose and outcome",
		},
		[]string{"purpose", "outcome"},
	)

	ClassifierFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_classifier_fallbacks_total",
			Help: "Total number of classifications served by the keyword fallback",
		},
	)

	DashboardRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_dashboard_requests_total",
			Help: "Total number of dashboard requests, by chart type and outcome",
		},
		[]string{"chart_type", "outcome"},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_pipeline_stage_duration_seconds",
			Help: "Duration of dashboard pipeline stages in seconds",
		},
		[]string{"stage"},
	)

	TaskActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_task_actions_total",
			Help: "Total number of task mutations, by action and outcome",
		},
		[]string{"action", "outcome"},
	)
)
