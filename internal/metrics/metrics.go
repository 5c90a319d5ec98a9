package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "venuebook_bookings_created_total",
		Help: "Bookings successfully created.",
	})

	ClaimConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "venuebook_claim_conflicts_total",
		Help: "Date claims rejected by the availability gate.",
	}, []string{"reason"})

	ModificationsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "venuebook_modifications_resolved_total",
		Help: "Modification proposals by terminal outcome.",
	}, []string{"outcome"})

	AgentTurns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "venuebook_agent_turns_total",
		Help: "Agent chat turns processed.",
	})

	ToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "venuebook_agent_tool_calls_total",
		Help: "Tool executions by tool name and result.",
	}, []string{"tool", "result"})

	LLMRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "venuebook_llm_retries_total",
		Help: "LLM calls retried after a transient failure.",
	})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "venuebook_ws_connections",
		Help: "Currently connected websocket clients.",
	})
)
