package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	moderationRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streamcentives_moderation_requests_total",
		Help: "Total number of content items submitted for moderation",
	})
	moderationActionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "streamcentives_moderation_actions_total",
		Help: "Moderation outcomes by final action",
	}, []string{"action"})
	classifierFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streamcentives_classifier_failures_total",
		Help: "Total number of failed classifier calls",
	})
	sideEffectFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streamcentives_moderation_side_effect_failures_total",
		Help: "Total number of failed best-effort strike or queue writes",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		moderationRequestsTotal,
		moderationActionsTotal,
		classifierFailuresTotal,
		sideEffectFailuresTotal,
	)
}

// IncModerationRequest increments the submitted-content counter.
func IncModerationRequest() { moderationRequestsTotal.Inc() }

// IncModerationAction increments the outcome counter for an action.
func IncModerationAction(action string) { moderationActionsTotal.WithLabelValues(action).Inc() }

// IncClassifierFailure increments the failed classifier call counter.
func IncClassifierFailure() { classifierFailuresTotal.Inc() }

// IncSideEffectFailure increments the failed best-effort write counter.
func IncSideEffectFailure() { sideEffectFailuresTotal.Inc() }
