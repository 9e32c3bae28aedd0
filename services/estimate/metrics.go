package estimate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	completionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "junkbutler_estimates_completed_total",
		Help: "Completed estimates by the engine that produced them.",
	}, []string{"source"})

	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "junkbutler_ai_retries_total",
		Help: "Conversational turns retried, by trigger.",
	}, []string{"trigger"})

	fallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "junkbutler_ai_fallbacks_total",
		Help: "Turns that gave up on the primary provider, by outcome.",
	}, []string{"outcome"})
)
