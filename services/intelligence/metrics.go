package ai

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	streamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "junkbutler_ai_stream_duration_seconds",
		Help:    "Duration of assistant reply streams.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "outcome"})

	streamFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "junkbutler_ai_stream_failures_total",
		Help: "Failed assistant reply streams by error category.",
	}, []string{"provider", "category"})
)

type instrumented struct {
	Streamer
}

// Instrument records latency and failures of s.
func Instrument(s Streamer) Streamer {
	if _, ok := s.(instrumented); ok {
		return s
	}
	return instrumented{Streamer: s}
}

func (i instrumented) Stream(ctx context.Context, system string, history []ChatMessage, onDelta func(string)) (string, error) {
	start := time.Now()
	reply, err := i.Streamer.Stream(ctx, system, history, onDelta)

	outcome := "ok"
	if err != nil {
		outcome = "error"
		streamFailures.WithLabelValues(i.Name(), string(Classify(err))).Inc()
	}
	streamDuration.WithLabelValues(i.Name(), outcome).Observe(time.Since(start).Seconds())
	return reply, err
}
