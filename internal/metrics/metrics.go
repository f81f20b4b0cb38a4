// Package metrics exposes Prometheus collectors for the intake service.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MikeSquared-Agency/haven/internal/engine"
)

var (
	// haven_turns_total (counter): turns processed successfully
	TurnsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "haven_turns_total",
		Help: "Total number of conversational turns processed",
	})

	// haven_turn_failures_total (counter): turns answered with the fallback reply
	TurnFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "haven_turn_failures_total",
		Help: "Number of turns that failed and were answered with the fallback reply",
	})

	// haven_intent_total{intent,source}
	IntentCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "haven_intent_total",
		Help: "Classified intents by the classification stage that produced them",
	}, []string{"intent", "source"})

	// haven_risk_level_total{level=low|medium|high}
	RiskLevelCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "haven_risk_level_total",
		Help: "Risk level assessed per turn",
	}, []string{"level"})

	// haven_response_rule_total{rule}
	ResponseRuleCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "haven_response_rule_total",
		Help: "Response rule that produced each reply",
	}, []string{"rule"})

	// haven_turn_latency_seconds (histogram)
	LatencyHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "haven_turn_latency_seconds",
		Help:    "Turn processing latency in seconds",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	})

	// haven_active_sessions (gauge)
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "haven_active_sessions",
		Help: "Sessions currently held in memory",
	})
)

func RecordIntent(intent, source string) {
	IntentCount.WithLabelValues(intent, source).Inc()
}

func RecordRisk(level string) {
	RiskLevelCount.WithLabelValues(level).Inc()
}

func RecordRule(rule string) {
	ResponseRuleCount.WithLabelValues(rule).Inc()
}

// RecordTurnFailed counts a turn that fell back to the generic reply.
func RecordTurnFailed() {
	TurnFailures.Inc()
}

// Recorder is an engine.Observer that feeds the collectors above.
type Recorder struct{}

func (Recorder) TurnProcessed(_ context.Context, ev engine.TurnEvent) {
	TurnsTotal.Inc()
	RecordIntent(string(ev.Intent), string(ev.IntentSource))
	RecordRisk(string(ev.RiskLevel))
	RecordRule(ev.Rule)
	LatencyHistogram.Observe(ev.Duration.Seconds())
	ActiveSessions.Set(float64(ev.ActiveSessions))
}
