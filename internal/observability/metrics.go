package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "card_assist"

// Metrics holds the per-turn collectors. Collectors are registered on the
// registerer passed to NewMetrics so tests can use a private registry.
type Metrics struct {
	turns        *prometheus.CounterVec
	failures     *prometheus.CounterVec
	toolCalls    *prometheus.CounterVec
	turnDuration prometheus.Histogram
	kbScore      prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		turns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "turns_total",
			Help:      "Completed chat turns by reply source",
		}, []string{"source"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "turn_failures_total",
			Help:      "Failed chat turns by reason",
		}, []string{"reason"}),
		toolCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tool_calls_total",
			Help:      "Tool executions by tool name and outcome",
		}, []string{"tool", "success"}),
		turnDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "turn_duration_seconds",
			Help:      "End-to-end chat turn latency",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		}),
		kbScore: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "kb_score",
			Help:      "Cosine score of the best knowledge base match per turn",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
	}
}

// Nop returns metrics registered on a throwaway registry.
func Nop() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

func (m *Metrics) TurnCompleted(source string, took time.Duration) {
	m.turns.WithLabelValues(source).Inc()
	m.turnDuration.Observe(took.Seconds())
}

func (m *Metrics) TurnFailed(reason string) {
	m.failures.WithLabelValues(reason).Inc()
}

func (m *Metrics) ToolCalled(tool string, success bool) {
	label := "false"
	if success {
		label = "true"
	}
	m.toolCalls.WithLabelValues(tool, label).Inc()
}

func (m *Metrics) KBScore(score float32) {
	m.kbScore.Observe(float64(score))
}
