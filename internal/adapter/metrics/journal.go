package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// JournalMetrics tracks entry lifecycle operations and classifier output.
type JournalMetrics struct {
	Operations     *prometheus.CounterVec
	SentimentScore prometheus.Histogram
	Labels         *prometheus.CounterVec
	MoodSamples    prometheus.Gauge
	IndexRebuilds  prometheus.Counter
}

func NewJournalMetrics(reg prometheus.Registerer) *JournalMetrics {
	m := &JournalMetrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "operations_total",
			Help:      "Entry operations, by operation and result.",
		}, []string{"operation", "result"}),
		SentimentScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "sentiment_score",
			Help:      "Distribution of classified entry scores.",
			Buckets:   []float64{-0.6, -0.2, 0.2, 0.6, 1},
		}),
		Labels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "sentiment_labels_total",
			Help:      "Classified entries, by sentiment label.",
		}, []string{"label"}),
		MoodSamples: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "mood_samples",
			Help:      "Number of samples currently held by the mood index.",
		}),
		IndexRebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "index_rebuilds_total",
			Help:      "Full mood index rebuilds from the entry store.",
		}),
	}

	reg.MustRegister(m.Operations, m.SentimentScore, m.Labels, m.MoodSamples, m.IndexRebuilds)
	return m
}

// ObserveOperation records one entry operation with result "ok" or "error".
func (m *JournalMetrics) ObserveOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Operations.WithLabelValues(operation, result).Inc()
}

func (m *JournalMetrics) ObserveClassification(score float64, label string) {
	m.SentimentScore.Observe(score)
	m.Labels.WithLabelValues(label).Inc()
}
