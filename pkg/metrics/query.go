package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QueryMetrics records metadata for answered dashboard queries.
type QueryMetrics struct {
	total    *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewQueryMetrics registers the query metrics on the provided registerer.
func NewQueryMetrics(reg prometheus.Registerer) *QueryMetrics {
	if reg == nil {
		return &QueryMetrics{}
	}
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ai_query_total",
		Help: "Answered AI queries by result kind.",
	}, []string{"kind"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ai_query_duration_seconds",
		Help:    "Duration of query classification and aggregation.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(total, duration)
	return &QueryMetrics{total: total, duration: duration}
}

// ObserveQuery records one answered query.
func (q *QueryMetrics) ObserveQuery(kind string, duration time.Duration) {
	if q == nil {
		return
	}
	if q.total != nil {
		q.total.WithLabelValues(normalizeLabel(kind)).Inc()
	}
	if q.duration != nil {
		q.duration.Observe(duration.Seconds())
	}
}
