package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	OutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_outcomes_total",
			Help: "Count of layout recommendations by path and fallback reason.",
		},
		[]string{"path", "reason"},
	)

	ModelLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommend_model_latency_seconds",
		Help:    "Latency of external model calls, including failures.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(OutcomesTotal, ModelLatency)
}
