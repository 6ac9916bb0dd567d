package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Latency of the landing HTTP handler, recommendation included
	LandingLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "landing_render_latency_seconds",
		Help:    "Latency of the landing handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of landing pages served, by whether the visitor was known
	LandingRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "landing_requests_total",
		Help: "Total number of landing requests",
	}, []string{"visitor"})

	// 0 = closed, 1 = half-open, 2 = open
	ModelBreakerState = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "model_circuit_breaker_state",
		Help: "State of the circuit breaker guarding the recommendation model",
	})

	ModelRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "model_requests_total",
		Help: "Calls to the recommendation model by result",
	}, []string{"result"})

	TrackedEvents = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracked_events_total",
		Help: "Interaction events stored",
	})
)

var once sync.Once

func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			LandingLatency,
			LandingRequests,
			ModelBreakerState,
			ModelRequests,
			TrackedEvents,
		)
	})
}
