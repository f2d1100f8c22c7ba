package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector the API exports.
type Manager struct {
	// counters
	CounterRequests    *prometheus.CounterVec // method, route, status
	CounterCompletions *prometheus.CounterVec // analysis, outcome

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration    *prometheus.HistogramVec // route
	HistCompletionDuration *prometheus.HistogramVec // analysis
}

func NewTestManager() *Manager {
	return NewManager("liftbrain", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("liftbrain", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "route", "status"})
	counterCompletions := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "completion",
		Help:      "The total number of model completions by analysis and outcome",
	}, []string{"analysis", "outcome"})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})

	histReqDuration := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
			Name:      "request_duration_seconds",
			Help:      "Total duration of requests in seconds",
		},
		[]string{"route"},
	)
	histCompletionDuration := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 90, 120},
			Name:      "completion_duration_seconds",
			Help:      "Duration of model completions in seconds",
		},
		[]string{"analysis"},
	)

	return &Manager{
		CounterRequests:        counterRequests,
		CounterCompletions:     counterCompletions,
		GaugeRequests:          gaugeRequests,
		HistRequestDuration:    histReqDuration,
		HistCompletionDuration: histCompletionDuration,
	}
}
