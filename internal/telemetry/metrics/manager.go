package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterHandleRequestPanic prometheus.Counter
	CounterRateLimited        prometheus.Counter
	CounterSessionsStarted    prometheus.Counter
	CounterSessionsDiscarded  prometheus.Counter
	CounterWorkoutsSaved      prometheus.Counter
	CounterWorkoutSaveErrors  prometheus.Counter
	CounterPersonalRecords    *prometheus.CounterVec
	CounterPRErrors           prometheus.Counter

	// gauges
	GaugeRequests        prometheus.Gauge
	GaugeOpenConnections prometheus.Gauge
	GaugeLifeSignal      prometheus.Gauge
	GaugeActiveSessions  prometheus.Gauge

	// histograms
	HistogramRequestDuration  *prometheus.HistogramVec
	HistogramWorkoutDuration  prometheus.Histogram
	HistogramWorkoutSaveDelay prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("backend", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("backend", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterOpts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}
	}

	return &Manager{
		CounterRequests: factory.NewCounterVec(
			counterOpts("request", "The total number of incoming requests"),
			[]string{"method", "status"},
		),
		CounterHandleRequestPanic: factory.NewCounter(
			counterOpts("handle_request_panic", "The total number of serve request panics"),
		),
		CounterRateLimited: factory.NewCounter(
			counterOpts("rate_limited_requests", "The total number of rate limited requests"),
		),
		CounterSessionsStarted: factory.NewCounter(
			counterOpts("sessions_started", "The total number of started workout sessions"),
		),
		CounterSessionsDiscarded: factory.NewCounter(
			counterOpts("sessions_discarded", "The total number of discarded workout sessions"),
		),
		CounterWorkoutsSaved: factory.NewCounter(
			counterOpts("workouts_saved", "The total number of completed and persisted workouts"),
		),
		CounterWorkoutSaveErrors: factory.NewCounter(
			counterOpts("workout_save_errors", "The total number of failed workout writes (after retries)"),
		),
		CounterPersonalRecords: factory.NewCounterVec(
			counterOpts("personal_records", "The total number of new personal records"),
			[]string{"record_type"},
		),
		CounterPRErrors: factory.NewCounter(
			counterOpts("personal_record_errors", "The total number of failed personal record evaluations"),
		),

		GaugeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "current_requests",
			Help:      "Current number of requests served",
		}),
		GaugeOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "open_connections",
			Help:      "Current number of open client connections",
		}),
		GaugeLifeSignal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "life_signal",
			Help:      "Shows whether the service is alive",
		}),
		GaugeActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active_sessions",
			Help:      "Number of workout sessions currently active",
		}),

		HistogramRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Histogram of response time for requests in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"route", "method", "status_code"}),
		HistogramWorkoutDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workout_duration_minutes",
			Help:      "Duration of completed workouts in minutes",
			Buckets:   []float64{10, 20, 30, 45, 60, 75, 90, 120, 180},
		}),
		HistogramWorkoutSaveDelay: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workout_save_duration_seconds",
			Help:      "Time spent writing a completed workout, retries included",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
	}
}
