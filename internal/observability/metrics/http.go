package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServerMetrics aggregates the API's request-level and turn-level
// instrumentation behind a private registry.
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	turnsTotal       *prometheus.CounterVec
	escalationsTotal *prometheus.CounterVec
	degradedTotal    *prometheus.CounterVec
	retrievedChunks  *prometheus.HistogramVec
	turnDuration     *prometheus.HistogramVec
	retrievalModes   *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ula",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ula",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ula",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	turnsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ula",
			Subsystem: "turns",
			Name:      "total",
			Help:      "Total completed assistant turns by intent.",
		},
		[]string{"service", "intent"},
	)
	escalationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ula",
			Subsystem: "turns",
			Name:      "escalations_total",
			Help:      "Total turns short-circuited by the safety gate.",
		},
		[]string{"service", "reason"},
	)
	degradedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ula",
			Subsystem: "turns",
			Name:      "degraded_total",
			Help:      "Total turns answered on a degraded path.",
		},
		[]string{"service"},
	)
	retrievedChunks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ula",
			Subsystem: "retrieval",
			Name:      "chunks",
			Help:      "Distribution of retrieved chunks per grounded turn.",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8, 12},
		},
		[]string{"service"},
	)
	turnDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ula",
			Subsystem: "turns",
			Name:      "duration_seconds",
			Help:      "End-to-end turn duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	retrievalModes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ula",
			Subsystem: "retrieval",
			Name:      "mode_total",
			Help:      "Total turns by planned retrieval mode.",
		},
		[]string{"service", "mode"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		turnsTotal,
		escalationsTotal,
		degradedTotal,
		retrievedChunks,
		turnDuration,
		retrievalModes,
	)

	return &HTTPServerMetrics{
		registry:         registry,
		requestTotal:     requestTotal,
		requestDuration:  requestDuration,
		requestInFlight:  requestInFlight,
		turnsTotal:       turnsTotal,
		escalationsTotal: escalationsTotal,
		degradedTotal:    degradedTotal,
		retrievedChunks:  retrievedChunks,
		turnDuration:     turnDuration,
		retrievalModes:   retrievalModes,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			r.URL.Path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

// RecordTurn captures the per-turn observations after the pipeline
// finishes, regardless of which branch answered.
func (m *HTTPServerMetrics) RecordTurn(service, intent, escalation, mode string, docCount int, degraded bool, duration time.Duration) {
	if intent == "" {
		intent = "unknown"
	}
	m.turnsTotal.WithLabelValues(service, intent).Inc()
	m.turnDuration.WithLabelValues(service).Observe(duration.Seconds())

	if escalation != "" {
		m.escalationsTotal.WithLabelValues(service, escalation).Inc()
		return
	}
	if degraded {
		m.degradedTotal.WithLabelValues(service).Inc()
	}
	if mode != "" {
		m.retrievalModes.WithLabelValues(service, mode).Inc()
	}
	m.retrievedChunks.WithLabelValues(service).Observe(float64(docCount))
}

// statusRecorder only tracks the status code; all responses behind
// this middleware are plain buffered writes.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
