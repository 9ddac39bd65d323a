package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	queryTotal      *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
	retrievedChunks *prometheus.HistogramVec
	noContextTotal  *prometheus.CounterVec
	tokensTotal     *prometheus.CounterVec
	costTotal       *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragpg",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ragpg",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ragpg",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queryTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragpg",
			Subsystem: "query",
			Name:      "requests_total",
			Help:      "Total completed query executions by mode.",
		},
		[]string{"service", "mode"},
	)
	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ragpg",
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "Query execution duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "mode"},
	)
	retrievedChunks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ragpg",
			Subsystem: "query",
			Name:      "retrieved_chunks",
			Help:      "Distribution of context chunks surviving the similarity threshold.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service", "mode"},
	)
	noContextTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragpg",
			Subsystem: "query",
			Name:      "no_context_total",
			Help:      "Total query executions that retrieved no context.",
		},
		[]string{"service", "mode"},
	)
	tokensTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragpg",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Token usage by direction, provider-reported or estimated.",
		},
		[]string{"service", "direction", "model"},
	)
	costTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragpg",
			Subsystem: "llm",
			Name:      "cost_usd_total",
			Help:      "Estimated cumulative spend in USD by model.",
		},
		[]string{"service", "model"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		queryTotal,
		queryDuration,
		retrievedChunks,
		noContextTotal,
		tokensTotal,
		costTotal,
	)

	return &HTTPServerMetrics{
		registry:        registry,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestInFlight: requestInFlight,
		queryTotal:      queryTotal,
		queryDuration:   queryDuration,
		retrievedChunks: retrievedChunks,
		noContextTotal:  noContextTotal,
		tokensTotal:     tokensTotal,
		costTotal:       costTotal,
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

// QueryObserver adapts the registry to the query pipeline's observation
// contract with the service label pre-bound.
func (m *HTTPServerMetrics) QueryObserver(service string) *QueryObserver {
	return &QueryObserver{metrics: m, service: service}
}

type QueryObserver struct {
	metrics *HTTPServerMetrics
	service string
}

func (o *QueryObserver) RecordQuery(mode string, chunkCount int, duration time.Duration) {
	if mode == "" {
		mode = "unknown"
	}
	o.metrics.queryTotal.WithLabelValues(o.service, mode).Inc()
	o.metrics.queryDuration.WithLabelValues(o.service, mode).Observe(duration.Seconds())
	o.metrics.retrievedChunks.WithLabelValues(o.service, mode).Observe(float64(chunkCount))
	if chunkCount == 0 {
		o.metrics.noContextTotal.WithLabelValues(o.service, mode).Inc()
	}
}

func (o *QueryObserver) RecordTokenUsage(model string, promptTokens, completionTokens int) {
	if model == "" {
		model = "unknown"
	}
	if promptTokens > 0 {
		o.metrics.tokensTotal.WithLabelValues(o.service, "in", model).Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		o.metrics.tokensTotal.WithLabelValues(o.service, "out", model).Add(float64(completionTokens))
	}
}

func (o *QueryObserver) RecordCost(model string, cost float64) {
	if model == "" {
		model = "unknown"
	}
	if cost > 0 {
		o.metrics.costTotal.WithLabelValues(o.service, model).Add(cost)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
