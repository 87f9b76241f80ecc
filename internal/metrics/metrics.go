package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mockprep"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests",
	})

	feedbackGenerations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_generations_total",
		Help:      "Feedback generation attempts by outcome",
	}, []string{"outcome"})

	generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feedback_generation_duration_seconds",
		Help:      "Duration of the scoring model call in seconds",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"provider"})

	finalizeAnomalies = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "finalize_anomalies",
		Help:      "Feedback documents whose interview is missing, unfinalized or carries a different score, as of the last scan",
	})

	guardRedirects = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "route_guard_redirects_total",
		Help:      "Redirects issued by the route guard by target",
	}, []string{"target"})
)

// feedback generation outcomes
const (
	OutcomeSuccess       = "success"
	OutcomeNotFound      = "not_found"
	OutcomeInvalid       = "validation_failure"
	OutcomeModelError    = "model_error"
	OutcomeStoreError    = "store_error"
	OutcomePartialCommit = "partial_commit"
)

func RecordGeneration(outcome string) {
	feedbackGenerations.WithLabelValues(outcome).Inc()
}

func ObserveModelCall(provider string, d time.Duration) {
	generationDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func SetFinalizeAnomalies(n int) {
	finalizeAnomalies.Set(float64(n))
}

func RecordRedirect(target string) {
	guardRedirects.WithLabelValues(target).Inc()
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := r.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, fmt.Errorf("metrics: underlying ResponseWriter does not support hijacking")
}

// Middleware records request metrics. The route label is the chi pattern so
// ids in paths do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		labels := prometheus.Labels{
			"method": r.Method,
			"route":  route,
			"status": strconv.Itoa(rec.status),
		}
		httpRequests.With(labels).Inc()
		httpLatency.With(labels).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
