package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	namespace = "aidiagram"

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	generationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_total",
			Help:      "Number of calls to the text-generation endpoint",
		},
		[]string{"provider", "outcome"},
	)

	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Duration of calls to the text-generation endpoint",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"provider", "outcome"},
	)

	pipelineTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Number of diagram pipeline runs by diagram type and final state",
		},
		[]string{"diagram_type", "state"},
	)

	extractionFallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_fallback_total",
			Help:      "Replies without a code fence that were passed on whole",
		},
		[]string{"diagram_type"},
	)
)

func HttpRequestsTotal(method, path, code string) {
	httpRequestsTotal.With(prometheus.Labels{
		"method": method,
		"path":   path,
		"code":   code,
	}).Inc()
}

func HttpRequestDuration(method, path string, duration time.Duration) {
	httpRequestDuration.With(prometheus.Labels{
		"method": method,
		"path":   path,
	}).Observe(duration.Seconds())
}

func GenerationTotal(provider, outcome string) {
	generationTotal.With(prometheus.Labels{
		"provider": provider,
		"outcome":  outcome,
	}).Inc()
}

func GenerationDuration(provider, outcome string, duration time.Duration) {
	generationDuration.With(prometheus.Labels{
		"provider": provider,
		"outcome":  outcome,
	}).Observe(duration.Seconds())
}

func PipelineTotal(diagramType, state string) {
	pipelineTotal.With(prometheus.Labels{
		"diagram_type": diagramType,
		"state":        state,
	}).Inc()
}

func ExtractionFallbackTotal(diagramType string) {
	extractionFallbackTotal.With(prometheus.Labels{
		"diagram_type": diagramType,
	}).Inc()
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &statusResponseWriter{w, http.StatusOK}
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		path := routePattern(r)
		HttpRequestsTotal(r.Method, path, strconv.Itoa(ww.status))
		HttpRequestDuration(r.Method, path, duration)
	})
}

// routePattern keeps label cardinality bounded for wildcard routes.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
