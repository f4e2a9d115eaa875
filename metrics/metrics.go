// Package metrics exposes prometheus metrics for the popularity score pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithRegistry registers the metrics on the given registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// Recorder holds the metrics of the service.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	namespace string
	registry  *prometheus.Registry

	searches           *prometheus.CounterVec
	searchDuration     prometheus.Histogram
	repositoriesScored prometheus.Counter
	fetchErrors        *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates a recorder with its own registry, unless WithRegistry is given.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: "popularity_score",
		registry:  prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(r)
	}

	auto := promauto.With(r.registry)

	r.searches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "searches_total",
		Help:      "Number of popularity score pipeline runs by outcome",
	}, []string{"outcome"})

	r.searchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "search_duration_seconds",
		Help:      "Duration of a full pipeline run, github call included",
		Buckets:   prometheus.DefBuckets,
	})

	r.repositoriesScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "repositories_scored_total",
		Help:      "Number of repositories scored",
	})

	r.fetchErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "github_fetch_errors_total",
		Help:      "Number of failed github search calls by error code",
	}, []string{"code"})

	r.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "http_requests_total",
		Help:      "Number of HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	r.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration by route, method and status code",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "status_code"})

	return r
}

// Handler serves the metrics of this recorder's registry.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}

	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) ObserveSearch(outcome string, duration time.Duration) {
	if r == nil {
		return
	}

	r.searches.WithLabelValues(outcome).Inc()
	r.searchDuration.Observe(duration.Seconds())
}

func (r *Recorder) AddRepositoriesScored(count int) {
	if r == nil || count <= 0 {
		return
	}

	r.repositoriesScored.Add(float64(count))
}

func (r *Recorder) IncFetchError(code string) {
	if r == nil {
		return
	}

	r.fetchErrors.WithLabelValues(code).Inc()
}

func (r *Recorder) ObserveHTTPRequest(route, method, statusCode string, duration time.Duration) {
	if r == nil {
		return
	}

	r.httpRequests.WithLabelValues(route, method, statusCode).Inc()
	r.httpRequestDuration.WithLabelValues(route, method, statusCode).Observe(duration.Seconds())
}
