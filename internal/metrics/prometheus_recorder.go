package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "pawfetch"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	requests        *prom.CounterVec
	requestDuration *prom.HistogramVec
	retries         *prom.CounterVec
	staleResults    *prom.CounterVec
	truncations     prom.Counter
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Catalog API requests by endpoint and HTTP status (0 for transport errors)",
		}, []string{"endpoint", "status"}),
		requestDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Catalog API request latency",
			Buckets:   prom.DefBuckets,
		}, []string{"endpoint"}),
		retries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "retries_total",
			Help:      "Retried catalog API requests",
		}, []string{"endpoint"}),
		staleResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stale_results_total",
			Help:      "Async results discarded because newer inputs superseded them",
		}, []string{"computation"}),
		truncations: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "zip_filter_truncations_total",
			Help:      "Searches whose zip filter was cut down to the cap",
		}),
	}
	reg.MustRegister(pr.requests, pr.requestDuration, pr.retries, pr.staleResults, pr.truncations)
	return pr
}

func (p *PrometheusRecorder) IncRequest(endpoint string, status int) {
	if p == nil {
		return
	}
	p.requests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

func (p *PrometheusRecorder) ObserveRequestDuration(endpoint string, d time.Duration) {
	if p == nil {
		return
	}
	p.requestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRetry(endpoint string) {
	if p == nil {
		return
	}
	p.retries.WithLabelValues(endpoint).Inc()
}

func (p *PrometheusRecorder) IncStaleResult(computation string) {
	if p == nil {
		return
	}
	p.staleResults.WithLabelValues(computation).Inc()
}

func (p *PrometheusRecorder) IncZipFilterTruncation() {
	if p == nil {
		return
	}
	p.truncations.Inc()
}
