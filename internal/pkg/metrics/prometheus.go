package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sp3dr4/qrlink/config"
)

// PrometheusRegistry implements the Registry interface using Prometheus metrics
type PrometheusRegistry struct {
	registry *prometheus.Registry
	config   config.MetricsConfig

	// HTTP Metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business Metrics
	linksCreatedTotal prometheus.Counter
	linksUpdatedTotal prometheus.Counter
	idCollisionsTotal prometheus.Counter
	redirectsTotal    *prometheus.CounterVec
	qrRenderedTotal   prometheus.Counter
	cacheLookupsTotal *prometheus.CounterVec
}

// NewPrometheusRegistry creates a new Prometheus metrics registry
func NewPrometheusRegistry(cfg config.MetricsConfig) (Registry, error) {
	registry := prometheus.NewRegistry()

	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
		})
	}

	httpRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{LabelMethod, LabelPath, LabelStatusCode},
	)

	httpRequestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{LabelMethod, LabelPath, LabelStatusCode},
	)

	httpRequestsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	redirectsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "redirects_total",
			Help:      "Total number of short link resolutions by outcome",
		},
		[]string{LabelOutcome},
	)

	cacheLookupsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "cache_lookups_total",
			Help:      "Total number of link cache lookups by status",
		},
		[]string{LabelCacheStatus},
	)

	p := &PrometheusRegistry{
		registry:             registry,
		config:               cfg,
		httpRequestsTotal:    httpRequestsTotal,
		httpRequestDuration:  httpRequestDuration,
		httpRequestsInFlight: httpRequestsInFlight,
		linksCreatedTotal:    counter("links_created_total", "Total number of links created"),
		linksUpdatedTotal:    counter("links_updated_total", "Total number of link destination updates"),
		idCollisionsTotal:    counter("id_collisions_total", "Total number of generated ids that were already taken"),
		redirectsTotal:       redirectsTotal,
		qrRenderedTotal:      counter("qr_rendered_total", "Total number of QR images rendered"),
		cacheLookupsTotal:    cacheLookupsTotal,
	}

	metricsCollectors := []prometheus.Collector{
		p.httpRequestsTotal,
		p.httpRequestDuration,
		p.httpRequestsInFlight,
		p.linksCreatedTotal,
		p.linksUpdatedTotal,
		p.idCollisionsTotal,
		p.redirectsTotal,
		p.qrRenderedTotal,
		p.cacheLookupsTotal,
	}

	for _, collector := range metricsCollectors {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}

	if cfg.CollectRuntime {
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	return p, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration
func (p *PrometheusRegistry) RecordHTTPRequest(method, path, statusCode string, duration float64) {
	labels := prometheus.Labels{
		LabelMethod:     method,
		LabelPath:       path,
		LabelStatusCode: statusCode,
	}
	p.httpRequestsTotal.With(labels).Inc()
	p.httpRequestDuration.With(labels).Observe(duration)
}

func (p *PrometheusRegistry) IncHTTPRequestsInFlight() {
	p.httpRequestsInFlight.Inc()
}

func (p *PrometheusRegistry) DecHTTPRequestsInFlight() {
	p.httpRequestsInFlight.Dec()
}

func (p *PrometheusRegistry) IncLinksCreated() {
	p.linksCreatedTotal.Inc()
}

func (p *PrometheusRegistry) IncLinksUpdated() {
	p.linksUpdatedTotal.Inc()
}

func (p *PrometheusRegistry) IncIDCollisions() {
	p.idCollisionsTotal.Inc()
}

// IncRedirects counts a resolve by outcome (resolved, not_found, error)
func (p *PrometheusRegistry) IncRedirects(outcome string) {
	p.redirectsTotal.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRegistry) IncQRRendered() {
	p.qrRenderedTotal.Inc()
}

// IncCacheLookups counts a cache lookup by status (hit, miss, error)
func (p *PrometheusRegistry) IncCacheLookups(status string) {
	p.cacheLookupsTotal.WithLabelValues(status).Inc()
}

// GetRegistry returns the underlying Prometheus registry
func (p *PrometheusRegistry) GetRegistry() *prometheus.Registry {
	return p.registry
}

// GetHandler returns an HTTP handler for the metrics endpoint
func (p *PrometheusRegistry) GetHandler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
