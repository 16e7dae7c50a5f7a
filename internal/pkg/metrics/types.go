package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry defines the interface for metrics collection
type Registry interface {
	// HTTP Metrics
	RecordHTTPRequest(method, path, statusCode string, duration float64)
	IncHTTPRequestsInFlight()
	DecHTTPRequestsInFlight()

	// Business Metrics
	IncLinksCreated()
	IncLinksUpdated()
	IncIDCollisions()
	IncRedirects(outcome string)
	IncQRRendered()
	IncCacheLookups(status string)

	// Prometheus-specific methods
	GetRegistry() *prometheus.Registry
	GetHandler() http.Handler
}

// NoOpRegistry provides a no-op implementation for when metrics are disabled
type NoOpRegistry struct{}

func NewNoOpRegistry() Registry {
	return &NoOpRegistry{}
}

func (n *NoOpRegistry) RecordHTTPRequest(method, path, statusCode string, duration float64) {}
func (n *NoOpRegistry) IncHTTPRequestsInFlight()                                            {}
func (n *NoOpRegistry) DecHTTPRequestsInFlight()                                            {}
func (n *NoOpRegistry) IncLinksCreated()                                                    {}
func (n *NoOpRegistry) IncLinksUpdated()                                                    {}
func (n *NoOpRegistry) IncIDCollisions()                                                    {}
func (n *NoOpRegistry) IncRedirects(outcome string)                                         {}
func (n *NoOpRegistry) IncQRRendered()                                                      {}
func (n *NoOpRegistry) IncCacheLookups(status string)                                       {}
func (n *NoOpRegistry) GetRegistry() *prometheus.Registry                                   { return nil }
func (n *NoOpRegistry) GetHandler() http.Handler                                            { return nil }

// Common label names as constants
const (
	LabelMethod      = "method"
	LabelPath        = "path"
	LabelStatusCode  = "status_code"
	LabelOutcome     = "outcome"
	LabelCacheStatus = "cache_status"
)

// Label values for redirect outcomes and cache lookups
const (
	OutcomeResolved = "resolved"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)
