// Package metrics tracks request and cache counters. The same counters feed
// both the Prometheus /metrics endpoint and the JSON /api/stats payload.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector is safe for concurrent use. A nil Collector is valid and records
// nothing, so callers don't need to guard every call site.
type Collector struct {
	registry *prometheus.Registry

	requests       *prometheus.CounterVec
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	fallbacks      prometheus.Counter
	upstreamErrors prometheus.Counter

	mu       sync.Mutex
	snapshot Snapshot
}

// Snapshot is the plain-struct view of the counters served by /api/stats.
type Snapshot struct {
	Requests       map[string]int64 `json:"requests"`
	CacheHits      int64            `json:"cache_hits"`
	CacheMisses    int64            `json:"cache_misses"`
	Fallbacks      int64            `json:"fallbacks"`
	UpstreamErrors int64            `json:"upstream_errors"`
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	collector := &Collector{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "serendipity_requests_total",
			Help: "Content requests received, labeled by kind.",
		}, []string{"kind"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serendipity_cache_hits_total",
			Help: "Requests served from the content cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serendipity_cache_misses_total",
			Help: "Cacheable requests that missed the content cache.",
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serendipity_fallbacks_total",
			Help: "Requests answered with a static fallback payload.",
		}),
		upstreamErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serendipity_upstream_errors_total",
			Help: "Failed calls to the text generation service.",
		}),
	}
	collector.snapshot.Requests = make(map[string]int64)

	registry.MustRegister(
		collector.requests,
		collector.cacheHits,
		collector.cacheMisses,
		collector.fallbacks,
		collector.upstreamErrors,
	)
	return collector
}

// Handler serves the Prometheus exposition format for this collector's
// private registry.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) RecordRequest(kind string) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(kind).Inc()
	c.mu.Lock()
	c.snapshot.Requests[kind]++
	c.mu.Unlock()
}

func (c *Collector) RecordCacheHit() {
	if c == nil {
		return
	}
	c.cacheHits.Inc()
	c.mu.Lock()
	c.snapshot.CacheHits++
	c.mu.Unlock()
}

func (c *Collector) RecordCacheMiss() {
	if c == nil {
		return
	}
	c.cacheMisses.Inc()
	c.mu.Lock()
	c.snapshot.CacheMisses++
	c.mu.Unlock()
}

func (c *Collector) RecordFallback() {
	if c == nil {
		return
	}
	c.fallbacks.Inc()
	c.mu.Lock()
	c.snapshot.Fallbacks++
	c.mu.Unlock()
}

func (c *Collector) RecordUpstreamError() {
	if c == nil {
		return
	}
	c.upstreamErrors.Inc()
	c.mu.Lock()
	c.snapshot.UpstreamErrors++
	c.mu.Unlock()
}

// Snapshot returns a copy of the current counters.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{Requests: map[string]int64{}}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	requests := make(map[string]int64, len(c.snapshot.Requests))
	for kind, count := range c.snapshot.Requests {
		requests[kind] = count
	}
	return Snapshot{
		Requests:       requests,
		CacheHits:      c.snapshot.CacheHits,
		CacheMisses:    c.snapshot.CacheMisses,
		Fallbacks:      c.snapshot.Fallbacks,
		UpstreamErrors: c.snapshot.UpstreamErrors,
	}
}
