package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for invoice formatting.
type Metrics struct {
	// Registry is exposed so the /metrics endpoint can serve it.
	Registry *prometheus.Registry

	formattersBuilt     *prometheus.CounterVec
	renderDuration      prometheus.Histogram
	supplierInvocations prometheus.Counter
	itemsDecorated      prometheus.Counter
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
}

// NewMetrics registers every collector in a private registry so repeated calls (tests,
// multiple fx apps) never collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		formattersBuilt: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoicefmt_formatters_built_total",
				Help: "Invoice formatters built, by outcome.",
			},
			[]string{"status"},
		),
		renderDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "invoicefmt_render_duration_seconds",
				Help:    "Duration of rendering one invoice snapshot.",
				Buckets: prometheus.DefBuckets,
			},
		),
		supplierInvocations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "invoicefmt_item_supplier_invocations_total",
				Help: "Times a raw invoice item supplier was invoked.",
			},
		),
		itemsDecorated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "invoicefmt_items_decorated_total",
				Help: "Invoice items wrapped with subscription custom fields.",
			},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoicefmt_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoicefmt_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
	}
}

func (m *Metrics) IncrFormatterBuilt(status string) {
	m.formattersBuilt.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordRenderDuration(d time.Duration) {
	m.renderDuration.Observe(d.Seconds())
}

// RecordSupplierInvocation counts one supplier call and the items it yielded.
func (m *Metrics) RecordSupplierInvocation(items int) {
	m.supplierInvocations.Inc()
	m.itemsDecorated.Add(float64(items))
}

func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}
