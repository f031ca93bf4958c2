package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CatalogLoadTotal counts catalog load attempts by source and outcome.
	CatalogLoadTotal *prometheus.CounterVec
	// CatalogItems tracks the number of items in the active catalog index.
	CatalogItems prometheus.Gauge
	// CatalogDuplicateNames counts duplicate item names dropped during merge.
	CatalogDuplicateNames prometheus.Counter
	// CartOpsTotal counts cart mutations by operation.
	CartOpsTotal *prometheus.CounterVec
	// BillRecomputeTotal counts bill recomputations triggered by session changes.
	BillRecomputeTotal prometheus.Counter
	// InvoiceRenderTotal counts invoice renders by format and outcome.
	InvoiceRenderTotal *prometheus.CounterVec
	// ImportPairsTotal counts bulk import pairs by disposition.
	ImportPairsTotal *prometheus.CounterVec
	// ExtractorLatency records image extraction latency in milliseconds.
	ExtractorLatency prometheus.Histogram
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CatalogLoadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_load_total",
			Help:      "Count of catalog load attempts by source and result.",
		}, []string{"source", "result"})
		CatalogItems = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_items",
			Help:      "Number of items in the active catalog index.",
		})
		CatalogDuplicateNames = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_duplicate_names_total",
			Help:      "Duplicate item names encountered while merging catalog documents.",
		})
		CartOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_ops_total",
			Help:      "Count of cart mutations by operation.",
		}, []string{"op"})
		BillRecomputeTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bill_recompute_total",
			Help:      "Number of bill recomputations performed.",
		})
		InvoiceRenderTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_render_total",
			Help:      "Count of invoice renders by format and result.",
		}, []string{"format", "result"})
		ImportPairsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_pairs_total",
			Help:      "Count of bulk import pairs by disposition.",
		}, []string{"disposition"})
		ExtractorLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extractor_duration_ms",
			Help:      "Latency of image extraction calls in milliseconds.",
			Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		})

		mustRegisterCollector(reg, CatalogLoadTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CatalogLoadTotal = v
			}
		})
		mustRegisterCollector(reg, CatalogItems, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Gauge); ok {
				CatalogItems = v
			}
		})
		mustRegisterCollector(reg, CatalogDuplicateNames, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				CatalogDuplicateNames = v
			}
		})
		mustRegisterCollector(reg, CartOpsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartOpsTotal = v
			}
		})
		mustRegisterCollector(reg, BillRecomputeTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				BillRecomputeTotal = v
			}
		})
		mustRegisterCollector(reg, InvoiceRenderTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				InvoiceRenderTotal = v
			}
		})
		mustRegisterCollector(reg, ImportPairsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ImportPairsTotal = v
			}
		})
		mustRegisterCollector(reg, ExtractorLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				ExtractorLatency = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
