package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records engine, store and HTTP metrics on one registry.
type Collector struct {
	LedgerEntriesTotal  *prometheus.CounterVec
	LedgerAmountTotal   *prometheus.CounterVec
	OperationErrors     *prometheus.CounterVec
	OperationDuration   *prometheus.HistogramVec
	CacheRequestsTotal  *prometheus.CounterVec
	PurchasesTotal      *prometheus.CounterVec
	InventoryEvents     *prometheus.CounterVec
	EventTokenOps       *prometheus.CounterVec
	DailyResetsTotal    prometheus.Counter
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		LedgerEntriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfstore_ledger_entries_total",
				Help: "Total number of ledger entries written",
			},
			[]string{"type", "currency"},
		),
		LedgerAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfstore_ledger_amount_total",
				Help: "Sum of ledger entry amounts",
			},
			[]string{"type", "currency"},
		),
		OperationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfstore_operation_errors_total",
				Help: "Total number of rejected or failed operations",
			},
			[]string{"operation", "code"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sfstore_operation_duration_seconds",
				Help:    "Wallet operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		CacheRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfstore_cache_requests_total",
				Help: "Cache lookups by result",
			},
			[]string{"cache", "result"},
		),
		PurchasesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfstore_purchases_total",
				Help: "Total number of purchases by outcome",
			},
			[]string{"product_type", "currency", "status"},
		),
		InventoryEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfstore_inventory_transitions_total",
				Help: "Inventory item state transitions",
			},
			[]string{"state"},
		),
		EventTokenOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfstore_event_token_operations_total",
				Help: "Event token sub-ledger operations",
			},
			[]string{"operation"},
		),
		DailyResetsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sfstore_daily_resets_total",
				Help: "Wallets whose daily earning tracker was reset by the scheduler",
			},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfstore_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sfstore_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

func (c *Collector) RecordTransaction(txType, currency string, amount int64) {
	c.LedgerEntriesTotal.WithLabelValues(txType, currency).Inc()
	c.LedgerAmountTotal.WithLabelValues(txType, currency).Add(float64(amount))
}

func (c *Collector) RecordError(operation, code string) {
	c.OperationErrors.WithLabelValues(operation, code).Inc()
}

func (c *Collector) RecordOperationDuration(operation string, d time.Duration) {
	c.OperationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (c *Collector) RecordCacheHit(name string) {
	c.CacheRequestsTotal.WithLabelValues(name, "hit").Inc()
}

func (c *Collector) RecordCacheMiss(name string) {
	c.CacheRequestsTotal.WithLabelValues(name, "miss").Inc()
}

func (c *Collector) RecordPurchase(productType, currency, status string) {
	c.PurchasesTotal.WithLabelValues(productType, currency, status).Inc()
}

func (c *Collector) RecordItemTransition(state string) {
	c.InventoryEvents.WithLabelValues(state).Inc()
}

func (c *Collector) RecordEventTokenOperation(operation string) {
	c.EventTokenOps.WithLabelValues(operation).Inc()
}

func (c *Collector) RecordDailyReset(wallets int64) {
	c.DailyResetsTotal.Add(float64(wallets))
}

func (c *Collector) RecordHTTPRequest(method, path string, status int, d time.Duration) {
	c.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
