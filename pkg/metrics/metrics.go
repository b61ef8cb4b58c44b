package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
	KafkaMessagesPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_published_total",
			Help: "Number of messages written to Kafka",
		},
		[]string{"topic", "result"},
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache operations",
		},
		[]string{"op"}, // hit|miss|stale|evicted|invalidated
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Number of items currently in cache",
		},
	)
)

var (
	PrefetchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prefetch_requests_total",
			Help: "Fetch requests served by the prefetch manager",
		},
		[]string{"result"}, // hit|stale|miss|joined|skipped
	)
	PrefetchFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prefetch_fetches_total",
			Help: "Fetcher invocations",
		},
		[]string{"mode", "result"},
	)
	PrefetchFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prefetch_fetch_duration_seconds",
			Help:    "Fetcher latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)
	PrefetchInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "prefetch_inflight",
			Help: "Number of shared fetches currently running",
		},
	)
)

var (
	OrderPollTicks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_poll_ticks_total",
			Help: "Order polling cycles",
		},
		[]string{"result"},
	)
	OrderAlerts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_alerts_total",
			Help: "Alerts raised for newly seen orders",
		},
		[]string{"status"},
	)
	OrderSnapshotSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "order_poll_snapshot_size",
			Help: "Number of orders in the latest snapshot",
		},
	)
)

var registerOnce sync.Once

// MustRegister — регистрирует все метрики в default registry. Повторный вызов ничего не делает.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed, KafkaMessagesPublished,
			CacheOps, CacheSize,
			PrefetchRequests, PrefetchFetches, PrefetchFetchDuration, PrefetchInFlight,
			OrderPollTicks, OrderAlerts, OrderSnapshotSize,
		)
	})
}
