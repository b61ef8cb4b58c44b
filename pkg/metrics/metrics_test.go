package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Gunvolt24/storefront-prefetch/pkg/metrics"
)

// delta — на сколько изменился счётчик после fn.
func delta(c prometheus.Collector, fn func()) float64 {
	before := testutil.ToFloat64(c)
	fn()
	return testutil.ToFloat64(c) - before
}

func TestMustRegister_TwiceAndGathered(t *testing.T) {
	metrics.MustRegister()
	metrics.MustRegister()

	// векторы без серий не попадают в выдачу, поэтому заводим по одной
	metrics.CacheOps.WithLabelValues("hit")
	metrics.PrefetchRequests.WithLabelValues("miss")
	metrics.OrderPollTicks.WithLabelValues("ok")

	n, err := testutil.GatherAndCount(prometheus.DefaultGatherer,
		"cache_operations_total", "cache_size",
		"prefetch_requests_total", "prefetch_inflight",
		"order_poll_ticks_total", "order_poll_snapshot_size",
	)
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n < 6 {
		t.Fatalf("want at least 6 series in default registry, got %d", n)
	}
}

func TestCounters_Increment(t *testing.T) {
	metrics.MustRegister()

	for _, tc := range []struct {
		name string
		c    prometheus.Counter
		by   int
	}{
		{"kafka consumed", metrics.KafkaMessagesConsumed.WithLabelValues("cache-invalidation"), 1},
		{"kafka failed", metrics.KafkaMessagesFailed.WithLabelValues("cache-invalidation"), 2},
		{"kafka published", metrics.KafkaMessagesPublished.WithLabelValues("order-alerts", "ok"), 1},
		{"cache stale", metrics.CacheOps.WithLabelValues("stale"), 3},
		{"prefetch joined", metrics.PrefetchRequests.WithLabelValues("joined"), 1},
		{"background fetch", metrics.PrefetchFetches.WithLabelValues("background", "ok"), 1},
		{"alert ready", metrics.OrderAlerts.WithLabelValues("ready"), 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := delta(tc.c, func() {
				for i := 0; i < tc.by; i++ {
					tc.c.Inc()
				}
			})
			if got != float64(tc.by) {
				t.Fatalf("want +%d, got %+v", tc.by, got)
			}
		})
	}
}

func TestCacheOps_LabelsIndependent(t *testing.T) {
	miss := metrics.CacheOps.WithLabelValues("miss")
	if got := delta(miss, func() { metrics.CacheOps.WithLabelValues("evicted").Inc() }); got != 0 {
		t.Fatalf("evicted must not touch miss, got %+v", got)
	}
}

func TestGauges_SetAndRestore(t *testing.T) {
	for _, g := range []prometheus.Gauge{metrics.CacheSize, metrics.OrderSnapshotSize, metrics.PrefetchInFlight} {
		cur := testutil.ToFloat64(g)
		g.Add(5)
		if got := testutil.ToFloat64(g); got != cur+5 {
			t.Fatalf("after +5: got=%v want=%v", got, cur+5)
		}
		g.Set(cur)
	}
}

func TestFetchDuration_Observed(t *testing.T) {
	metrics.PrefetchFetchDuration.WithLabelValues("foreground").Observe(0.01)
	if n := testutil.CollectAndCount(metrics.PrefetchFetchDuration); n < 1 {
		t.Fatalf("histogram must expose at least one series, got %d", n)
	}
}
