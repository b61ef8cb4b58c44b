package binding

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gunvolt24/storefront-prefetch/internal/cache/memory"
	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	"github.com/Gunvolt24/storefront-prefetch/internal/prefetch"
)

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

func newTestManager(t *testing.T) (*prefetch.Manager, *memory.Store) {
	t.Helper()
	store := memory.NewStore(0)
	m := prefetch.NewManager(store, nopLogger{})
	t.Cleanup(m.Close)
	return m, store
}

func constFetcher(v any, calls *atomic.Int32) prefetch.Fetcher {
	return func(context.Context) (any, error) {
		if calls != nil {
			calls.Add(1)
		}
		return v, nil
	}
}

// eventually — ждёт выполнения условия до таймаута.
func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestQuery_StartLoadsAndReportsTransitions(t *testing.T) {
	m, _ := newTestManager(t)

	var mu sync.Mutex
	var seen []State
	q := NewQuery(m, "k", constFetcher("v", nil), QueryConfig{
		OnChange: func(s State) { mu.Lock(); seen = append(seen, s); mu.Unlock() },
	})
	defer q.Close()

	if err := q.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	st := q.State()
	if st.Loading || st.Err != nil || st.Data != "v" {
		t.Fatalf("unexpected state: %+v", st)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) < 2 || !seen[0].Loading || seen[len(seen)-1].Loading {
		t.Fatalf("expected loading=true then loading=false, got %+v", seen)
	}
}

func TestQuery_Skip_NeverFetches(t *testing.T) {
	m, _ := newTestManager(t)
	var calls atomic.Int32

	q := NewQuery(m, "k", constFetcher("v", &calls), QueryConfig{Skip: true})
	defer q.Close()

	if err := q.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := q.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch error: %v", err)
	}
	if calls.Load() != 0 || q.State().Loading {
		t.Fatalf("skip must not fetch: calls=%d state=%+v", calls.Load(), q.State())
	}
}

func TestQuery_RefetchForces(t *testing.T) {
	m, _ := newTestManager(t)
	var calls atomic.Int32

	q := NewQuery(m, "k", constFetcher("v", &calls), QueryConfig{})
	defer q.Close()

	_ = q.Start(context.Background())
	if err := q.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("want 2 fetcher calls, got %d", calls.Load())
	}
}

func TestQuery_ErrorInState(t *testing.T) {
	m, _ := newTestManager(t)
	boom := errors.New("boom")

	q := NewQuery(m, "k", func(context.Context) (any, error) { return nil, boom }, QueryConfig{})
	defer q.Close()

	if err := q.Start(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if st := q.State(); !errors.Is(st.Err, boom) || st.Loading {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestQuery_ReceivesPushUpdates_UntilClose(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	q := NewQuery(m, "k", constFetcher("v1", nil), QueryConfig{})
	_ = q.Start(ctx)

	if _, err := m.Fetch(ctx, "k", constFetcher("v2", nil), prefetch.WithForce(true)); err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if q.State().Data != "v2" {
		t.Fatalf("expected push update v2, got %v", q.State().Data)
	}

	q.Close()
	if _, err := m.Fetch(ctx, "k", constFetcher("v3", nil), prefetch.WithForce(true)); err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if q.State().Data != "v2" {
		t.Fatalf("state must not change after Close, got %v", q.State().Data)
	}
}

func TestQuery_CloseAbandonsWait(t *testing.T) {
	m, _ := newTestManager(t)
	gate := make(chan struct{})
	defer close(gate)

	q := NewQuery(m, "k", func(context.Context) (any, error) { <-gate; return "late", nil }, QueryConfig{})

	errCh := make(chan error, 1)
	go func() { errCh <- q.Start(context.Background()) }()
	eventually(t, func() bool { return m.InFlight() == 1 })

	q.Close()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Close")
	}
}

func TestMultiQuery_SuccessAndFailureKeepsPrevious(t *testing.T) {
	m, _ := newTestManager(t)

	var fail atomic.Bool
	reqs := map[string]Request{
		"user":  {Key: "user:1", Fetcher: constFetcher("alice", nil)},
		"stats": {Key: "stats", Fetcher: func(context.Context) (any, error) {
			if fail.Load() {
				return nil, errors.New("stats down")
			}
			return 7, nil
		}},
	}
	mq := NewMultiQuery(m, reqs, nil)
	defer mq.Close()

	if err := mq.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	st := mq.State()
	if st.Data["user"] != "alice" || st.Data["stats"] != 7 || st.Loading {
		t.Fatalf("unexpected state: %+v", st)
	}

	fail.Store(true)
	if err := mq.RefetchAll(context.Background()); err == nil {
		t.Fatalf("expected aggregate error")
	}
	st = mq.State()
	if st.Err == nil || st.Data["stats"] != 7 {
		t.Fatalf("previous data must be kept on failure: %+v", st)
	}
}

func TestFetchAll_RunsConcurrently(t *testing.T) {
	m, _ := newTestManager(t)

	var running, peak atomic.Int32
	slow := func(v any) prefetch.Fetcher {
		return func(context.Context) (any, error) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(30 * time.Millisecond)
			running.Add(-1)
			return v, nil
		}
	}

	data, err := FetchAll(context.Background(), m, map[string]Request{
		"a": {Key: "a", Fetcher: slow(1)},
		"b": {Key: "b", Fetcher: slow(2)},
		"c": {Key: "c", Fetcher: slow(3)},
	})
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}
	if len(data) != 3 || data["b"] != 2 {
		t.Fatalf("unexpected data: %v", data)
	}
	if peak.Load() < 2 {
		t.Fatalf("expected parallel fetches, peak=%d", peak.Load())
	}
}

func TestPollingQuery_TicksUntilClose(t *testing.T) {
	m, _ := newTestManager(t)
	var calls atomic.Int32

	pq := NewPollingQuery(m, "k", constFetcher("v", &calls), 10*time.Millisecond, QueryConfig{})
	pq.Start(context.Background())

	eventually(t, func() bool { return calls.Load() >= 3 })
	if pq.State().Data != "v" {
		t.Fatalf("unexpected state: %+v", pq.State())
	}

	pq.Close()
	after := calls.Load()
	time.Sleep(40 * time.Millisecond)
	if calls.Load() != after {
		t.Fatalf("polling continued after Close: %d -> %d", after, calls.Load())
	}
}

// Неположительный интервал заменяется периодом по умолчанию: сразу одна загрузка, без паники таймера.
func TestPollingQuery_NonPositiveInterval_UsesDefault(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		m, _ := newTestManager(t)
		var calls atomic.Int32

		pq := NewPollingQuery(m, "k", constFetcher("v", &calls), interval, QueryConfig{})
		if pq.interval != DefaultPollInterval {
			t.Fatalf("interval %s: want default %s, got %s", interval, DefaultPollInterval, pq.interval)
		}
		pq.Start(context.Background())

		eventually(t, func() bool { return calls.Load() == 1 })
		pq.Close()
	}
}

func TestPollingQuery_CloseWithoutStart(t *testing.T) {
	m, _ := newTestManager(t)
	var calls atomic.Int32

	pq := NewPollingQuery(m, "k", constFetcher("v", &calls), time.Millisecond, QueryConfig{})
	pq.Close()
	pq.Start(context.Background())

	time.Sleep(10 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("Start after Close must be a no-op")
	}
}

func TestHoverPrefetch_HighPriority(t *testing.T) {
	m, store := newTestManager(t)

	hover := HoverPrefetch(context.Background(), m, "product:9", constFetcher("p9", nil))
	hover()

	eventually(t, func() bool { _, ok := store.Get("product:9"); return ok })
	e, _ := store.Get("product:9")
	if e.Priority != domain.PriorityHigh {
		t.Fatalf("want high priority, got %s", e.Priority)
	}
}

func TestWarmAndBatchWarm(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	Warm(ctx, m, "w", constFetcher(1, nil))
	n := BatchWarm(ctx, m, []Request{
		{Key: "a", Fetcher: constFetcher(1, nil)},
		{Key: "b", Fetcher: constFetcher(2, nil)},
	})
	if n != 2 {
		t.Fatalf("want 2, got %d", n)
	}
	eventually(t, func() bool { return store.Len() == 3 })
}

func TestInvalidator_CloseOnce(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	for _, k := range []string{"order:1", "orders:list:1", "orders:list:2", "keep"} {
		if _, err := m.Fetch(ctx, k, constFetcher(k, nil)); err != nil {
			t.Fatalf("Fetch error: %v", err)
		}
	}

	inv := InvalidateOnClose(m, "order:1").WithPrefixes("orders:list:")
	inv.Close()
	inv.Close()

	if store.Len() != 1 {
		t.Fatalf("want only 'keep' left, got %d entries", store.Len())
	}
	if _, ok := store.Get("keep"); !ok {
		t.Fatalf("unrelated key must stay")
	}
}
