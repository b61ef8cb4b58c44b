package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
)

// fakeClock — управляемое время для проверок TTL.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestSetGet_HitMiss(t *testing.T) {
	s := NewStore(0)

	if _, ok := s.Get("k"); ok {
		t.Fatalf("expected miss before Set")
	}

	s.Set("k", "v", time.Minute, domain.PriorityHigh)
	got, ok := s.Get("k")
	if !ok || got.Data != "v" || got.Priority != domain.PriorityHigh || got.Stale {
		t.Fatalf("unexpected entry after Set: %+v ok=%v", got, ok)
	}
}

func TestSet_Defaults(t *testing.T) {
	s := NewStore(0, WithDefaultTTL(time.Minute))

	s.Set("k", 1, 0, "")
	got, _ := s.Get("k")
	if got.TTL != time.Minute || got.Priority != domain.PriorityMedium {
		t.Fatalf("defaults not applied: %+v", got)
	}
}

// Запись свежа ровно до age == TTL и помечается stale только после.
func TestIsValid_TTLBoundary(t *testing.T) {
	clk := newFakeClock()
	s := NewStore(0, WithClock(clk.Now))

	s.Set("k", "v", 100*time.Millisecond, domain.PriorityMedium)

	clk.Advance(100 * time.Millisecond)
	if !s.IsValid("k") {
		t.Fatalf("expected valid at age == ttl")
	}
	if e, _ := s.Get("k"); e.Stale {
		t.Fatalf("entry must not be stale at age == ttl")
	}

	clk.Advance(time.Millisecond)
	if s.IsValid("k") {
		t.Fatalf("expected invalid after ttl")
	}
	e, ok := s.Get("k")
	if !ok || !e.Stale {
		t.Fatalf("expired entry must be kept and marked stale: %+v ok=%v", e, ok)
	}
}

func TestSet_ResetsStale(t *testing.T) {
	clk := newFakeClock()
	s := NewStore(0, WithClock(clk.Now))

	s.Set("k", "old", time.Second, domain.PriorityMedium)
	clk.Advance(2 * time.Second)
	_ = s.IsValid("k")

	s.Set("k", "new", time.Second, domain.PriorityMedium)
	e, fresh, ok := s.Lookup("k")
	if !ok || !fresh || e.Stale || e.Data != "new" {
		t.Fatalf("Set must replace entry and reset stale: %+v fresh=%v", e, fresh)
	}
}

func TestLookup_MissStaleFresh(t *testing.T) {
	clk := newFakeClock()
	s := NewStore(0, WithClock(clk.Now))

	if _, _, ok := s.Lookup("none"); ok {
		t.Fatalf("expected miss")
	}

	s.Set("k", "v", time.Second, domain.PriorityLow)
	if _, fresh, ok := s.Lookup("k"); !ok || !fresh {
		t.Fatalf("expected fresh hit")
	}

	clk.Advance(2 * time.Second)
	e, fresh, ok := s.Lookup("k")
	if !ok || fresh || !e.Stale || e.Data != "v" {
		t.Fatalf("expected stale hit with old data: %+v fresh=%v ok=%v", e, fresh, ok)
	}
}

func TestInvalidate_AndPrefix(t *testing.T) {
	s := NewStore(0)
	s.Set("api:anon:/products/", 1, 0, "")
	s.Set("api:anon:/products/1", 2, 0, "")
	s.Set("api:anon:/orders/", 3, 0, "")

	s.Invalidate("api:anon:/orders/")
	if _, ok := s.Get("api:anon:/orders/"); ok {
		t.Fatalf("expected key removed")
	}
	// повторная инвалидация отсутствующего ключа — без паники
	s.Invalidate("api:anon:/orders/")

	if n := s.InvalidatePrefix("api:anon:/products"); n != 2 {
		t.Fatalf("InvalidatePrefix: want 2, got %d", n)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
}

func TestClear(t *testing.T) {
	s := NewStore(0)
	s.Set("a", 1, 0, "")
	s.Set("b", 2, 0, "")

	s.Clear()
	if s.Len() != 0 || len(s.Stats()) != 0 {
		t.Fatalf("expected empty store after Clear")
	}
}

func TestStats_SortedWithAge(t *testing.T) {
	clk := newFakeClock()
	s := NewStore(0, WithClock(clk.Now))

	s.Set("b", 1, time.Second, domain.PriorityLow)
	clk.Advance(500 * time.Millisecond)
	s.Set("a", 2, time.Minute, domain.PriorityHigh)
	clk.Advance(time.Second)

	st := s.Stats()
	if len(st) != 2 || st[0].Key != "a" || st[1].Key != "b" {
		t.Fatalf("unexpected stats order: %+v", st)
	}
	if st[0].Age != time.Second || st[0].Expired {
		t.Fatalf("unexpected stats for a: %+v", st[0])
	}
	if st[1].Age != 1500*time.Millisecond || !st[1].Expired {
		t.Fatalf("unexpected stats for b: %+v", st[1])
	}
}

func TestLRUEviction(t *testing.T) {
	s := NewStore(2)

	s.Set("A", 1, 0, "")
	s.Set("B", 2, 0, "")
	// A становится «свежим» по использованию
	if _, _, ok := s.Lookup("A"); !ok {
		t.Fatalf("expected hit for A")
	}
	// C вытесняет B
	s.Set("C", 3, 0, "")

	if _, ok := s.Get("B"); ok {
		t.Fatalf("expected B to be evicted")
	}
	if _, ok := s.Get("A"); !ok || s.ll.Len() != 2 {
		t.Fatalf("expected A & C to stay in store")
	}
}

func TestUnbounded_NoEviction(t *testing.T) {
	s := NewStore(0)
	for i := 0; i < 100; i++ {
		s.Set(string(rune('a'+i%26))+string(rune('0'+i/26)), i, 0, "")
	}
	if s.Len() != 100 {
		t.Fatalf("want 100 entries, got %d", s.Len())
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore(50)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := string(rune('a' + (g+i)%26))
				s.Set(key, i, time.Millisecond, "")
				_, _, _ = s.Lookup(key)
				_ = s.Stats()
				if i%50 == 0 {
					s.InvalidatePrefix(key)
				}
			}
		}(g)
	}
	wg.Wait()
	if s.Len() > 50 {
		t.Fatalf("bound exceeded: %d", s.Len())
	}
}
