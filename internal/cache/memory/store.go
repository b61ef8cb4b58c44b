package memory

import (
	"container/list"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
	"github.com/Gunvolt24/storefront-prefetch/pkg/metrics"
)

// Проверка, что Store удовлетворяет интерфейсу EntryStore.
var _ ports.EntryStore = (*Store)(nil)

// Store — потокобезопасное хранилище записей с TTL и пометкой stale.
// Истёкшие записи остаются доступными (stale-while-revalidate) и удаляются
// только явной инвалидацией или вытеснением LRU при заданном maxEntries.
type Store struct {
	maxEntries int
	defaultTTL time.Duration
	now        func() time.Time

	ll    *list.List
	index map[string]*list.Element

	mu sync.Mutex
}

// Option — настройка Store.
type Option func(*Store)

// WithClock — подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDefaultTTL — TTL для записей, у которых он не задан.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.defaultTTL = ttl
		}
	}
}

// NewStore — конструктор. maxEntries <= 0 — без ограничения размера.
func NewStore(maxEntries int, opts ...Option) *Store {
	s := &Store{
		maxEntries: maxEntries,
		defaultTTL: domain.DefaultTTL,
		now:        time.Now,
		ll:         list.New(),
		index:      make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Set(key string, data any, ttl time.Duration, priority domain.Priority) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	if priority == "" {
		priority = domain.PriorityMedium
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ent := &domain.Entry{
		Key:       key,
		Data:      data,
		Timestamp: s.now(),
		TTL:       ttl,
		Priority:  priority,
	}

	if elem, ok := s.index[key]; ok {
		elem.Value = ent
		s.ll.MoveToFront(elem)
		return
	}

	s.index[key] = s.ll.PushFront(ent)
	if s.maxEntries > 0 && s.ll.Len() > s.maxEntries {
		s.evictLRU()
	}
	metrics.CacheSize.Set(float64(len(s.index)))
}

func (s *Store) IsValid(key string) bool {
	_, fresh, _ := s.Lookup(key)
	return fresh
}

func (s *Store) Get(key string) (domain.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.index[key]
	if !ok {
		return domain.Entry{}, false
	}
	return *elem.Value.(*domain.Entry), true
}

func (s *Store) Lookup(key string) (entry domain.Entry, fresh, ok bool) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	elem, found := s.index[key]
	if !found {
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return domain.Entry{}, false, false
	}
	ent := elem.Value.(*domain.Entry)
	s.ll.MoveToFront(elem)

	if ent.Expired(now) {
		// переход только false → true; обратно — лишь через Set
		ent.Stale = true
		metrics.CacheOps.WithLabelValues("stale").Inc()
		return *ent, false, true
	}

	metrics.CacheOps.WithLabelValues("hit").Inc()
	return *ent, true, true
}

func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.index[key]; ok {
		s.removeElement(elem)
		metrics.CacheOps.WithLabelValues("invalidated").Inc()
		metrics.CacheSize.Set(float64(len(s.index)))
	}
}

// InvalidatePrefix — удаляет все записи, ключ которых начинается с prefix.
func (s *Store) InvalidatePrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, elem := range s.index {
		if strings.HasPrefix(key, prefix) {
			s.removeElement(elem)
			removed++
		}
	}
	if removed > 0 {
		metrics.CacheOps.WithLabelValues("invalidated").Add(float64(removed))
		metrics.CacheSize.Set(float64(len(s.index)))
	}
	return removed
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ll.Init()
	s.index = make(map[string]*list.Element)
	metrics.CacheSize.Set(0)
}

// Stats — все записи с вычисленными возрастом и свежестью, отсортированные по ключу.
func (s *Store) Stats() []domain.EntryStats {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.EntryStats, 0, len(s.index))
	for _, elem := range s.index {
		ent := elem.Value.(*domain.Entry)
		out = append(out, domain.EntryStats{
			Key:      ent.Key,
			Age:      ent.Age(now),
			TTL:      ent.TTL,
			Priority: ent.Priority,
			Stale:    ent.Stale,
			Expired:  ent.Expired(now),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.index)
}
