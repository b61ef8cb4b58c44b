package binding

import (
	"context"
	"sync"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	"github.com/Gunvolt24/storefront-prefetch/internal/prefetch"
)

// Warm — фоновая загрузка ключа без состояния для вызывающего.
func Warm(ctx context.Context, m *prefetch.Manager, key string, fetcher prefetch.Fetcher, opts ...prefetch.Option) {
	m.Prefetch(ctx, key, fetcher, opts...)
}

// BatchWarm — Warm для каждого запроса списка. Возвращает число запросов.
func BatchWarm(ctx context.Context, m *prefetch.Manager, reqs []Request) int {
	for _, r := range reqs {
		m.Prefetch(ctx, r.Key, r.Fetcher, r.Options...)
	}
	return len(reqs)
}

// HoverPrefetch — обработчик «наведения»: загружает ключ с высоким приоритетом.
func HoverPrefetch(ctx context.Context, m *prefetch.Manager, key string, fetcher prefetch.Fetcher, opts ...prefetch.Option) func() {
	opts = append(append([]prefetch.Option{}, opts...), prefetch.WithPriority(domain.PriorityHigh))
	return func() {
		m.Prefetch(ctx, key, fetcher, opts...)
	}
}

// Invalidator — инвалидирует ключи и префиксы при Close (после изменяющего действия).
type Invalidator struct {
	m        *prefetch.Manager
	keys     []string
	prefixes []string
	once     sync.Once
}

func InvalidateOnClose(m *prefetch.Manager, keys ...string) *Invalidator {
	return &Invalidator{m: m, keys: keys}
}

// WithPrefixes — дополнительно инвалидировать все ключи с этими префиксами.
func (i *Invalidator) WithPrefixes(prefixes ...string) *Invalidator {
	i.prefixes = append(i.prefixes, prefixes...)
	return i
}

// Close — инвалидирует ключи один раз.
func (i *Invalidator) Close() {
	i.once.Do(func() {
		for _, k := range i.keys {
			i.m.Invalidate(k)
		}
		for _, p := range i.prefixes {
			i.m.InvalidatePrefix(p)
		}
	})
}
