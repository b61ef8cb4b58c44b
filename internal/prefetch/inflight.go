package prefetch

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/storefront-prefetch/pkg/metrics"
)

// call — общая загрузка ключа, к которой присоединяются одновременные запросы.
type call struct {
	done chan struct{}
	val  any
	err  error

	cancel  context.CancelFunc
	opts    options
	mode    string
	waiters int  // под m.mu
	keep    bool // под m.mu; не отменять, даже если ожидающих не осталось
}

// startLocked — присоединиться к текущей загрузке ключа или начать новую. Вызывается под m.mu.
func (m *Manager) startLocked(callerCtx context.Context, key string, fetcher Fetcher, o options, mode string) *call {
	if c, ok := m.inflight[key]; ok {
		if mode != modeForeground {
			c.keep = true
		}
		return c
	}

	spanCtx, span := m.tracer.Start(m.baseCtx, "prefetch.fetch",
		trace.WithLinks(trace.LinkFromContext(callerCtx)),
		trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.String("prefetch.mode", mode),
		),
	)
	fetchCtx, cancel := context.WithCancel(spanCtx)

	c := &call{
		done:   make(chan struct{}),
		cancel: cancel,
		opts:   o,
		mode:   mode,
		keep:   mode != modeForeground,
	}
	m.inflight[key] = c

	m.wg.Add(1)
	metrics.PrefetchInFlight.Inc()
	go m.run(fetchCtx, span, key, c, fetcher)

	return c
}

// run — выполняет fetcher, сохраняет результат и оповещает подписчиков.
// Результат отвязанной загрузки (Invalidate/Clear) в кэш не пишется,
// но подписчики получают его, как и после любой успешной загрузки.
func (m *Manager) run(ctx context.Context, span trace.Span, key string, c *call, fetcher Fetcher) {
	defer m.wg.Done()
	defer metrics.PrefetchInFlight.Dec()
	defer span.End()

	start := time.Now()
	val, err := invoke(ctx, fetcher)
	metrics.PrefetchFetchDuration.WithLabelValues(c.mode).Observe(time.Since(start).Seconds())

	var subs []func(any)

	m.mu.Lock()
	owned := m.inflight[key] == c
	if owned {
		delete(m.inflight, key)
	}
	if err == nil {
		if owned {
			m.store.Set(key, val, c.opts.ttl, c.opts.priority)
		}
		subs = m.subscribersLocked(key)
	}
	m.mu.Unlock()

	if err != nil {
		metrics.PrefetchFetches.WithLabelValues(c.mode, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if c.mode != modeForeground {
			m.log.Warnf(ctx, "%s fetch failed key=%s: %v", c.mode, key, err)
		}
	} else {
		metrics.PrefetchFetches.WithLabelValues(c.mode, "ok").Inc()
		span.SetAttributes(attribute.Bool("prefetch.stored", owned))
	}

	for _, fn := range subs {
		m.notify(ctx, key, fn, val)
	}

	c.val, c.err = val, err
	close(c.done)
	c.cancel()
}

// wait — ждёт результат загрузки или отмену ctx вызывающего.
func (m *Manager) wait(ctx context.Context, key string, c *call) (any, error) {
	select {
	case <-c.done:
		return c.val, c.err
	case <-ctx.Done():
	}

	// готовый результат важнее одновременной отмены
	select {
	case <-c.done:
		return c.val, c.err
	default:
	}

	m.mu.Lock()
	c.waiters--
	if c.waiters == 0 && !c.keep {
		// загрузку больше никто не ждёт: отменяем и отвязываем, чтобы новые запросы не получили отмену
		if m.inflight[key] == c {
			delete(m.inflight, key)
		}
		c.cancel()
	}
	m.mu.Unlock()

	return nil, ctx.Err()
}

// subscribersLocked — снимок подписчиков ключа на момент публикации. Вызывается под m.mu.
func (m *Manager) subscribersLocked(key string) []func(any) {
	set := m.subs[key]
	if len(set) == 0 {
		return nil
	}
	out := make([]func(any), 0, len(set))
	for _, fn := range set {
		out = append(out, fn)
	}
	return out
}

// notify — вызывает подписчика; его паника не ломает рассылку остальным.
func (m *Manager) notify(ctx context.Context, key string, fn func(any), val any) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Errorf(ctx, "subscriber panicked key=%s: %v", key, r)
		}
	}()
	fn(val)
}

// invoke — вызов fetcher'а с перехватом паники.
func invoke(ctx context.Context, fetcher Fetcher) (val any, err error) {
	defer func() {
		if r := recover(); r != nil {
			val, err = nil, fmt.Errorf("%w: %v", ErrFetcherPanic, r)
		}
	}()
	return fetcher(ctx)
}
