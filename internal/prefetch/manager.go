package prefetch

import (
	"context"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
	"github.com/Gunvolt24/storefront-prefetch/pkg/metrics"
)

const tracerName = "github.com/Gunvolt24/storefront-prefetch/internal/prefetch"

// Режимы загрузки (метка метрик и атрибут span).
const (
	modeForeground = "foreground"
	modeBackground = "background"
	modePrefetch   = "prefetch"
)

// Manager — кэш с дедупликацией одновременных загрузок, фоновым обновлением
// устаревших записей и рассылкой свежих данных подписчикам.
//
// Порядок блокировок: mu менеджера, затем мьютекс хранилища.
type Manager struct {
	store  ports.EntryStore
	log    ports.Logger
	tracer trace.Tracer

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu       sync.Mutex
	inflight map[string]*call
	subs     map[string]map[uint64]func(any)
	nextID   uint64
	closed   bool
}

// ManagerOption — настройка Manager.
type ManagerOption func(*Manager)

// WithTracerProvider — провайдер трассировки для span'ов загрузок (по умолчанию глобальный).
func WithTracerProvider(tp trace.TracerProvider) ManagerOption {
	return func(m *Manager) { m.tracer = tp.Tracer(tracerName) }
}

// NewManager — конструктор. Менеджер владеет фоновыми загрузками до вызова Close.
func NewManager(store ports.EntryStore, log ports.Logger, opts ...ManagerOption) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		store:    store,
		log:      log,
		tracer:   otel.Tracer(tracerName),
		baseCtx:  ctx,
		cancel:   cancel,
		inflight: make(map[string]*call),
		subs:     make(map[string]map[uint64]func(any)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fetch — вернуть данные по ключу из кэша или загрузить их.
//  1. свежая запись без force — отдаётся сразу, fetcher не вызывается;
//  2. устаревшая запись при background — отдаются старые данные, обновление идёт в фоне;
//  3. промах, force или background=false — присоединяемся к текущей загрузке ключа или начинаем новую.
//
// Ошибка fetcher'а возвращается всем ожидающим. Отмена ctx прекращает ожидание, но не саму загрузку
// (см. WithCancelOnAbandon).
func (m *Manager) Fetch(ctx context.Context, key string, fetcher Fetcher, opts ...Option) (any, error) {
	o := buildOptions(opts)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}

	entry, fresh, ok := m.store.Lookup(key)
	if !o.force && ok && fresh {
		m.mu.Unlock()
		metrics.PrefetchRequests.WithLabelValues("hit").Inc()
		return entry.Data, nil
	}

	if !o.force && ok && o.background {
		m.startLocked(ctx, key, fetcher, o, modeBackground)
		m.mu.Unlock()
		metrics.PrefetchRequests.WithLabelValues("stale").Inc()
		return entry.Data, nil
	}

	c, joined := m.inflight[key], true
	if c == nil {
		c, joined = m.startLocked(ctx, key, fetcher, o, modeForeground), false
	}
	c.waiters++
	if !o.cancelOnAbandon {
		c.keep = true
	}
	m.mu.Unlock()

	if joined {
		metrics.PrefetchRequests.WithLabelValues("joined").Inc()
	} else {
		metrics.PrefetchRequests.WithLabelValues("miss").Inc()
	}

	return m.wait(ctx, key, c)
}

// Prefetch — загрузка без ожидания результата. Свежий ключ пропускается; ошибки только логируются.
func (m *Manager) Prefetch(ctx context.Context, key string, fetcher Fetcher, opts ...Option) {
	o := buildOptions(opts)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	if m.store.IsValid(key) {
		metrics.PrefetchRequests.WithLabelValues("skipped").Inc()
		return
	}
	m.startLocked(ctx, key, fetcher, o, modePrefetch)
}

// Subscribe — подписка на свежие данные ключа. Возвращает функцию отписки,
// которая удаляет только этого подписчика.
func (m *Manager) Subscribe(key string, fn func(any)) (unsubscribe func()) {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	if m.subs[key] == nil {
		m.subs[key] = make(map[uint64]func(any))
	}
	m.subs[key][id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if set, ok := m.subs[key]; ok {
				delete(set, id)
				if len(set) == 0 {
					delete(m.subs, key)
				}
			}
		})
	}
}

// Invalidate — удаляет запись и отвязывает текущую загрузку ключа: её результат
// получат ожидающие, но в кэш он не попадёт.
func (m *Manager) Invalidate(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.inflight, key)
	m.store.Invalidate(key)
}

// InvalidatePrefix — Invalidate для всех ключей с префиксом. Возвращает число удалённых записей.
func (m *Manager) InvalidatePrefix(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.inflight {
		if strings.HasPrefix(key, prefix) {
			delete(m.inflight, key)
		}
	}
	return m.store.InvalidatePrefix(prefix)
}

// Clear — очищает кэш и реестр текущих загрузок.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inflight = make(map[string]*call)
	m.store.Clear()
}

// Stats — диагностика записей кэша.
func (m *Manager) Stats() []domain.EntryStats {
	return m.store.Stats()
}

// InFlight — число ключей, для которых сейчас идёт загрузка.
func (m *Manager) InFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inflight)
}

// Close — отменяет все текущие загрузки и ждёт их завершения. Повторный вызов безопасен.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()
}
