package polling

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
	"github.com/Gunvolt24/storefront-prefetch/pkg/metrics"
	"github.com/Gunvolt24/storefront-prefetch/pkg/validate"
)

// DefaultInterval — период опроса, если он не задан.
const DefaultInterval = 15 * time.Second

// ErrNoToken — ручное обновление без токена, а поллер ещё ни разу не запускался.
var ErrNoToken = errors.New("order poller: token is required")

// Config — параметры поллера.
type Config struct {
	WatchStatuses []string         // статусы, о новых заказах в которых нужно уведомлять
	Now           func() time.Time // источник времени (для тестов)
}

// OrderPoller — живой список «моих заказов» одного пользователя: периодически забирает весь список,
// уведомляет о впервые увиденных заказах в наблюдаемых статусах и рассылает список подписчикам.
type OrderPoller struct {
	source    ports.OrderSource
	notifier  ports.Notifier
	validator *validate.OrderValidator
	log       ports.Logger
	watch     map[string]struct{}
	now       func() time.Time

	// tickMu — циклы (по таймеру и ручные) выполняются строго по одному
	tickMu sync.Mutex

	mu        sync.Mutex
	seen      map[string]struct{}
	snapshot  []domain.Order
	updatedAt time.Time
	subs      map[uint64]func([]domain.Order)
	nextID    uint64
	seq       uint64 // номер последнего снимка
	token     string
	cancel    context.CancelFunc
	done      chan struct{}
	// publishing — done цикла, который сейчас вызывает подписчиков из своей горутины
	publishing chan struct{}
}

// NewOrderPoller — конструктор. Пустой WatchStatuses → requested, ready.
func NewOrderPoller(source ports.OrderSource, notifier ports.Notifier, log ports.Logger, cfg Config) *OrderPoller {
	statuses := cfg.WatchStatuses
	if len(statuses) == 0 {
		statuses = []string{domain.StatusRequested, domain.StatusReady}
	}
	watch := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		watch[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &OrderPoller{
		source:    source,
		notifier:  notifier,
		validator: validate.NewOrderValidator(),
		log:       log,
		watch:     watch,
		now:       now,
		seen:      make(map[string]struct{}),
		subs:      make(map[uint64]func([]domain.Order)),
	}
}

// StartPolling — stopped → polling: один цикл сразу, затем раз в interval.
// Повторный вызов во время опроса ничего не делает.
func (p *OrderPoller) StartPolling(ctx context.Context, token string, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		p.log.Infof(ctx, "order polling already running, start ignored")
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel, p.done, p.token = cancel, done, token
	p.mu.Unlock()

	p.log.Infof(ctx, "order polling started interval=%s", interval)

	go func() {
		defer close(done)
		p.loop(loopCtx, token, interval, done)

		// цикл мог завершиться по отмене родительского ctx
		p.mu.Lock()
		if p.done == done {
			p.cancel, p.done = nil, nil
		}
		p.mu.Unlock()
		cancel()
	}()
}

// StopPolling — polling → stopped: отменяет текущий цикл и ждёт выхода из него.
// Вызов из подписчика, которого рассылает сам цикл, не ждёт: цикл завершится
// сразу после рассылки, новых циклов не будет.
func (p *OrderPoller) StopPolling() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	fromLoop := done != nil && p.publishing == done
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if !fromLoop {
		<-done
	}
}

func (p *OrderPoller) IsPolling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// RefreshNow — один внеплановый цикл. Пустой token → токен последнего StartPolling.
// Ошибка загрузки возвращается вызывающему, состояние при этом не меняется.
func (p *OrderPoller) RefreshNow(ctx context.Context, token string) error {
	if token == "" {
		p.mu.Lock()
		token = p.token
		p.mu.Unlock()
	}
	if token == "" {
		return ErrNoToken
	}
	pub, err := p.tick(ctx, token)
	if err != nil {
		return err
	}
	p.publish(pub)
	return nil
}

// Subscribe — подписка на полный список после каждого успешного цикла.
// fn вызывается без внутренних блокировок поллера: из него можно звать StopPolling, Reset, RefreshNow.
func (p *OrderPoller) Subscribe(fn func([]domain.Order)) (unsubscribe func()) {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// Snapshot — последний успешно полученный список и время его получения.
func (p *OrderPoller) Snapshot() ([]domain.Order, time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.snapshot), p.updatedAt
}

// Reset — забывает увиденные заказы и последний список. Опрос не останавливает.
func (p *OrderPoller) Reset() {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	p.mu.Lock()
	p.seen = make(map[string]struct{})
	p.snapshot, p.updatedAt = nil, time.Time{}
	p.mu.Unlock()
	metrics.OrderSnapshotSize.Set(0)
}

func (p *OrderPoller) loop(ctx context.Context, token string, interval time.Duration, done chan struct{}) {
	p.runTick(ctx, token, done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Infof(ctx, "order polling stopped")
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			p.runTick(ctx, token, done)
		}
	}
}

// runTick — цикл по таймеру: ошибки только логируются.
func (p *OrderPoller) runTick(ctx context.Context, token string, done chan struct{}) {
	pub, err := p.tick(ctx, token)
	if err != nil {
		if ctx.Err() == nil {
			p.log.Warnf(ctx, "order poll failed: %v (keeping previous snapshot)", err)
		}
		return
	}

	p.mu.Lock()
	p.publishing = done
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.publishing = nil
		p.mu.Unlock()
	}()
	p.publish(pub)
}
