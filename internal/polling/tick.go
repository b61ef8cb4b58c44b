package polling

import (
	"context"
	"fmt"
	"slices"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	"github.com/Gunvolt24/storefront-prefetch/pkg/metrics"
	"github.com/Gunvolt24/storefront-prefetch/pkg/normalize"
)

// publication — успешный цикл, который осталось разослать подписчикам.
type publication struct {
	seq    uint64
	orders []domain.Order
	subs   []func([]domain.Order)
}

// tick — загрузка → нормализация → уведомления о новых → пополнение seen → новый снимок.
// Подписчиков вызывает не tick, а publish, уже без tickMu.
func (p *OrderPoller) tick(ctx context.Context, token string) (publication, error) {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	raw, err := p.source.FetchMyOrders(ctx, token)
	if err != nil {
		metrics.OrderPollTicks.WithLabelValues("error").Inc()
		return publication{}, fmt.Errorf("fetch my orders: %w", err)
	}

	orders, dropped := p.validator.Filter(ctx, normalize.Orders(raw))
	if dropped > 0 {
		p.log.Warnf(ctx, "order poll dropped invalid records count=%d", dropped)
	}

	p.mu.Lock()
	fresh := p.newWatchedLocked(orders)
	p.mu.Unlock()

	now := p.now()
	for i := range fresh {
		alert := domain.NewAlert(&fresh[i], now)
		metrics.OrderAlerts.WithLabelValues(alert.Status).Inc()
		if err := p.notifier.Notify(ctx, alert); err != nil {
			p.log.Warnf(ctx, "order alert failed order_id=%s: %v", alert.OrderID, err)
		}
	}

	p.mu.Lock()
	for i := range orders {
		p.seen[orders[i].ID] = struct{}{}
	}
	p.snapshot, p.updatedAt = orders, now
	p.seq++
	pub := publication{seq: p.seq, orders: orders, subs: make([]func([]domain.Order), 0, len(p.subs))}
	for _, fn := range p.subs {
		pub.subs = append(pub.subs, fn)
	}
	p.mu.Unlock()

	metrics.OrderPollTicks.WithLabelValues("ok").Inc()
	metrics.OrderSnapshotSize.Set(float64(len(orders)))
	return pub, nil
}

// publish — рассылает список подписчикам. Если за время рассылки появился более новый
// снимок, устаревший список дальше не рассылается.
func (p *OrderPoller) publish(pub publication) {
	for _, fn := range pub.subs {
		p.mu.Lock()
		stale := p.seq != pub.seq
		p.mu.Unlock()
		if stale {
			return
		}
		fn(slices.Clone(pub.orders))
	}
}

// newWatchedLocked — ещё не виденные заказы в наблюдаемых статусах. Вызывается под p.mu.
// Повтор id внутри одного ответа уведомления не порождает.
func (p *OrderPoller) newWatchedLocked(orders []domain.Order) []domain.Order {
	var fresh []domain.Order
	picked := make(map[string]struct{})
	for i := range orders {
		id := orders[i].ID
		if _, seen := p.seen[id]; seen {
			continue
		}
		if _, dup := picked[id]; dup {
			continue
		}
		if _, watched := p.watch[orders[i].Status]; !watched {
			continue
		}
		picked[id] = struct{}{}
		fresh = append(fresh, orders[i])
	}
	return fresh
}
