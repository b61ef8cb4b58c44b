package binding

import (
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/storefront-prefetch/internal/prefetch"
)

// PollingQuery — принудительная загрузка ключа сразу и затем раз в interval.
// У каждого PollingQuery свой таймер; одновременные запросы схлопывает менеджер.
type PollingQuery struct {
	m        *prefetch.Manager
	key      string
	fetcher  prefetch.Fetcher
	interval time.Duration
	opts     []prefetch.Option

	st   holder[State]
	life lifetime

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}
}

// DefaultPollInterval — период опроса при interval <= 0.
const DefaultPollInterval = 30 * time.Second

// NewPollingQuery — конструктор; interval <= 0 заменяется на DefaultPollInterval.
func NewPollingQuery(m *prefetch.Manager, key string, fetcher prefetch.Fetcher, interval time.Duration, cfg QueryConfig) *PollingQuery {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	pq := &PollingQuery{
		m:        m,
		key:      key,
		fetcher:  fetcher,
		interval: interval,
		opts:     append(append([]prefetch.Option{}, cfg.Options...), prefetch.WithForce(true)),
		life:     newLifetime(),
		done:     make(chan struct{}),
	}
	pq.st.onChange = cfg.OnChange
	return pq
}

// Start — запускает цикл опроса. Цикл живёт до Close или отмены ctx.
func (pq *PollingQuery) Start(ctx context.Context) {
	pq.startOnce.Do(func() {
		ctx, cancel := pq.life.bind(ctx)
		go func() {
			defer close(pq.done)
			defer cancel()
			pq.loop(ctx)
		}()
	})
}

func (pq *PollingQuery) State() State {
	return pq.st.get()
}

// Close — останавливает таймер и ждёт выхода из цикла.
func (pq *PollingQuery) Close() {
	pq.closeOnce.Do(func() {
		pq.st.close()
		pq.life.cancel()

		started := true
		pq.startOnce.Do(func() { started = false })
		if started {
			<-pq.done
		}
	})
}

func (pq *PollingQuery) loop(ctx context.Context) {
	pq.tick(ctx)

	ticker := time.NewTicker(pq.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pq.tick(ctx)
		}
	}
}

func (pq *PollingQuery) tick(ctx context.Context) {
	pq.st.update(func(s *State) { s.Loading = true })

	v, err := pq.m.Fetch(ctx, pq.key, pq.fetcher, pq.opts...)

	pq.st.update(func(s *State) {
		s.Loading = false
		if err != nil {
			s.Err = err
			return
		}
		s.Data, s.Err = v, nil
	})
}
