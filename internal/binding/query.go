package binding

import (
	"context"
	"sync"

	"github.com/Gunvolt24/storefront-prefetch/internal/prefetch"
)

// QueryConfig — параметры Query.
type QueryConfig struct {
	Options  []prefetch.Option
	Skip     bool        // не загружать вовсе, Loading=false
	OnChange func(State) // вызывается при каждом изменении состояния
}

// Query — загрузка ключа через менеджер с жизненным циклом потребителя:
// Start подписывается на свежие данные и загружает ключ, Close отписывается
// и прекращает ожидание. После Close состояние не меняется.
type Query struct {
	m       *prefetch.Manager
	key     string
	fetcher prefetch.Fetcher
	cfg     QueryConfig

	st    holder[State]
	life  lifetime
	unsub func()
	once  sync.Once
}

func NewQuery(m *prefetch.Manager, key string, fetcher prefetch.Fetcher, cfg QueryConfig) *Query {
	q := &Query{
		m:       m,
		key:     key,
		fetcher: fetcher,
		cfg:     cfg,
		life:    newLifetime(),
	}
	q.st.onChange = cfg.OnChange
	return q
}

// Start — подписка и первая загрузка. Возвращает ошибку первой загрузки (она же в State).
func (q *Query) Start(ctx context.Context) error {
	if q.cfg.Skip {
		q.st.update(func(s *State) { s.Loading = false })
		return nil
	}

	unsub := q.m.Subscribe(q.key, func(v any) {
		q.st.update(func(s *State) {
			s.Data, s.Err, s.Loading = v, nil, false
		})
	})
	q.st.mu.Lock()
	closed := q.st.closed
	if !closed {
		q.unsub = unsub
	}
	q.st.mu.Unlock()
	if closed {
		unsub()
		return nil
	}

	return q.load(ctx, false)
}

// Refetch — принудительная загрузка в обход кэша.
func (q *Query) Refetch(ctx context.Context) error {
	if q.cfg.Skip {
		return nil
	}
	return q.load(ctx, true)
}

func (q *Query) State() State {
	return q.st.get()
}

// Close — отписка и отказ от ожидания текущей загрузки.
func (q *Query) Close() {
	q.once.Do(func() {
		q.st.close()
		q.life.cancel()

		q.st.mu.Lock()
		unsub := q.unsub
		q.st.mu.Unlock()
		if unsub != nil {
			unsub()
		}
	})
}

func (q *Query) load(ctx context.Context, force bool) error {
	ctx, cancel := q.life.bind(ctx)
	defer cancel()

	q.st.update(func(s *State) { s.Loading = true })

	opts := append([]prefetch.Option{}, q.cfg.Options...)
	if force {
		opts = append(opts, prefetch.WithForce(true))
	}
	v, err := q.m.Fetch(ctx, q.key, q.fetcher, opts...)

	q.st.update(func(s *State) {
		s.Loading = false
		if err != nil {
			s.Err = err
			return
		}
		s.Data, s.Err = v, nil
	})
	return err
}
