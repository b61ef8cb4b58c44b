package binding

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Gunvolt24/storefront-prefetch/internal/prefetch"
)

// Request — ключ и функция загрузки для пакетных операций.
type Request struct {
	Key     string
	Fetcher prefetch.Fetcher
	Options []prefetch.Option
}

// FetchAll — параллельная загрузка набора ключей через менеджер.
// Любая ошибка проваливает весь набор; возвращаются уже полученные данные и первая ошибка.
func FetchAll(ctx context.Context, m *prefetch.Manager, reqs map[string]Request, extra ...prefetch.Option) (map[string]any, error) {
	var mu sync.Mutex
	out := make(map[string]any, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	for name, req := range reqs {
		g.Go(func() error {
			opts := append(append([]prefetch.Option{}, req.Options...), extra...)
			v, err := m.Fetch(gctx, req.Key, req.Fetcher, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			mu.Lock()
			out[name] = v
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()

	mu.Lock()
	defer mu.Unlock()
	return out, err
}

// MultiState — состояние MultiQuery.
type MultiState struct {
	Data    map[string]any
	Loading bool
	Err     error
}

// MultiQuery — FetchAll с жизненным циклом. При ошибке остаются данные предыдущей успешной загрузки.
type MultiQuery struct {
	m    *prefetch.Manager
	reqs map[string]Request

	st   holder[MultiState]
	life lifetime
	once sync.Once
}

func NewMultiQuery(m *prefetch.Manager, reqs map[string]Request, onChange func(MultiState)) *MultiQuery {
	mq := &MultiQuery{m: m, reqs: reqs, life: newLifetime()}
	mq.st.onChange = onChange
	return mq
}

func (mq *MultiQuery) Start(ctx context.Context) error {
	return mq.load(ctx, false)
}

// RefetchAll — принудительная загрузка всех ключей.
func (mq *MultiQuery) RefetchAll(ctx context.Context) error {
	return mq.load(ctx, true)
}

func (mq *MultiQuery) State() MultiState {
	return mq.st.get()
}

func (mq *MultiQuery) Close() {
	mq.once.Do(func() {
		mq.st.close()
		mq.life.cancel()
	})
}

func (mq *MultiQuery) load(ctx context.Context, force bool) error {
	ctx, cancel := mq.life.bind(ctx)
	defer cancel()

	mq.st.update(func(s *MultiState) { s.Loading = true })

	var extra []prefetch.Option
	if force {
		extra = append(extra, prefetch.WithForce(true))
	}
	data, err := FetchAll(ctx, mq.m, mq.reqs, extra...)

	mq.st.update(func(s *MultiState) {
		s.Loading = false
		if err != nil {
			s.Err = err
			return
		}
		s.Data, s.Err = data, nil
	})
	return err
}
