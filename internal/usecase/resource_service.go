package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/Gunvolt24/storefront-prefetch/internal/binding"
	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
	"github.com/Gunvolt24/storefront-prefetch/internal/prefetch"
)

var _ ports.ResourceReader = (*ResourceService)(nil)

// ResourceService — чтение ресурсов upstream через менеджер предзагрузки.
type ResourceService struct {
	m   *prefetch.Manager
	res prefetch.Typed[json.RawMessage]
	up  ports.Upstream
	log ports.Logger
	now func() time.Time
}

// NewResourceService — DI-конструктор.
func NewResourceService(m *prefetch.Manager, up ports.Upstream, log ports.Logger) *ResourceService {
	return &ResourceService{
		m:   m,
		res: prefetch.NewTyped[json.RawMessage](m),
		up:  up,
		log: log,
		now: time.Now,
	}
}

// fetcher — загрузка ресурса. Токен и путь захватываются, ctx приходит от менеджера.
func (s *ResourceService) fetcher(path string, query url.Values, token string) func(context.Context) (json.RawMessage, error) {
	return func(ctx context.Context) (json.RawMessage, error) {
		body, err := s.up.Get(ctx, path, query, token)
		if err != nil {
			return nil, err
		}
		if !json.Valid(body) {
			return nil, fmt.Errorf("%w: path=%s", ErrBadPayload, path)
		}
		return json.RawMessage(body), nil
	}
}

func (s *ResourceService) request(path string, query url.Values, token string) binding.Request {
	return binding.Request{
		Key:     CacheKey(token, path, query),
		Fetcher: func(ctx context.Context) (any, error) { return s.fetcher(path, query, token)(ctx) },
	}
}

// Get — ресурс из кэша или upstream. Fresh принудительно идёт в upstream.
func (s *ResourceService) Get(ctx context.Context, req ports.ResourceRequest) (json.RawMessage, error) {
	key := CacheKey(req.Token, req.Path, req.Query)

	var opts []prefetch.Option
	if req.Fresh {
		opts = append(opts, prefetch.WithForce(true))
	}

	data, err := s.res.Fetch(ctx, key, s.fetcher(req.Path, req.Query, req.Token), opts...)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", req.Path, err)
	}
	return data, nil
}

// Batch — параллельная загрузка нескольких ресурсов. Ключ результата — исходная строка пути.
func (s *ResourceService) Batch(ctx context.Context, token string, targets []string) (map[string]json.RawMessage, error) {
	reqs := make(map[string]binding.Request, len(targets))
	for _, t := range targets {
		path, query, err := splitTarget(t)
		if err != nil {
			return nil, fmt.Errorf("parse path %q: %w", t, err)
		}
		reqs[t] = s.request(path, query, token)
	}

	data, err := binding.FetchAll(ctx, s.m, reqs)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}

	out := make(map[string]json.RawMessage, len(data))
	for name, v := range data {
		raw, ok := v.(json.RawMessage)
		if !ok {
			return nil, fmt.Errorf("batch %s: %w", name, prefetch.ErrTypeMismatch)
		}
		out[name] = raw
	}
	return out, nil
}

// Warm — фоновый прогрев списка путей. Возвращает число принятых путей; непарсящиеся пропускаются.
func (s *ResourceService) Warm(ctx context.Context, token string, targets []string) int {
	reqs := make([]binding.Request, 0, len(targets))
	for _, t := range targets {
		path, query, err := splitTarget(t)
		if err != nil {
			s.log.Warnf(ctx, "warm: skip bad path=%q err=%v", t, err)
			continue
		}
		reqs = append(reqs, s.request(path, query, token))
	}
	return binding.BatchWarm(ctx, s.m, reqs)
}

// Hint — предзагрузка по «наведению» с высоким приоритетом.
func (s *ResourceService) Hint(ctx context.Context, token, target string) {
	path, query, err := splitTarget(target)
	if err != nil {
		s.log.Warnf(ctx, "hint: skip bad path=%q err=%v", target, err)
		return
	}
	r := s.request(path, query, token)
	binding.HoverPrefetch(ctx, s.m, r.Key, r.Fetcher)()
}

// Watch — поток состояний ресурса до отмены ctx. interval > 0 — периодическое обновление,
// иначе одна загрузка и push-обновления от других запросов. Повторы одинакового состояния не отправляются.
func (s *ResourceService) Watch(ctx context.Context, req ports.ResourceRequest, interval time.Duration, onChange func(ports.ResourceState)) error {
	r := s.request(req.Path, req.Query, req.Token)
	emit := s.dedupe(onChange)

	var opts []prefetch.Option
	if req.Fresh {
		opts = append(opts, prefetch.WithForce(true))
	}
	cfg := binding.QueryConfig{Options: opts, OnChange: emit}

	if interval > 0 {
		pq := binding.NewPollingQuery(s.m, r.Key, r.Fetcher, interval, cfg)
		defer pq.Close()
		pq.Start(ctx)
	} else {
		q := binding.NewQuery(s.m, r.Key, r.Fetcher, cfg)
		defer q.Close()
		if err := q.Start(ctx); err != nil && !errors.Is(err, ctx.Err()) {
			s.log.Warnf(ctx, "watch: first load failed key=%s err=%v", r.Key, err)
		}
	}

	<-ctx.Done()
	return nil
}

// dedupe — переводит State в ResourceState и отбрасывает повторы.
func (s *ResourceService) dedupe(onChange func(ports.ResourceState)) func(binding.State) {
	var (
		mu   sync.Mutex
		last *ports.ResourceState
	)
	return func(st binding.State) {
		next := ports.ResourceState{Loading: st.Loading}
		if raw, ok := st.Data.(json.RawMessage); ok {
			next.Data = raw
		}
		if st.Err != nil {
			next.Error = st.Err.Error()
		}

		mu.Lock()
		defer mu.Unlock()
		if last != nil && sameState(*last, next) {
			return
		}
		next.UpdatedAt = s.now()
		last = &next
		onChange(next)
	}
}

func sameState(a, b ports.ResourceState) bool {
	return a.Loading == b.Loading && a.Error == b.Error && bytes.Equal(a.Data, b.Data)
}

// Mutate — изменяющий запрос в upstream без кэша. При 2xx инвалидирует ресурс
// и его родительскую коллекцию (с любыми параметрами запроса).
func (s *ResourceService) Mutate(ctx context.Context, method string, req ports.ResourceRequest, body []byte) (int, []byte, error) {
	code, resp, err := s.up.Send(ctx, method, req.Path, body, req.Token)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, req.Path, err)
	}
	if code < 200 || code > 299 {
		return code, resp, nil
	}

	self := CacheKey(req.Token, req.Path, nil)
	keys := []string{self}
	if parent, ok := parentPath(req.Path); ok {
		keys = append(keys, CacheKey(req.Token, parent, nil))
	}
	prefixes := make([]string, 0, len(keys))
	for _, k := range keys {
		prefixes = append(prefixes, k+"?")
	}
	defer binding.InvalidateOnClose(s.m, keys...).WithPrefixes(prefixes...).Close()

	s.log.Infof(ctx, "mutation %s path=%s status=%d invalidated=%s", method, req.Path, code, self)
	return code, resp, nil
}
