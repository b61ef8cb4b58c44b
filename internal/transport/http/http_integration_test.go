//go:build integration

package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/storefront-prefetch/internal/cache/memory"
	"github.com/Gunvolt24/storefront-prefetch/internal/notify"
	"github.com/Gunvolt24/storefront-prefetch/internal/prefetch"
	pgrepo "github.com/Gunvolt24/storefront-prefetch/internal/repo/postgres"
	"github.com/Gunvolt24/storefront-prefetch/internal/testutil"
	rest "github.com/Gunvolt24/storefront-prefetch/internal/transport/http"
	"github.com/Gunvolt24/storefront-prefetch/internal/upstream"
	"github.com/Gunvolt24/storefront-prefetch/internal/usecase"
	"github.com/Gunvolt24/storefront-prefetch/pkg/logger"
)

// stack — полный HTTP-стек поверх настоящего upstream-клиента.
type stack struct {
	ts   *httptest.Server
	hits *atomic.Int64
}

func newStack(t *testing.T, api http.Handler, reqTimeout time.Duration, deps func(*rest.Deps)) *stack {
	t.Helper()

	var hits atomic.Int64
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			hits.Add(1)
		}
		api.ServeHTTP(w, r)
	}))
	t.Cleanup(up.Close)

	logg, cleanup, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	client, err := upstream.New(up.URL, 5*time.Second)
	require.NoError(t, err)

	m := prefetch.NewManager(memory.NewStore(100, memory.WithDefaultTTL(time.Minute)), logg)
	t.Cleanup(m.Close)

	d := rest.Deps{
		Resources: usecase.NewResourceService(m, client, logg),
		Cache:     usecase.NewCacheService(m, logg),
		Log:       logg,
	}
	if deps != nil {
		deps(&d)
	}

	ts := httptest.NewServer(rest.NewRouter(rest.NewHandler(d, reqTimeout), ""))
	t.Cleanup(ts.Close)

	return &stack{ts: ts, hits: &hits}
}

func (s *stack) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()
	var rd io.Reader = http.NoBody
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.ts.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer user-1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode, readAll(t, resp.Body)
}

// 1) GET /api/* — повторное чтение из кэша, fresh=1 идёт в upstream, мутация сбрасывает ключ
func TestHTTP_ResourceCacheLifecycle_TC(t *testing.T) {
	api := http.NewServeMux()
	api.HandleFunc("/cart/items", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer user-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"i2"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"i1"}]`))
	})
	s := newStack(t, api, 2*time.Second, nil)

	code, body := s.do(t, http.MethodGet, "/api/cart/items", "")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `[{"id":"i1"}]`, string(body))

	code, _ = s.do(t, http.MethodGet, "/api/cart/items", "")
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 1, s.hits.Load(), "second read must be served from cache")

	code, _ = s.do(t, http.MethodGet, "/api/cart/items?fresh=1", "")
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 2, s.hits.Load())

	code, body = s.do(t, http.MethodPost, "/api/cart/items", `{"sku":"x"}`)
	require.Equal(t, http.StatusCreated, code)
	require.JSONEq(t, `{"id":"i2"}`, string(body))

	code, _ = s.do(t, http.MethodGet, "/api/cart/items", "")
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 3, s.hits.Load(), "mutation must invalidate the cached collection")
}

// 2) 4xx upstream отдаётся клиенту как есть
func TestHTTP_UpstreamNotFound_PassThrough_TC(t *testing.T) {
	api := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found."}`))
	})
	s := newStack(t, api, 2*time.Second, nil)

	code, body := s.do(t, http.MethodGet, "/api/products/404", "")
	require.Equal(t, http.StatusNotFound, code)
	require.JSONEq(t, `{"detail":"Not found."}`, string(body))
}

// 3) Таймаут обработчика при медленном upstream → 504
func TestHTTP_GetResource_Timeout_504_TC(t *testing.T) {
	release := make(chan struct{})
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	s := newStack(t, api, 50*time.Millisecond, nil)
	t.Cleanup(func() { close(release) }) // до up.Close: иначе он ждёт висящий хендлер

	code, body := s.do(t, http.MethodGet, "/api/slow", "")
	require.Equal(t, http.StatusGatewayTimeout, code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	require.Equal(t, "upstream timeout", got["error"])
}

// 4) /alerts читает журнал из Postgres
func TestHTTP_Alerts_TC(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, stop, err := testutil.StartPostgresTC(ctx)
	require.NoError(t, err)
	defer func() { _ = stop(context.Background()) }()
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	repo := pgrepo.NewAlertRepository(pg.Pool)
	journal := notify.NewJournal(repo)

	older := testutil.MakeAlert(testutil.WithDetectedAt(time.Now().Add(-time.Minute).UTC()))
	newer := testutil.MakeAlert()
	require.NoError(t, journal.Notify(ctx, older))
	require.NoError(t, journal.Notify(ctx, newer))

	s := newStack(t, http.NotFoundHandler(), 2*time.Second, func(d *rest.Deps) { d.Alerts = repo })

	code, body := s.do(t, http.MethodGet, "/alerts?limit=1", "")
	require.Equal(t, http.StatusOK, code)

	var got struct {
		Alerts []map[string]any `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got.Alerts, 1)
	require.Equal(t, newer.OrderID, got.Alerts[0]["order_id"])
}

// 5) /ping, /metrics и 404 на реальном сервере
func TestHTTP_Health_Metrics_And_404_TC(t *testing.T) {
	s := newStack(t, http.NotFoundHandler(), time.Second, nil)

	code, body := s.do(t, http.MethodGet, "/ping", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "pong", string(body))

	code, body = s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, body)

	code, _ = s.do(t, http.MethodGet, "/definitely-not-here", "")
	require.Equal(t, http.StatusNotFound, code)
}

// readAll — просто прочитать тело.
func readAll(t *testing.T, r io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return b
}
