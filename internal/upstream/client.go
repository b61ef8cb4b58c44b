package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
)

// Проверка, что клиент удовлетворяет интерфейсам портов.
var (
	_ ports.Upstream    = (*Client)(nil)
	_ ports.OrderSource = (*Client)(nil)
)

// maxBody — предел размера читаемого тела ответа.
const maxBody = 8 << 20

// StatusError — ответ upstream с кодом вне 2xx.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Code, bytes.TrimSpace(truncate(e.Body, 200)))
}

// Client — HTTP-клиент REST API витрины.
type Client struct {
	base       *url.URL
	http       *http.Client
	ordersPath string
}

// Option — настройка Client.
type Option func(*Client)

// WithHTTPClient — свой http.Client (в тестах). Транспорт не оборачивается в otelhttp.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithOrdersPath — путь «моих заказов» для FetchMyOrders.
func WithOrdersPath(path string) Option {
	return func(c *Client) { c.ordersPath = path }
}

// New — клиент с таймаутом timeout; транспорт инструментирован otelhttp.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse base url: %q has no scheme or host", baseURL)
	}

	c := &Client{
		base: u,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		ordersPath: "/orders/my/",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get — GET path?query; при 2xx возвращает тело.
func (c *Client) Get(ctx context.Context, path string, query url.Values, token string) ([]byte, error) {
	code, body, err := c.do(ctx, http.MethodGet, path, query, nil, token)
	if err != nil {
		return nil, err
	}
	if code < 200 || code > 299 {
		return nil, &StatusError{Code: code, Body: body}
	}
	return body, nil
}

// Send — изменяющий запрос. Статус возвращается как есть, ошибка только при сбое транспорта.
func (c *Client) Send(ctx context.Context, method, path string, body []byte, token string) (int, []byte, error) {
	return c.do(ctx, method, path, nil, body, token)
}

// FetchMyOrders — сырой ответ эндпоинта «моих заказов».
func (c *Client) FetchMyOrders(ctx context.Context, token string) ([]byte, error) {
	return c.Get(ctx, c.ordersPath, nil, token)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, token string) (int, []byte, error) {
	u := c.resolve(path, query)

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, data, nil
}

// resolve — абсолютный URL запроса; path всегда относительно base.
func (c *Client) resolve(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
