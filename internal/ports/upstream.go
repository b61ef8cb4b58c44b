package ports

import (
	"context"
	"net/url"
)

// Upstream — удалённый REST API витрины.
type Upstream interface {
	// Get — GET-запрос; возвращает тело ответа (JSON) при 2xx.
	Get(ctx context.Context, path string, query url.Values, token string) ([]byte, error)
	// Send — изменяющий запрос; возвращает статус и тело ответа.
	Send(ctx context.Context, method, path string, body []byte, token string) (int, []byte, error)
}
