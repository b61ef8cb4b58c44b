package ports

import "context"

// OrderSource — источник «моих заказов» для поллера (сырой ответ API).
type OrderSource interface {
	FetchMyOrders(ctx context.Context, token string) ([]byte, error)
}
