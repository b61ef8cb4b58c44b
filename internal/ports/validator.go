package ports

import (
	"context"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
)

// OrderValidator — проверка заказа после нормализации; поллер отбрасывает заказы с ошибкой.
type OrderValidator interface {
	Validate(ctx context.Context, order *domain.Order) error
}
