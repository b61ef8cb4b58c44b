package validate

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
	"github.com/Gunvolt24/storefront-prefetch/pkg/normalize"
)

// ValidateOrderFromJSON — нормализация и валидация одной записи заказа из JSON.
func ValidateOrderFromJSON(ctx context.Context, validator ports.OrderValidator, raw []byte) (*domain.Order, error) {
	rec, err := normalize.Object(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	order := normalize.Order(rec)
	if err := validator.Validate(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
