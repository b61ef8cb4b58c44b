package validate

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
)

// Проверка, что OrderValidator удовлетворяет интерфейсу OrderValidator.
var _ ports.OrderValidator = (*OrderValidator)(nil)

// ErrInvalidOrder — базовая (sentinel error) ошибка валидации.
var ErrInvalidOrder = errors.New("order validation failed")

// OrderValidator — проверка нормализованного заказа.
type OrderValidator struct{}

// NewOrderValidator — конструктор OrderValidator.
// Возвращает ErrInvalidOrder (с обёрнутой причиной) при любой проблеме.
func NewOrderValidator() *OrderValidator { return &OrderValidator{} }

// Validate — проверяет, что заказ пригоден для отслеживания: есть id и статус, суммы неотрицательны.
func (v *OrderValidator) Validate(_ context.Context, order *domain.Order) error {
	if order == nil {
		return fmt.Errorf("%w: заказ не может быть nil", ErrInvalidOrder)
	}
	if order.ID == "" {
		return fmt.Errorf("%w: id обязателен", ErrInvalidOrder)
	}
	if order.Status == "" {
		return fmt.Errorf("%w: status обязателен", ErrInvalidOrder)
	}
	if order.Price < 0 || math.IsNaN(order.Price) {
		return fmt.Errorf("%w: price должен быть неотрицательным", ErrInvalidOrder)
	}
	if order.Urgency < 0 || math.IsNaN(order.Urgency) {
		return fmt.Errorf("%w: urgency должен быть неотрицательным", ErrInvalidOrder)
	}
	ts := order.Timestamps
	if !ts.CreatedAt.IsZero() && !ts.UpdatedAt.IsZero() && ts.UpdatedAt.Before(ts.CreatedAt) {
		return fmt.Errorf("%w: updated_at раньше created_at", ErrInvalidOrder)
	}
	return nil
}

// Filter — оставляет только валидные заказы; возвращает их и число отброшенных.
func (v *OrderValidator) Filter(ctx context.Context, orders []domain.Order) ([]domain.Order, int) {
	out := orders[:0:0]
	dropped := 0
	for i := range orders {
		if err := v.Validate(ctx, &orders[i]); err != nil {
			dropped++
			continue
		}
		out = append(out, orders[i])
	}
	return out, dropped
}
