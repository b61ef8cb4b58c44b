package notify

import (
	"context"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
)

// Log — уведомление строкой лога.
type Log struct {
	log ports.Logger
}

func NewLog(log ports.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Notify(ctx context.Context, a domain.Alert) error {
	l.log.Infof(ctx, "new order alert order_id=%s code=%s status=%s service=%q price=%.2f",
		a.OrderID, a.OrderCode, a.Status, a.Service, a.Price)
	return nil
}
