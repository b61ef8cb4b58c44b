package ports

import (
	"context"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
)

// Notifier — побочный эффект уведомления о новом заказе (звук, системное уведомление, журнал).
type Notifier interface {
	Notify(ctx context.Context, alert domain.Alert) error
}
