package ports

import (
	"context"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
)

// AlertRepository — журнал уведомлений о новых заказах.
type AlertRepository interface {
	// Save — идемпотентна по (order_id, detected_at).
	Save(ctx context.Context, alert *domain.Alert) error
	// ListRecent — последние уведомления, новые первыми.
	ListRecent(ctx context.Context, limit int) ([]domain.Alert, error)
}
