package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
)

var _ ports.AlertRepository = (*AlertRepository)(nil)

// MaxListLimit — верхняя граница выборки журнала.
const MaxListLimit = 500

// AlertRepository — журнал уведомлений о новых заказах (таблица order_alerts).
type AlertRepository struct {
	pool *pgxpool.Pool
}

func NewAlertRepository(pool *pgxpool.Pool) *AlertRepository { return &AlertRepository{pool: pool} }

// Save — запись уведомления. Повтор того же заказа с тем же detected_at игнорируется.
func (r *AlertRepository) Save(ctx context.Context, a *domain.Alert) error {
	if a == nil || a.OrderID == "" {
		return errors.New("alert is empty or order_id is required")
	}

	channels := make([]string, 0, len(a.Channels))
	for _, ch := range a.Channels {
		channels = append(channels, string(ch))
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO order_alerts (order_id, order_code, status, service, price, detected_at, channels)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (order_id, detected_at) DO NOTHING
	`, a.OrderID, a.OrderCode, a.Status, a.Service, a.Price, a.DetectedAt.UTC(), channels)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// ListRecent — последние уведомления, новые первыми. limit ограничивается [1, MaxListLimit].
func (r *AlertRepository) ListRecent(ctx context.Context, limit int) ([]domain.Alert, error) {
	if limit <= 0 {
		limit = 1
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	rows, err := r.pool.Query(ctx, `
		SELECT order_id, order_code, status, service, price, detected_at, channels
		FROM order_alerts
		ORDER BY detected_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Alert, error) {
		var (
			a        domain.Alert
			channels []string
		)
		if err := row.Scan(&a.OrderID, &a.OrderCode, &a.Status, &a.Service, &a.Price, &a.DetectedAt, &channels); err != nil {
			return domain.Alert{}, err
		}
		for _, ch := range channels {
			a.Channels = append(a.Channels, domain.Channel(ch))
		}
		return a, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan alerts: %w", err)
	}
	return out, nil
}
