package notify

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
)

// Journal — сохраняет уведомления в журнал (для GET /alerts).
type Journal struct {
	repo ports.AlertRepository
}

func NewJournal(repo ports.AlertRepository) *Journal {
	return &Journal{repo: repo}
}

func (j *Journal) Notify(ctx context.Context, a domain.Alert) error {
	if err := j.repo.Save(ctx, &a); err != nil {
		return fmt.Errorf("save alert: %w", err)
	}
	return nil
}
