//go:build integration

package testutil

import (
	"context"
	"fmt"
	"time"

	pgrepo "github.com/Gunvolt24/storefront-prefetch/internal/repo/postgres"
)

// ApplyMigrationsGoose — применяет миграции из migrations/ к базе контейнера.
func ApplyMigrationsGoose(dsn string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := pgrepo.Migrate(ctx, dsn)
	if err != nil {
		return err
	}
	tcLogger.Printf("migrations applied count=%d", n)
	if n == 0 {
		return fmt.Errorf("no migrations applied to fresh database")
	}
	return nil
}
