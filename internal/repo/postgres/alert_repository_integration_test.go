//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	pgrepo "github.com/Gunvolt24/storefront-prefetch/internal/repo/postgres"
	"github.com/Gunvolt24/storefront-prefetch/internal/testutil"
)

func newRepo(t *testing.T) (*pgrepo.AlertRepository, context.Context) {
	t.Helper()

	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancelStart)

	pg, stop, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stop(context.Background()) })
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	pool, err := pgrepo.NewPool(ctx, pg.DSN, 4)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pgrepo.NewAlertRepository(pool), ctx
}

func TestAlertRepository_SaveAndListRecent(t *testing.T) {
	repo, ctx := newRepo(t)
	base := time.Now().UTC().Truncate(time.Second)

	older := testutil.MakeAlert(testutil.WithDetectedAt(base.Add(-time.Minute)))
	newer := testutil.MakeAlert(
		testutil.WithDetectedAt(base),
		testutil.WithChannels(domain.ChannelSystem, domain.ChannelJournal),
	)
	require.NoError(t, repo.Save(ctx, &older))
	require.NoError(t, repo.Save(ctx, &newer))

	got, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, newer.OrderID, got[0].OrderID)
	require.Equal(t, []domain.Channel{domain.ChannelSystem, domain.ChannelJournal}, got[0].Channels)
	require.True(t, got[0].DetectedAt.Equal(base))
	require.Equal(t, older.OrderID, got[1].OrderID)

	got, err = repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestAlertRepository_DuplicateIgnored(t *testing.T) {
	repo, ctx := newRepo(t)

	a := testutil.MakeAlert()
	require.NoError(t, repo.Save(ctx, &a))
	require.NoError(t, repo.Save(ctx, &a))

	got, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestAlertRepository_EmptyRejected(t *testing.T) {
	repo, ctx := newRepo(t)
	require.Error(t, repo.Save(ctx, &domain.Alert{}))
	require.Error(t, repo.Save(ctx, nil))
}
