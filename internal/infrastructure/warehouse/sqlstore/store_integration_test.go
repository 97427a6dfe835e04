//go:build integration

package sqlstore

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func migrationsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations")
}

func TestStore_PostgresContainer(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("salesdash_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := NewMigrator(dsn, migrationsDir(t), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
	require.NoError(t, m.Close())

	s, err := Open(Config{Driver: DriverPostgres, DSN: dsn, MaxOpenConns: 4, MaxIdleConns: 2, LogLevel: "silent", Tracing: true}, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Replace(ctx, testDataset()))

	kpis, err := s.ListMonthlyKPIs(ctx)
	require.NoError(t, err)
	require.Len(t, kpis, 2)
	assert.Equal(t, "2025-06", kpis[0].Key())

	hist, err := s.ProductHistory(ctx, []string{"P-1", "P-2"}, 2)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, 15.0, hist[0].Quantity)

	opts, err := s.CustomerProductOptions(ctx)
	require.NoError(t, err)
	assert.Len(t, opts, 3)
}
