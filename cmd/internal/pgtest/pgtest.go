// Package pgtest provides a migrated Postgres pool for integration tests.
//
// VRME_DATABASE_URL points the tests at an existing database. Otherwise, with
// VRME_TEST_INTEGRATION=1, a throwaway postgres:16-alpine container is started.
// With neither set the calling test is skipped.
package pgtest

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"vrme/cmd/internal/app/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	EnvDatabaseURL = "VRME_DATABASE_URL"
	EnvIntegration = "VRME_TEST_INTEGRATION"
)

// Pool returns a pool on a migrated database, closed when t finishes.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		if os.Getenv(EnvIntegration) == "" {
			t.Skipf("integration tests are disabled (set %s or %s=1)", EnvDatabaseURL, EnvIntegration)
		}
		dsn = startContainer(ctx, t)
	}

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	if err := pool.Ping(ctx); err != nil {
		if os.Getenv("CI") == "" {
			t.Skipf("postgres unreachable at %s: %v", EnvDatabaseURL, err)
		}
		t.Fatalf("postgres ping: %v", err)
	}

	require.NoError(t, migrations.Up(ctx, pool))
	return pool
}

func startContainer(ctx context.Context, t *testing.T) string {
	t.Helper()

	req := tc.ContainerRequest{
		Image: "postgres:16-alpine",
		Env: map[string]string{
			"POSTGRES_USER":     "vrme",
			"POSTGRES_PASSWORD": "vrme",
			"POSTGRES_DB":       "vrme",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://vrme:vrme@%s:%s/vrme?sslmode=disable", host, port.Port())
}
