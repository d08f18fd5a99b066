// Package dbtest opens a migrated, empty Postgres database for tests.
// Tests using it are skipped unless TEST_DATABASE_URL is set.
package dbtest

import (
	"context"
	"os"
	"testing"

	"skill-auth-service/internal/db"
)

const envURL = "TEST_DATABASE_URL"

// Open returns a handle to a freshly truncated database.
func Open(t *testing.T) *db.DB {
	t.Helper()

	url := os.Getenv(envURL)
	if url == "" {
		t.Skipf("%s not set, skipping postgres test", envURL)
	}

	if err := db.Migrate(url); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	handle, err := db.Open(ctx, url, db.PoolOptions{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { handle.Close() })

	if _, err := handle.ExecContext(ctx, `TRUNCATE sessions, users CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	return handle
}
