// Package testdb provides migrated databases for tests.
package testdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/database"
)

// SQLite returns a freshly migrated SQLite database in a temp dir. It is
// closed automatically when the test ends.
func SQLite(tb testing.TB) *sqlx.DB {
	tb.Helper()
	db, err := database.OpenSQLite(filepath.Join(tb.TempDir(), "test.db"))
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}
