package database

import (
	"context"
	"embed"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/mysql/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies all pending migrations for the handle's driver.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	var (
		dialect goose.Dialect
		dir     string
	)
	switch db.DriverName() {
	case "mysql":
		dialect, dir = goose.DialectMySQL, "migrations/mysql"
	case "sqlite":
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite"
	default:
		return errors.Errorf("no migrations for driver %q", db.DriverName())
	}
	sub, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return errors.Wrap(err, "migrations fs")
	}
	p, err := goose.NewProvider(dialect, db.DB, sub)
	if err != nil {
		return errors.Wrap(err, "goose provider")
	}
	if _, err := p.Up(ctx); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
