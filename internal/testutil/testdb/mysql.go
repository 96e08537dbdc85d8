//go:build testutil
// +build testutil

package testdb

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/database"
)

// DBHandle owns a MySQL container and a migrated connection to it.
type DBHandle struct {
	DB     *sqlx.DB
	cancel func()
	stop   func(context.Context) error
}

func (h *DBHandle) Close() {
	if h.DB != nil {
		_ = h.DB.Close()
	}
	if h.stop != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.stop(ctx)
	}
	if h.cancel != nil {
		h.cancel()
	}
}

// StartMySQL runs mysql:8 in a container and applies the migrations.
func StartMySQL(ctx context.Context) (*DBHandle, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Minute)

	c, err := mysql.RunContainer(ctx,
		tc.WithImage("mysql:8.0.36"),
		mysql.WithDatabase("skripsi"),
		mysql.WithUsername("skripsi"),
		mysql.WithPassword("skripsi"),
	)
	if err != nil {
		cancel()
		return nil, err
	}
	fail := func(err error) (*DBHandle, error) {
		_ = c.Terminate(ctx)
		cancel()
		return nil, err
	}

	dsn, err := c.ConnectionString(ctx, "parseTime=true", "loc=UTC", "charset=utf8mb4")
	if err != nil {
		return fail(err)
	}
	var db *sqlx.DB
	dead := time.Now().Add(30 * time.Second)
	for {
		db, err = database.OpenMySQL(dsn, 5)
		if err == nil {
			break
		}
		if time.Now().After(dead) {
			return fail(errors.Join(errors.New("db not ready"), err))
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return fail(err)
	}
	return &DBHandle{DB: db, cancel: cancel, stop: c.Terminate}, nil
}
