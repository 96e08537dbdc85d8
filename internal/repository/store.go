package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// execer is satisfied by both *sqlx.DB and *sqlx.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// nowFunc is the clock used for created_at/updated_at. Tests may replace it.
var nowFunc = time.Now

// now returns the current UTC time at the precision both dialects store.
func now() time.Time { return nowFunc().UTC().Truncate(time.Microsecond) }

// withTx runs fn inside a transaction, committing on success and rolling back
// on error.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = errors.Wrap(tx.Commit(), "commit tx")
	}()
	return fn(tx)
}

// get scans one row into dest and reports whether a row existed.
func get(ctx context.Context, q execer, dest interface{}, query string, args ...interface{}) (bool, error) {
	if err := q.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// exists reports whether query (a SELECT 1 ...) returns a row.
func exists(ctx context.Context, q execer, query string, args ...interface{}) (bool, error) {
	var one int
	return get(ctx, q, &one, query, args...)
}

// cascade runs each delete statement with the same id argument, in order, and
// reports whether the last one (the root row) removed anything.
func cascade(ctx context.Context, tx *sqlx.Tx, id uint64, stmts ...string) (bool, error) {
	var res sql.Result
	for _, s := range stmts {
		var err error
		if res, err = tx.ExecContext(ctx, s, id); err != nil {
			return false, err
		}
	}
	if res == nil {
		return false, nil
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func lastID(res sql.Result) (uint64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
