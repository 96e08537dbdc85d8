package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/database"
)

// TokenRepo keeps the jti of access tokens revoked before their expiry.
type TokenRepo struct{ db *sqlx.DB }

func NewTokenRepo(db *sqlx.DB) *TokenRepo { return &TokenRepo{db: db} }

// Revoke records jti as revoked. Revoking twice is not an error.
func (r *TokenRepo) Revoke(ctx context.Context, jti string, userID uint64, exp time.Time) error {
	ok, err := exists(ctx, r.db, "SELECT 1 FROM revoked_tokens WHERE jti = ?", jti)
	if err != nil {
		return errors.Wrap(err, "check revoked token")
	}
	if ok {
		return nil
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO revoked_tokens (jti, user_id, expires_at, revoked_at) VALUES (?,?,?,?)",
		jti, userID, exp.UTC(), now())
	if err != nil && !database.IsUniqueViolation(err) {
		return errors.Wrap(err, "revoke token")
	}
	return nil
}

// IsRevoked reports whether jti has been revoked.
func (r *TokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ok, err := exists(ctx, r.db, "SELECT 1 FROM revoked_tokens WHERE jti = ?", jti)
	return ok, errors.Wrap(err, "check revoked token")
}

// PurgeExpired drops entries whose token would have expired anyway.
func (r *TokenRepo) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM revoked_tokens WHERE expires_at < ?", now())
	if err != nil {
		return 0, errors.Wrap(err, "purge revoked tokens")
	}
	n, _ := res.RowsAffected()
	return n, nil
}
