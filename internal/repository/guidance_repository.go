package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
)

const sessionColumns = "id, thesis_id, session_date, notes, created_at, updated_at"

// GuidanceSessionRepo persists guidance sessions.
type GuidanceSessionRepo struct{ db *sqlx.DB }

func NewGuidanceSessionRepo(db *sqlx.DB) *GuidanceSessionRepo { return &GuidanceSessionRepo{db: db} }

// Create inserts g. A zero SessionDate defaults to the creation time.
func (r *GuidanceSessionRepo) Create(ctx context.Context, g *model.GuidanceSession) error {
	ts := now()
	if g.SessionDate.IsZero() {
		g.SessionDate = ts
	} else {
		g.SessionDate = g.SessionDate.UTC().Truncate(time.Microsecond)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO guidance_sessions (thesis_id, session_date, notes, created_at, updated_at)
		 VALUES (?,?,?,?,?)`,
		g.ThesisID, g.SessionDate, g.Notes, ts, ts)
	if err != nil {
		return mapWriteErr(err, "insert guidance session", "guidance session already exists")
	}
	if g.ID, err = lastID(res); err != nil {
		return errors.Wrap(err, "insert guidance session")
	}
	g.CreatedAt, g.UpdatedAt = ts, ts
	return nil
}

func (r *GuidanceSessionRepo) GetByID(ctx context.Context, id uint64) (*model.GuidanceSession, error) {
	var g model.GuidanceSession
	ok, err := get(ctx, r.db, &g, "SELECT "+sessionColumns+" FROM guidance_sessions WHERE id = ?", id)
	if err != nil || !ok {
		return nil, errors.Wrap(err, "get guidance session")
	}
	return &g, nil
}

func (r *GuidanceSessionRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	ok, err := exists(ctx, r.db, "SELECT 1 FROM guidance_sessions WHERE id = ?", id)
	return ok, errors.Wrap(err, "check guidance session")
}

func (r *GuidanceSessionRepo) ListByThesis(ctx context.Context, thesisID uint64) ([]model.GuidanceSession, error) {
	out := []model.GuidanceSession{}
	err := r.db.SelectContext(ctx, &out,
		"SELECT "+sessionColumns+" FROM guidance_sessions WHERE thesis_id = ? ORDER BY session_date, id", thesisID)
	return out, errors.Wrap(err, "list guidance sessions")
}

// UpdateNotes replaces the notes verbatim. The new updated_at is always
// strictly after the previous one, even when the clock has not advanced.
// It returns nil when the session does not exist.
func (r *GuidanceSessionRepo) UpdateNotes(ctx context.Context, id uint64, notes null.String) (*model.GuidanceSession, error) {
	var out *model.GuidanceSession
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var prior time.Time
		ok, err := get(ctx, tx, &prior, "SELECT updated_at FROM guidance_sessions WHERE id = ?", id)
		if err != nil || !ok {
			return err
		}
		ts := now()
		if !ts.After(prior) {
			ts = prior.Add(time.Microsecond)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE guidance_sessions SET notes = ?, updated_at = ? WHERE id = ?", notes, ts, id); err != nil {
			return err
		}
		var g model.GuidanceSession
		if err := tx.GetContext(ctx, &g, "SELECT "+sessionColumns+" FROM guidance_sessions WHERE id = ?", id); err != nil {
			return err
		}
		out = &g
		return nil
	})
	return out, errors.Wrap(err, "update guidance notes")
}

var deleteSessionStmts = []string{
	`DELETE FROM comments WHERE guidance_session_id = ?`,
	`DELETE FROM submissions WHERE guidance_session_id = ?`,
	`DELETE FROM guidance_sessions WHERE id = ?`,
}

// Delete removes the session with its submissions and comments.
func (r *GuidanceSessionRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	var deleted bool
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		deleted, err = cascade(ctx, tx, id, deleteSessionStmts...)
		return err
	})
	return deleted, errors.Wrap(err, "delete guidance session")
}
