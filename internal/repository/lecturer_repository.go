package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
)

const lecturerColumns = "id, user_id, lecturer_id, full_name, phone, specialization, created_at, updated_at"

// LecturerRepo persists lecturer profiles.
type LecturerRepo struct{ db *sqlx.DB }

func NewLecturerRepo(db *sqlx.DB) *LecturerRepo { return &LecturerRepo{db: db} }

func (r *LecturerRepo) Create(ctx context.Context, l *model.Lecturer) error {
	ts := now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO lecturers (user_id, lecturer_id, full_name, phone, specialization, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?)`,
		l.UserID, l.LecturerID, l.FullName, l.Phone, l.Specialization, ts, ts)
	if err != nil {
		return mapWriteErr(err, "insert lecturer", "lecturer profile already exists")
	}
	if l.ID, err = lastID(res); err != nil {
		return errors.Wrap(err, "insert lecturer")
	}
	l.CreatedAt, l.UpdatedAt = ts, ts
	return nil
}

func (r *LecturerRepo) GetByID(ctx context.Context, id uint64) (*model.Lecturer, error) {
	var l model.Lecturer
	ok, err := get(ctx, r.db, &l, "SELECT "+lecturerColumns+" FROM lecturers WHERE id = ?", id)
	if err != nil || !ok {
		return nil, errors.Wrap(err, "get lecturer")
	}
	return &l, nil
}

func (r *LecturerRepo) GetByUserID(ctx context.Context, userID uint64) (*model.Lecturer, error) {
	var l model.Lecturer
	ok, err := get(ctx, r.db, &l, "SELECT "+lecturerColumns+" FROM lecturers WHERE user_id = ?", userID)
	if err != nil || !ok {
		return nil, errors.Wrap(err, "get lecturer by user")
	}
	return &l, nil
}

func (r *LecturerRepo) LecturerNumberExists(ctx context.Context, lecturerID string) (bool, error) {
	ok, err := exists(ctx, r.db, "SELECT 1 FROM lecturers WHERE lecturer_id = ?", lecturerID)
	return ok, errors.Wrap(err, "check lecturer number")
}

func (r *LecturerRepo) List(ctx context.Context) ([]model.Lecturer, error) {
	out := []model.Lecturer{}
	err := r.db.SelectContext(ctx, &out, "SELECT "+lecturerColumns+" FROM lecturers ORDER BY id")
	return out, errors.Wrap(err, "list lecturers")
}

// MissingIDs returns the ids from ids that have no lecturer row, in input order.
func (r *LecturerRepo) MissingIDs(ctx context.Context, ids []uint64) ([]uint64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q, args, err := sqlx.In("SELECT id FROM lecturers WHERE id IN (?)", ids)
	if err != nil {
		return nil, errors.Wrap(err, "build lecturer lookup")
	}
	var found []uint64
	if err := r.db.SelectContext(ctx, &found, q, args...); err != nil {
		return nil, errors.Wrap(err, "lookup lecturers")
	}
	have := make(map[uint64]bool, len(found))
	for _, id := range found {
		have[id] = true
	}
	var missing []uint64
	for _, id := range ids {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// Delete removes the profile and its supervision links. Theses stay with
// their remaining supervisors.
func (r *LecturerRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	var deleted bool
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		deleted, err = cascade(ctx, tx, id,
			`DELETE FROM thesis_lecturers WHERE lecturer_id = ?`,
			`DELETE FROM lecturers WHERE id = ?`,
		)
		return err
	})
	return deleted, errors.Wrap(err, "delete lecturer")
}
