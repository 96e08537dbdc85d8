package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
)

const studentColumns = "id, user_id, student_id, full_name, phone, address, created_at, updated_at"

// StudentRepo persists student profiles.
type StudentRepo struct{ db *sqlx.DB }

func NewStudentRepo(db *sqlx.DB) *StudentRepo { return &StudentRepo{db: db} }

// Create inserts s. Duplicate user or student number maps to ErrConflict and
// an unknown user to ErrReferentialIntegrity.
func (r *StudentRepo) Create(ctx context.Context, s *model.Student) error {
	ts := now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO students (user_id, student_id, full_name, phone, address, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?)`,
		s.UserID, s.StudentID, s.FullName, s.Phone, s.Address, ts, ts)
	if err != nil {
		return mapWriteErr(err, "insert student", "student profile already exists")
	}
	if s.ID, err = lastID(res); err != nil {
		return errors.Wrap(err, "insert student")
	}
	s.CreatedAt, s.UpdatedAt = ts, ts
	return nil
}

func (r *StudentRepo) GetByID(ctx context.Context, id uint64) (*model.Student, error) {
	var s model.Student
	ok, err := get(ctx, r.db, &s, "SELECT "+studentColumns+" FROM students WHERE id = ?", id)
	if err != nil || !ok {
		return nil, errors.Wrap(err, "get student")
	}
	return &s, nil
}

func (r *StudentRepo) GetByUserID(ctx context.Context, userID uint64) (*model.Student, error) {
	var s model.Student
	ok, err := get(ctx, r.db, &s, "SELECT "+studentColumns+" FROM students WHERE user_id = ?", userID)
	if err != nil || !ok {
		return nil, errors.Wrap(err, "get student by user")
	}
	return &s, nil
}

func (r *StudentRepo) StudentNumberExists(ctx context.Context, studentID string) (bool, error) {
	ok, err := exists(ctx, r.db, "SELECT 1 FROM students WHERE student_id = ?", studentID)
	return ok, errors.Wrap(err, "check student number")
}

func (r *StudentRepo) List(ctx context.Context) ([]model.Student, error) {
	out := []model.Student{}
	err := r.db.SelectContext(ctx, &out, "SELECT "+studentColumns+" FROM students ORDER BY id")
	return out, errors.Wrap(err, "list students")
}

var deleteStudentStmts = []string{
	`DELETE FROM comments WHERE guidance_session_id IN (
		SELECT gs.id FROM guidance_sessions gs JOIN theses t ON t.id = gs.thesis_id WHERE t.student_id = ?)`,
	`DELETE FROM submissions WHERE guidance_session_id IN (
		SELECT gs.id FROM guidance_sessions gs JOIN theses t ON t.id = gs.thesis_id WHERE t.student_id = ?)`,
	`DELETE FROM guidance_sessions WHERE thesis_id IN (SELECT id FROM theses WHERE student_id = ?)`,
	`DELETE FROM thesis_lecturers WHERE thesis_id IN (SELECT id FROM theses WHERE student_id = ?)`,
	`DELETE FROM theses WHERE student_id = ?`,
	`DELETE FROM students WHERE id = ?`,
}

// Delete removes the profile and its theses tree.
func (r *StudentRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	var deleted bool
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		deleted, err = cascade(ctx, tx, id, deleteStudentStmts...)
		return err
	})
	return deleted, errors.Wrap(err, "delete student")
}
