package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
)

const userColumns = "id, username, email, password_hash, role, created_at, updated_at"

// UserRepo persists rows of the users table.
type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts u, filling ID and timestamps. A duplicate username or email
// is reported as ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	ts := now()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role, created_at, updated_at) VALUES (?,?,?,?,?,?)",
		u.Username, u.Email, u.PasswordHash, string(u.Role), ts, ts)
	if err != nil {
		return mapWriteErr(err, "insert user", "username or email already exists")
	}
	if u.ID, err = lastID(res); err != nil {
		return errors.Wrap(err, "insert user")
	}
	u.CreatedAt, u.UpdatedAt = ts, ts
	return nil
}

// GetByID returns nil when no user has the id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	ok, err := get(ctx, r.db, &u, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if err != nil || !ok {
		return nil, errors.Wrap(err, "get user")
	}
	return &u, nil
}

// GetByUsername returns nil when the username is unknown.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	ok, err := get(ctx, r.db, &u, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	if err != nil || !ok {
		return nil, errors.Wrap(err, "get user by username")
	}
	return &u, nil
}

func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	ok, err := exists(ctx, r.db, "SELECT 1 FROM users WHERE username = ?", username)
	return ok, errors.Wrap(err, "check username")
}

func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	ok, err := exists(ctx, r.db, "SELECT 1 FROM users WHERE email = ?", email)
	return ok, errors.Wrap(err, "check email")
}

// List returns users ordered by id, optionally filtered by role.
func (r *UserRepo) List(ctx context.Context, role model.Role) ([]model.User, error) {
	out := []model.User{}
	var err error
	if role == "" {
		err = r.db.SelectContext(ctx, &out, "SELECT "+userColumns+" FROM users ORDER BY id")
	} else {
		err = r.db.SelectContext(ctx, &out, "SELECT "+userColumns+" FROM users WHERE role = ? ORDER BY id", string(role))
	}
	return out, errors.Wrap(err, "list users")
}

// deleteUserStmts removes everything hanging off a user, deepest rows first:
// the student's theses tree, the user's own submissions and comments, the
// profiles, revoked tokens and finally the user row.
var deleteUserStmts = []string{
	`DELETE FROM comments WHERE guidance_session_id IN (
		SELECT gs.id FROM guidance_sessions gs
		JOIN theses t ON t.id = gs.thesis_id
		JOIN students s ON s.id = t.student_id
		WHERE s.user_id = ?)`,
	`DELETE FROM comments WHERE submission_id IN (SELECT id FROM submissions WHERE uploaded_by = ?)`,
	`DELETE FROM comments WHERE sender_id = ?`,
	`UPDATE comments SET receiver_id = NULL WHERE receiver_id = ?`,
	`DELETE FROM submissions WHERE guidance_session_id IN (
		SELECT gs.id FROM guidance_sessions gs
		JOIN theses t ON t.id = gs.thesis_id
		JOIN students s ON s.id = t.student_id
		WHERE s.user_id = ?)`,
	`DELETE FROM submissions WHERE uploaded_by = ?`,
	`DELETE FROM guidance_sessions WHERE thesis_id IN (
		SELECT t.id FROM theses t JOIN students s ON s.id = t.student_id WHERE s.user_id = ?)`,
	`DELETE FROM thesis_lecturers WHERE thesis_id IN (
		SELECT t.id FROM theses t JOIN students s ON s.id = t.student_id WHERE s.user_id = ?)`,
	`DELETE FROM thesis_lecturers WHERE lecturer_id IN (SELECT id FROM lecturers WHERE user_id = ?)`,
	`DELETE FROM theses WHERE student_id IN (SELECT id FROM students WHERE user_id = ?)`,
	`DELETE FROM students WHERE user_id = ?`,
	`DELETE FROM lecturers WHERE user_id = ?`,
	`DELETE FROM revoked_tokens WHERE user_id = ?`,
	`DELETE FROM users WHERE id = ?`,
}

// Delete removes the user and all dependent rows in one transaction. It
// reports false when the user did not exist.
func (r *UserRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	var deleted bool
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		deleted, err = cascade(ctx, tx, id, deleteUserStmts...)
		return err
	})
	return deleted, errors.Wrap(err, "delete user")
}
