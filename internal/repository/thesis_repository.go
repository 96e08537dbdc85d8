package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
)

const thesisColumns = "id, student_id, title, description, status, created_at, updated_at"

// ThesisRepo persists theses and their supervisor links.
type ThesisRepo struct{ db *sqlx.DB }

func NewThesisRepo(db *sqlx.DB) *ThesisRepo { return &ThesisRepo{db: db} }

// ThesisUpdate lists the fields to change. Nil pointers and unset
// Description leave the column untouched; Description.Null clears it.
type ThesisUpdate struct {
	Title       *string
	Description model.Optional[string]
	Status      *model.ThesisStatus
}

// Create inserts the thesis and one thesis_lecturers row per lecturer in a
// single transaction; lecturerIDs[0] becomes the primary supervisor. If any
// link fails the thesis row is rolled back as well.
func (r *ThesisRepo) Create(ctx context.Context, t *model.Thesis, lecturerIDs []uint64) ([]model.ThesisLecturer, error) {
	if len(lecturerIDs) == 0 {
		return nil, NewError(ErrInvalidState, "at least one lecturer is required")
	}
	if t.Status == "" {
		t.Status = model.ThesisProposal
	}
	ts := now()
	var links []model.ThesisLecturer
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO theses (student_id, title, description, status, created_at, updated_at)
			 VALUES (?,?,?,?,?,?)`,
			t.StudentID, t.Title, t.Description, string(t.Status), ts, ts)
		if err != nil {
			return mapWriteErr(err, "insert thesis", "thesis already exists")
		}
		if t.ID, err = lastID(res); err != nil {
			return errors.Wrap(err, "insert thesis")
		}
		links = make([]model.ThesisLecturer, 0, len(lecturerIDs))
		for i, lid := range lecturerIDs {
			l := model.ThesisLecturer{ThesisID: t.ID, LecturerID: lid, IsPrimary: i == 0, CreatedAt: ts}
			res, err := tx.ExecContext(ctx,
				"INSERT INTO thesis_lecturers (thesis_id, lecturer_id, is_primary, created_at) VALUES (?,?,?,?)",
				l.ThesisID, l.LecturerID, l.IsPrimary, l.CreatedAt)
			if err != nil {
				return mapWriteErr(err, "insert thesis lecturer", "lecturer assigned twice")
			}
			if l.ID, err = lastID(res); err != nil {
				return errors.Wrap(err, "insert thesis lecturer")
			}
			links = append(links, l)
		}
		return nil
	})
	if err != nil {
		t.ID = 0
		return nil, err
	}
	t.CreatedAt, t.UpdatedAt = ts, ts
	return links, nil
}

func (r *ThesisRepo) GetByID(ctx context.Context, id uint64) (*model.Thesis, error) {
	var t model.Thesis
	ok, err := get(ctx, r.db, &t, "SELECT "+thesisColumns+" FROM theses WHERE id = ?", id)
	if err != nil || !ok {
		return nil, errors.Wrap(err, "get thesis")
	}
	return &t, nil
}

func (r *ThesisRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	ok, err := exists(ctx, r.db, "SELECT 1 FROM theses WHERE id = ?", id)
	return ok, errors.Wrap(err, "check thesis")
}

func (r *ThesisRepo) List(ctx context.Context) ([]model.Thesis, error) {
	out := []model.Thesis{}
	err := r.db.SelectContext(ctx, &out, "SELECT "+thesisColumns+" FROM theses ORDER BY id")
	return out, errors.Wrap(err, "list theses")
}

func (r *ThesisRepo) ListByStudent(ctx context.Context, studentID uint64) ([]model.Thesis, error) {
	out := []model.Thesis{}
	err := r.db.SelectContext(ctx, &out,
		"SELECT "+thesisColumns+" FROM theses WHERE student_id = ? ORDER BY id", studentID)
	return out, errors.Wrap(err, "list theses by student")
}

func (r *ThesisRepo) ListByLecturer(ctx context.Context, lecturerID uint64) ([]model.Thesis, error) {
	out := []model.Thesis{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT t.id, t.student_id, t.title, t.description, t.status, t.created_at, t.updated_at
		 FROM theses t JOIN thesis_lecturers tl ON tl.thesis_id = t.id
		 WHERE tl.lecturer_id = ? ORDER BY t.id`, lecturerID)
	return out, errors.Wrap(err, "list theses by lecturer")
}

// Lecturers returns the supervisor links of a thesis, primary first.
func (r *ThesisRepo) Lecturers(ctx context.Context, thesisID uint64) ([]model.ThesisLecturer, error) {
	out := []model.ThesisLecturer{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, thesis_id, lecturer_id, is_primary, created_at FROM thesis_lecturers
		 WHERE thesis_id = ? ORDER BY is_primary DESC, id`, thesisID)
	return out, errors.Wrap(err, "list thesis lecturers")
}

// Update applies u and refreshes updated_at. It returns nil when the thesis
// does not exist.
func (r *ThesisRepo) Update(ctx context.Context, id uint64, u ThesisUpdate) (*model.Thesis, error) {
	// MySQL reports 0 affected rows for a no-op update, so existence is checked up front
	ok, err := r.Exists(ctx, id)
	if err != nil || !ok {
		return nil, err
	}
	sets := []string{"updated_at = ?"}
	args := []interface{}{now()}
	if u.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *u.Title)
	}
	if u.Description.Set {
		sets = append(sets, "description = ?")
		args = append(args, null.StringFromPtr(u.Description.Ptr()))
	}
	if u.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*u.Status))
	}
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, "UPDATE theses SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		return nil, mapWriteErr(err, "update thesis", "thesis conflicts with an existing record")
	}
	return r.GetByID(ctx, id)
}

var deleteThesisStmts = []string{
	`DELETE FROM comments WHERE guidance_session_id IN (SELECT id FROM guidance_sessions WHERE thesis_id = ?)`,
	`DELETE FROM submissions WHERE guidance_session_id IN (SELECT id FROM guidance_sessions WHERE thesis_id = ?)`,
	`DELETE FROM guidance_sessions WHERE thesis_id = ?`,
	`DELETE FROM thesis_lecturers WHERE thesis_id = ?`,
	`DELETE FROM theses WHERE id = ?`,
}

// Delete removes the thesis with its sessions, submissions, comments and
// supervisor links.
func (r *ThesisRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	var deleted bool
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		deleted, err = cascade(ctx, tx, id, deleteThesisStmts...)
		return err
	})
	return deleted, errors.Wrap(err, "delete thesis")
}

// ExportRows returns one denormalized line per thesis for spreadsheet export.
func (r *ThesisRepo) ExportRows(ctx context.Context) ([]model.ThesisExportRow, error) {
	out := []model.ThesisExportRow{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT t.id AS thesis_id, t.title, t.status, t.updated_at,
		       s.student_id AS student_number, s.full_name AS student_name,
		       (SELECT l.full_name FROM thesis_lecturers tl JOIN lecturers l ON l.id = tl.lecturer_id
		         WHERE tl.thesis_id = t.id AND tl.is_primary = TRUE LIMIT 1) AS primary_lecturer,
		       (SELECT COUNT(*) FROM guidance_sessions gs WHERE gs.thesis_id = t.id) AS session_count
		FROM theses t JOIN students s ON s.id = t.student_id
		ORDER BY t.id`)
	return out, errors.Wrap(err, "export theses")
}
