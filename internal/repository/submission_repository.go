package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
)

const submissionColumns = "id, guidance_session_id, file_name, file_path, file_size, uploaded_by, description, created_at"

// SubmissionRepo persists file submission metadata.
type SubmissionRepo struct{ db *sqlx.DB }

func NewSubmissionRepo(db *sqlx.DB) *SubmissionRepo { return &SubmissionRepo{db: db} }

// Create inserts s without checking its references first; an unknown
// session or uploader surfaces as ErrReferentialIntegrity.
func (r *SubmissionRepo) Create(ctx context.Context, s *model.Submission) error {
	ts := now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO submissions (guidance_session_id, file_name, file_path, file_size, uploaded_by, description, created_at)
		 VALUES (?,?,?,?,?,?,?)`,
		s.GuidanceSessionID, s.FileName, s.FilePath, s.FileSize, s.UploadedBy, s.Description, ts)
	if err != nil {
		return mapWriteErr(err, "insert submission", "submission already exists")
	}
	if s.ID, err = lastID(res); err != nil {
		return errors.Wrap(err, "insert submission")
	}
	s.CreatedAt = ts
	return nil
}

func (r *SubmissionRepo) GetByID(ctx context.Context, id uint64) (*model.Submission, error) {
	var s model.Submission
	ok, err := get(ctx, r.db, &s, "SELECT "+submissionColumns+" FROM submissions WHERE id = ?", id)
	if err != nil || !ok {
		return nil, errors.Wrap(err, "get submission")
	}
	return &s, nil
}

func (r *SubmissionRepo) ListBySession(ctx context.Context, sessionID uint64) ([]model.Submission, error) {
	out := []model.Submission{}
	err := r.db.SelectContext(ctx, &out,
		"SELECT "+submissionColumns+" FROM submissions WHERE guidance_session_id = ? ORDER BY id", sessionID)
	return out, errors.Wrap(err, "list submissions")
}

// Delete removes the submission and the comments scoped to it.
func (r *SubmissionRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	var deleted bool
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		deleted, err = cascade(ctx, tx, id,
			`DELETE FROM comments WHERE submission_id = ?`,
			`DELETE FROM submissions WHERE id = ?`,
		)
		return err
	})
	return deleted, errors.Wrap(err, "delete submission")
}
