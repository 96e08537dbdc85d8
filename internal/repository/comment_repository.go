package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
)

const commentColumns = "id, guidance_session_id, submission_id, sender_id, receiver_id, content, comment_type, created_at"

// CommentRepo persists comments.
type CommentRepo struct{ db *sqlx.DB }

func NewCommentRepo(db *sqlx.DB) *CommentRepo { return &CommentRepo{db: db} }

func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
	if c.CommentType == "" {
		c.CommentType = model.CommentGeneral
	}
	ts := now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (guidance_session_id, submission_id, sender_id, receiver_id, content, comment_type, created_at)
		 VALUES (?,?,?,?,?,?,?)`,
		c.GuidanceSessionID, c.SubmissionID, c.SenderID, c.ReceiverID, c.Content, string(c.CommentType), ts)
	if err != nil {
		return mapWriteErr(err, "insert comment", "comment already exists")
	}
	if c.ID, err = lastID(res); err != nil {
		return errors.Wrap(err, "insert comment")
	}
	c.CreatedAt = ts
	return nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var c model.Comment
	ok, err := get(ctx, r.db, &c, "SELECT "+commentColumns+" FROM comments WHERE id = ?", id)
	if err != nil || !ok {
		return nil, errors.Wrap(err, "get comment")
	}
	return &c, nil
}

func (r *CommentRepo) ListBySession(ctx context.Context, sessionID uint64) ([]model.Comment, error) {
	out := []model.Comment{}
	err := r.db.SelectContext(ctx, &out,
		"SELECT "+commentColumns+" FROM comments WHERE guidance_session_id = ? ORDER BY id", sessionID)
	return out, errors.Wrap(err, "list comments by session")
}

func (r *CommentRepo) ListBySubmission(ctx context.Context, submissionID uint64) ([]model.Comment, error) {
	out := []model.Comment{}
	err := r.db.SelectContext(ctx, &out,
		"SELECT "+commentColumns+" FROM comments WHERE submission_id = ? ORDER BY id", submissionID)
	return out, errors.Wrap(err, "list comments by submission")
}

func (r *CommentRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return false, errors.Wrap(err, "delete comment")
	}
	n, err := res.RowsAffected()
	return n > 0, errors.Wrap(err, "delete comment")
}
