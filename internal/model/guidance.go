package model

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// CommentType distinguishes general remarks from feedback on a submitted file.
type CommentType string

const (
	CommentGeneral CommentType = "GENERAL"
	CommentFile    CommentType = "FILE_COMMENT"
)

// GuidanceSession is one supervision meeting for a thesis.
type GuidanceSession struct {
	ID          uint64      `db:"id" json:"id"`
	ThesisID    uint64      `db:"thesis_id" json:"thesis_id"`
	SessionDate time.Time   `db:"session_date" json:"session_date"`
	Notes       null.String `db:"notes" json:"notes"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// Submission records file metadata uploaded within a guidance session.
// Rows are immutable; only deletion is supported.
type Submission struct {
	ID                uint64      `db:"id" json:"id"`
	GuidanceSessionID uint64      `db:"guidance_session_id" json:"guidance_session_id"`
	FileName          string      `db:"file_name" json:"file_name"`
	FilePath          string      `db:"file_path" json:"file_path"`
	FileSize          int64       `db:"file_size" json:"file_size"`
	UploadedBy        uint64      `db:"uploaded_by" json:"uploaded_by"`
	Description       null.String `db:"description" json:"description"`
	CreatedAt         time.Time   `db:"created_at" json:"created_at"`
}

// Comment is a message within a guidance session, optionally scoped to a
// submission.
type Comment struct {
	ID                uint64      `db:"id" json:"id"`
	GuidanceSessionID uint64      `db:"guidance_session_id" json:"guidance_session_id"`
	SubmissionID      null.Uint64 `db:"submission_id" json:"submission_id"`
	SenderID          uint64      `db:"sender_id" json:"sender_id"`
	ReceiverID        null.Uint64 `db:"receiver_id" json:"receiver_id"`
	Content           string      `db:"content" json:"content"`
	CommentType       CommentType `db:"comment_type" json:"comment_type"`
	CreatedAt         time.Time   `db:"created_at" json:"created_at"`
}
