package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/testutil/testdb"
)

type repos struct {
	db          *sqlx.DB
	users       *UserRepo
	tokens      *TokenRepo
	students    *StudentRepo
	lecturers   *LecturerRepo
	theses      *ThesisRepo
	sessions    *GuidanceSessionRepo
	submissions *SubmissionRepo
	comments    *CommentRepo
}

func newRepos(db *sqlx.DB) repos {
	return repos{
		db:          db,
		users:       NewUserRepo(db),
		tokens:      NewTokenRepo(db),
		students:    NewStudentRepo(db),
		lecturers:   NewLecturerRepo(db),
		theses:      NewThesisRepo(db),
		sessions:    NewGuidanceSessionRepo(db),
		submissions: NewSubmissionRepo(db),
		comments:    NewCommentRepo(db),
	}
}

func setup(t *testing.T) repos {
	t.Helper()
	return newRepos(testdb.SQLite(t))
}

var seq atomic.Int64

func (r repos) user(t *testing.T, role model.Role) *model.User {
	t.Helper()
	n := seq.Add(1)
	u := &model.User{
		Username:     fmt.Sprintf("user%d", n),
		Email:        fmt.Sprintf("user%d@campus.test", n),
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, r.users.Create(context.Background(), u))
	return u
}

func (r repos) student(t *testing.T) *model.Student {
	t.Helper()
	u := r.user(t, model.RoleStudent)
	s := &model.Student{UserID: u.ID, StudentID: fmt.Sprintf("NIM-%d", u.ID), FullName: "Student " + u.Username}
	require.NoError(t, r.students.Create(context.Background(), s))
	return s
}

func (r repos) lecturer(t *testing.T) *model.Lecturer {
	t.Helper()
	u := r.user(t, model.RoleLecturer)
	l := &model.Lecturer{UserID: u.ID, LecturerID: fmt.Sprintf("NIDN-%d", u.ID), FullName: "Dr. " + u.Username}
	require.NoError(t, r.lecturers.Create(context.Background(), l))
	return l
}

// tree builds student → thesis(2 lecturers) → session → submission → comment.
type tree struct {
	student    *model.Student
	lecturers  []*model.Lecturer
	thesis     *model.Thesis
	session    *model.GuidanceSession
	submission *model.Submission
	comment    *model.Comment
}

func (r repos) tree(t *testing.T) tree {
	t.Helper()
	ctx := context.Background()
	var tr tree
	tr.student = r.student(t)
	tr.lecturers = []*model.Lecturer{r.lecturer(t), r.lecturer(t)}

	tr.thesis = &model.Thesis{StudentID: tr.student.ID, Title: "Distributed ledgers"}
	_, err := r.theses.Create(ctx, tr.thesis, []uint64{tr.lecturers[0].ID, tr.lecturers[1].ID})
	require.NoError(t, err)

	tr.session = &model.GuidanceSession{ThesisID: tr.thesis.ID}
	require.NoError(t, r.sessions.Create(ctx, tr.session))

	tr.submission = &model.Submission{
		GuidanceSessionID: tr.session.ID,
		FileName:          "bab1.pdf",
		FilePath:          "/uploads/bab1.pdf",
		FileSize:          2048,
		UploadedBy:        tr.student.UserID,
	}
	require.NoError(t, r.submissions.Create(ctx, tr.submission))

	tr.comment = &model.Comment{
		GuidanceSessionID: tr.session.ID,
		SubmissionID:      null.Uint64From(tr.submission.ID),
		SenderID:          tr.lecturers[0].UserID,
		ReceiverID:        null.Uint64From(tr.student.UserID),
		Content:           "Fix the references",
		CommentType:       model.CommentFile,
	}
	require.NoError(t, r.comments.Create(ctx, tr.comment))
	return tr
}

func (r repos) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, r.db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}
