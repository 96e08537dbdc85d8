//go:build testutil
// +build testutil

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/testutil/testdb"
)

// Runs the constraint-sensitive paths against a real MySQL server:
//
//	go test -tags testutil ./internal/repository -run MySQL
func TestMySQL_Constraints(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}
	ctx := context.Background()
	h, err := testdb.StartMySQL(ctx)
	require.NoError(t, err)
	t.Cleanup(h.Close)

	r := newRepos(h.DB)

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		u := r.user(t, model.RoleStudent)
		dup := &model.User{Username: u.Username, Email: "other@campus.test", PasswordHash: "x", Role: model.RoleStudent}
		assert.ErrorIs(t, r.users.Create(ctx, dup), ErrConflict)
	})

	t.Run("unknown thesis lecturer rolls back", func(t *testing.T) {
		s := r.student(t)
		l := r.lecturer(t)
		before := r.count(t, "theses")
		th := &model.Thesis{StudentID: s.ID, Title: "Rollback"}
		_, err := r.theses.Create(ctx, th, []uint64{l.ID, 999999})
		assert.ErrorIs(t, err, ErrReferentialIntegrity)
		assert.Equal(t, before, r.count(t, "theses"))
		assert.Zero(t, th.ID)
	})

	t.Run("submission with unknown uploader", func(t *testing.T) {
		tr := r.tree(t)
		bad := &model.Submission{GuidanceSessionID: tr.session.ID, FileName: "x.pdf", FilePath: "/x.pdf", FileSize: 1, UploadedBy: 999999}
		assert.ErrorIs(t, r.submissions.Create(ctx, bad), ErrReferentialIntegrity)
	})

	t.Run("user delete cascades through the tree", func(t *testing.T) {
		tr := r.tree(t)
		ok, err := r.users.Delete(ctx, tr.student.UserID)
		require.NoError(t, err)
		assert.True(t, ok)

		th, err := r.theses.GetByID(ctx, tr.thesis.ID)
		require.NoError(t, err)
		assert.Nil(t, th)
		c, err := r.comments.GetByID(ctx, tr.comment.ID)
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("notes timestamp advances", func(t *testing.T) {
		tr := r.tree(t)
		prev := tr.session.UpdatedAt
		for i := 0; i < 3; i++ {
			g, err := r.sessions.UpdateNotes(ctx, tr.session.ID, null.StringFrom("round"))
			require.NoError(t, err)
			assert.True(t, g.UpdatedAt.After(prev), "updated_at %s not after %s", g.UpdatedAt, prev)
			prev = g.UpdatedAt
		}
	})

	t.Run("purge expired revocations", func(t *testing.T) {
		u := r.user(t, model.RoleAdmin)
		require.NoError(t, r.tokens.Revoke(ctx, "old-jti", u.ID, time.Now().Add(-time.Hour)))
		require.NoError(t, r.tokens.Revoke(ctx, "live-jti", u.ID, time.Now().Add(time.Hour)))
		n, err := r.tokens.PurgeExpired(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1))
		live, err := r.tokens.IsRevoked(ctx, "live-jti")
		require.NoError(t, err)
		assert.True(t, live)
	})
}
