package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
)

// freezeClock pins nowFunc for the duration of the test.
func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() time.Time { return at }
	t.Cleanup(func() { nowFunc = prev })
}

func TestGuidanceSessionRepo_CreateDefaultsDate(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	tr := r.tree(t)

	assert.False(t, tr.session.SessionDate.IsZero())
	assert.True(t, tr.session.SessionDate.Equal(tr.session.CreatedAt))

	when := time.Date(2026, 3, 2, 9, 30, 0, 0, time.FixedZone("WIB", 7*3600))
	g := &model.GuidanceSession{ThesisID: tr.thesis.ID, SessionDate: when, Notes: null.StringFrom("agenda")}
	require.NoError(t, r.sessions.Create(ctx, g))

	got, err := r.sessions.GetByID(ctx, g.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, when.Equal(got.SessionDate))
	assert.Equal(t, "agenda", got.Notes.String)

	list, err := r.sessions.ListByThesis(ctx, tr.thesis.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestGuidanceSessionRepo_CreateUnknownThesis(t *testing.T) {
	r := setup(t)
	err := r.sessions.Create(context.Background(), &model.GuidanceSession{ThesisID: 77})
	assert.ErrorIs(t, err, ErrReferentialIntegrity)
}

func TestGuidanceSessionRepo_UpdateNotesStrictlyIncreases(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	freezeClock(t, time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC))
	tr := r.tree(t)

	prev := tr.session.UpdatedAt
	for _, notes := range []string{"first", "first", "  spaced  "} {
		g, err := r.sessions.UpdateNotes(ctx, tr.session.ID, null.StringFrom(notes))
		require.NoError(t, err)
		require.NotNil(t, g)
		assert.Equal(t, notes, g.Notes.String)
		assert.True(t, g.UpdatedAt.After(prev), "updated_at %v not after %v", g.UpdatedAt, prev)
		prev = g.UpdatedAt
	}

	g, err := r.sessions.UpdateNotes(ctx, tr.session.ID, null.String{})
	require.NoError(t, err)
	assert.False(t, g.Notes.Valid)
	assert.True(t, g.UpdatedAt.After(prev))
}

func TestGuidanceSessionRepo_UpdateNotesMissing(t *testing.T) {
	r := setup(t)
	g, err := r.sessions.UpdateNotes(context.Background(), 404, null.StringFrom("x"))
	require.NoError(t, err)
	assert.Nil(t, g)
}

func TestGuidanceSessionRepo_DeleteCascades(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	tr := r.tree(t)

	deleted, err := r.sessions.Delete(ctx, tr.session.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 0, r.count(t, "submissions"))
	assert.Equal(t, 0, r.count(t, "comments"))
	assert.Equal(t, 1, r.count(t, "theses"))
}
