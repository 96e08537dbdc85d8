package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
)

func TestThesisRepo_CreateLinksSupervisors(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	s := r.student(t)
	l1, l2 := r.lecturer(t), r.lecturer(t)

	th := &model.Thesis{StudentID: s.ID, Title: "Edge caching"}
	links, err := r.theses.Create(ctx, th, []uint64{l2.ID, l1.ID})
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.NotZero(t, th.ID)
	assert.Equal(t, model.ThesisProposal, th.Status)

	assert.Equal(t, l2.ID, links[0].LecturerID)
	assert.True(t, links[0].IsPrimary)
	assert.False(t, links[1].IsPrimary)

	stored, err := r.theses.Lecturers(ctx, th.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, l2.ID, stored[0].LecturerID)
	assert.True(t, stored[0].IsPrimary)

	byLecturer, err := r.theses.ListByLecturer(ctx, l1.ID)
	require.NoError(t, err)
	require.Len(t, byLecturer, 1)
	assert.Equal(t, th.ID, byLecturer[0].ID)
}

func TestThesisRepo_CreateRollsBackOnBadLecturer(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	s := r.student(t)
	l := r.lecturer(t)

	th := &model.Thesis{StudentID: s.ID, Title: "Orphan"}
	_, err := r.theses.Create(ctx, th, []uint64{l.ID, 4242})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReferentialIntegrity)
	assert.Zero(t, th.ID)

	assert.Equal(t, 0, r.count(t, "theses"))
	assert.Equal(t, 0, r.count(t, "thesis_lecturers"))
}

func TestThesisRepo_CreateRequiresLecturer(t *testing.T) {
	r := setup(t)
	s := r.student(t)
	_, err := r.theses.Create(context.Background(), &model.Thesis{StudentID: s.ID, Title: "Solo"}, nil)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestThesisRepo_Update(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	tr := r.tree(t)

	title := "Distributed ledgers, revised"
	u, err := r.theses.Update(ctx, tr.thesis.ID, ThesisUpdate{
		Title:       &title,
		Description: model.Some("chapter outline"),
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, title, u.Title)
	assert.Equal(t, "chapter outline", u.Description.String)
	assert.Equal(t, model.ThesisProposal, u.Status)
	assert.False(t, u.UpdatedAt.Before(u.CreatedAt))

	status := model.ThesisInProgress
	u, err = r.theses.Update(ctx, tr.thesis.ID, ThesisUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.ThesisInProgress, u.Status)
	assert.Equal(t, title, u.Title)
	assert.True(t, u.Description.Valid, "unset description must be left alone")

	u, err = r.theses.Update(ctx, tr.thesis.ID, ThesisUpdate{Description: model.Null[string]()})
	require.NoError(t, err)
	assert.False(t, u.Description.Valid)

	missing, err := r.theses.Update(ctx, 9999, ThesisUpdate{Title: &title})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestThesisRepo_DeleteCascades(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	tr := r.tree(t)

	deleted, err := r.theses.Delete(ctx, tr.thesis.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	for _, table := range []string{"theses", "thesis_lecturers", "guidance_sessions", "submissions", "comments"} {
		assert.Equal(t, 0, r.count(t, table), table)
	}
	// people survive
	assert.Equal(t, 1, r.count(t, "students"))
	assert.Equal(t, 2, r.count(t, "lecturers"))

	deleted, err = r.theses.Delete(ctx, tr.thesis.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestThesisRepo_ListsAreEmptyNotNil(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	all, err := r.theses.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	byStudent, err := r.theses.ListByStudent(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, byStudent)

	links, err := r.theses.Lecturers(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, links)

	th, err := r.theses.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, th)
}

func TestThesisRepo_ExportRows(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	tr := r.tree(t)

	rows, err := r.theses.ExportRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, tr.thesis.ID, row.ThesisID)
	assert.Equal(t, tr.student.StudentID, row.StudentNumber)
	assert.Equal(t, tr.lecturers[0].FullName, row.PrimaryLecturer.String)
	assert.EqualValues(t, 1, row.SessionCount)
}
