package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/repository"
)

func TestCreateStudent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.student(t, "ayu", "2201001")
	lect := e.register(t, "budi", model.RoleLecturer)
	other := e.register(t, "cahya", model.RoleStudent)

	tests := []struct {
		name string
		in   StudentInput
		kind error
	}{
		{"unknown user", StudentInput{UserID: 999, StudentID: "x", FullName: "x"}, repository.ErrNotFound},
		{"wrong role", StudentInput{UserID: lect.ID, StudentID: "x", FullName: "x"}, repository.ErrInvalidState},
		{"second profile", StudentInput{UserID: s.UserID, StudentID: "2201999", FullName: "x"}, repository.ErrConflict},
		{"duplicate student id", StudentInput{UserID: other.ID, StudentID: "2201001", FullName: "x"}, repository.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.profiles.CreateStudent(ctx, tt.in)
			assert.ErrorIs(t, err, tt.kind)
		})
	}

	got, err := e.profiles.StudentByUser(ctx, s.UserID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.ID, got.ID)
}

func TestCreateLecturer(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	l := e.lecturer(t, "budi", "0011223344")
	stud := e.register(t, "ayu", model.RoleStudent)
	other := e.register(t, "dedi", model.RoleLecturer)

	_, err := e.profiles.CreateLecturer(ctx, LecturerInput{UserID: 999, LecturerID: "x", FullName: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = e.profiles.CreateLecturer(ctx, LecturerInput{UserID: stud.ID, LecturerID: "x", FullName: "x"})
	assert.ErrorIs(t, err, repository.ErrInvalidState)
	_, err = e.profiles.CreateLecturer(ctx, LecturerInput{UserID: l.UserID, LecturerID: "y", FullName: "x"})
	assert.ErrorIs(t, err, repository.ErrConflict)
	_, err = e.profiles.CreateLecturer(ctx, LecturerInput{UserID: other.ID, LecturerID: "0011223344", FullName: "x"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	list, err := e.profiles.ListLecturers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	deleted, err := e.profiles.DeleteLecturer(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	gone, err := e.profiles.GetLecturer(ctx, l.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
