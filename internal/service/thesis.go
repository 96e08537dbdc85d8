package service

import (
	"context"

	"github.com/volatiletech/null/v8"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/repository"
)

// ThesisService manages theses and their supervisors.
type ThesisService struct {
	students  *repository.StudentRepo
	lecturers *repository.LecturerRepo
	theses    *repository.ThesisRepo
}

func NewThesisService(students *repository.StudentRepo, lecturers *repository.LecturerRepo, theses *repository.ThesisRepo) *ThesisService {
	return &ThesisService{students: students, lecturers: lecturers, theses: theses}
}

// CreateThesisInput describes a new thesis. LecturerIDs[0] is the primary
// supervisor.
type CreateThesisInput struct {
	StudentID   uint64
	Title       string
	Description null.String
	Status      model.ThesisStatus
	LecturerIDs []uint64
}

func (s *ThesisService) Create(ctx context.Context, in CreateThesisInput) (*model.ThesisDetail, error) {
	ids := dedupe(in.LecturerIDs)
	if len(ids) == 0 {
		return nil, repository.NewError(repository.ErrInvalidState, "at least one lecturer is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, repository.NewError(repository.ErrInvalidState, "unknown thesis status %q", in.Status)
	}
	st, err := s.students.GetByID(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, repository.NewError(repository.ErrNotFound, "student not found")
	}
	missing, err := s.lecturers.MissingIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, repository.NewError(repository.ErrNotFound, "lecturer %d not found", missing[0])
	}

	t := &model.Thesis{StudentID: in.StudentID, Title: in.Title, Description: in.Description, Status: in.Status}
	links, err := s.theses.Create(ctx, t, ids)
	if err != nil {
		return nil, err
	}
	return &model.ThesisDetail{Thesis: *t, Lecturers: links}, nil
}

// dedupe drops repeated ids, keeping the first occurrence so the primary
// supervisor is stable.
func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *ThesisService) Update(ctx context.Context, id uint64, u repository.ThesisUpdate) (*model.Thesis, error) {
	if u.Status != nil && !u.Status.Valid() {
		return nil, repository.NewError(repository.ErrInvalidState, "unknown thesis status %q", *u.Status)
	}
	t, err := s.theses.Update(ctx, id, u)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, repository.NewError(repository.ErrNotFound, "thesis not found")
	}
	return t, nil
}

// Get returns the thesis with its supervisors, or nil when absent.
func (s *ThesisService) Get(ctx context.Context, id uint64) (*model.ThesisDetail, error) {
	t, err := s.theses.GetByID(ctx, id)
	if err != nil || t == nil {
		return nil, err
	}
	links, err := s.theses.Lecturers(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.ThesisDetail{Thesis: *t, Lecturers: links}, nil
}

func (s *ThesisService) List(ctx context.Context) ([]model.Thesis, error) {
	return s.theses.List(ctx)
}

func (s *ThesisService) ByStudent(ctx context.Context, studentID uint64) ([]model.Thesis, error) {
	return s.theses.ListByStudent(ctx, studentID)
}

func (s *ThesisService) ByLecturer(ctx context.Context, lecturerID uint64) ([]model.Thesis, error) {
	return s.theses.ListByLecturer(ctx, lecturerID)
}

func (s *ThesisService) Lecturers(ctx context.Context, thesisID uint64) ([]model.ThesisLecturer, error) {
	return s.theses.Lecturers(ctx, thesisID)
}

func (s *ThesisService) Delete(ctx context.Context, id uint64) (bool, error) {
	return s.theses.Delete(ctx, id)
}

func (s *ThesisService) ExportRows(ctx context.Context) ([]model.ThesisExportRow, error) {
	return s.theses.ExportRows(ctx)
}
