package service

import (
	"context"

	"github.com/volatiletech/null/v8"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/repository"
)

// ProfileService manages the student and lecturer profiles attached to
// user accounts.
type ProfileService struct {
	users     *repository.UserRepo
	students  *repository.StudentRepo
	lecturers *repository.LecturerRepo
}

func NewProfileService(users *repository.UserRepo, students *repository.StudentRepo, lecturers *repository.LecturerRepo) *ProfileService {
	return &ProfileService{users: users, students: students, lecturers: lecturers}
}

type StudentInput struct {
	UserID    uint64
	StudentID string
	FullName  string
	Phone     null.String
	Address   null.String
}

type LecturerInput struct {
	UserID         uint64
	LecturerID     string
	FullName       string
	Phone          null.String
	Specialization null.String
}

// requireRole loads the user and checks it carries role.
func (s *ProfileService) requireRole(ctx context.Context, userID uint64, role model.Role) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return repository.NewError(repository.ErrNotFound, "user not found")
	}
	if u.Role != role {
		return repository.NewError(repository.ErrInvalidState, "user role is %s, expected %s", u.Role, role)
	}
	return nil
}

func (s *ProfileService) CreateStudent(ctx context.Context, in StudentInput) (*model.Student, error) {
	if err := s.requireRole(ctx, in.UserID, model.RoleStudent); err != nil {
		return nil, err
	}
	existing, err := s.students.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, repository.NewError(repository.ErrConflict, "student profile already exists for this user")
	}
	taken, err := s.students.StudentNumberExists(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, repository.NewError(repository.ErrConflict, "student id already exists")
	}
	st := &model.Student{UserID: in.UserID, StudentID: in.StudentID, FullName: in.FullName, Phone: in.Phone, Address: in.Address}
	if err := s.students.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *ProfileService) GetStudent(ctx context.Context, id uint64) (*model.Student, error) {
	return s.students.GetByID(ctx, id)
}

func (s *ProfileService) StudentByUser(ctx context.Context, userID uint64) (*model.Student, error) {
	return s.students.GetByUserID(ctx, userID)
}

func (s *ProfileService) ListStudents(ctx context.Context) ([]model.Student, error) {
	return s.students.List(ctx)
}

func (s *ProfileService) DeleteStudent(ctx context.Context, id uint64) (bool, error) {
	return s.students.Delete(ctx, id)
}

func (s *ProfileService) CreateLecturer(ctx context.Context, in LecturerInput) (*model.Lecturer, error) {
	if err := s.requireRole(ctx, in.UserID, model.RoleLecturer); err != nil {
		return nil, err
	}
	existing, err := s.lecturers.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, repository.NewError(repository.ErrConflict, "lecturer profile already exists for this user")
	}
	taken, err := s.lecturers.LecturerNumberExists(ctx, in.LecturerID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, repository.NewError(repository.ErrConflict, "lecturer id already exists")
	}
	l := &model.Lecturer{UserID: in.UserID, LecturerID: in.LecturerID, FullName: in.FullName, Phone: in.Phone, Specialization: in.Specialization}
	if err := s.lecturers.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *ProfileService) GetLecturer(ctx context.Context, id uint64) (*model.Lecturer, error) {
	return s.lecturers.GetByID(ctx, id)
}

func (s *ProfileService) LecturerByUser(ctx context.Context, userID uint64) (*model.Lecturer, error) {
	return s.lecturers.GetByUserID(ctx, userID)
}

func (s *ProfileService) ListLecturers(ctx context.Context) ([]model.Lecturer, error) {
	return s.lecturers.List(ctx)
}

func (s *ProfileService) DeleteLecturer(ctx context.Context, id uint64) (bool, error) {
	return s.lecturers.Delete(ctx, id)
}
