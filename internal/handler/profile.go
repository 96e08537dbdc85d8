package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/service"
)

// ProfileHandler serves student and lecturer profiles.
type ProfileHandler struct {
	Profiles *service.ProfileService
}

func NewProfileHandler(p *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{Profiles: p}
}

type studentReq struct {
	UserID    uint64  `json:"user_id" validate:"required"`
	StudentID string  `json:"student_id" validate:"required,max=50"`
	FullName  string  `json:"full_name" validate:"required,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	Address   *string `json:"address"`
}

type lecturerReq struct {
	UserID         uint64  `json:"user_id" validate:"required"`
	LecturerID     string  `json:"lecturer_id" validate:"required,max=50"`
	FullName       string  `json:"full_name" validate:"required,max=255"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	Specialization *string `json:"specialization" validate:"omitempty,max=255"`
}

func (r *studentReq) normalize() {
	r.StudentID = strings.TrimSpace(r.StudentID)
	r.FullName = strings.TrimSpace(r.FullName)
}

func (r *lecturerReq) normalize() {
	r.LecturerID = strings.TrimSpace(r.LecturerID)
	r.FullName = strings.TrimSpace(r.FullName)
}

func (h *ProfileHandler) CreateStudent(c echo.Context) error {
	var req studentReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	s, err := h.Profiles.CreateStudent(ctx, service.StudentInput{
		UserID:    req.UserID,
		StudentID: req.StudentID,
		FullName:  req.FullName,
		Phone:     null.StringFromPtr(req.Phone),
		Address:   null.StringFromPtr(req.Address),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *ProfileHandler) ListStudents(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Profiles.ListStudents(ctx)
	return entity(c, list, err)
}

func (h *ProfileHandler) GetStudent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	s, err := h.Profiles.GetStudent(ctx, id)
	return entity(c, s, err)
}

func (h *ProfileHandler) StudentByUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	s, err := h.Profiles.StudentByUser(ctx, id)
	return entity(c, s, err)
}

func (h *ProfileHandler) DeleteStudent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	ok, err := h.Profiles.DeleteStudent(ctx, id)
	return deleted(c, ok, err)
}

func (h *ProfileHandler) CreateLecturer(c echo.Context) error {
	var req lecturerReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	l, err := h.Profiles.CreateLecturer(ctx, service.LecturerInput{
		UserID:         req.UserID,
		LecturerID:     req.LecturerID,
		FullName:       req.FullName,
		Phone:          null.StringFromPtr(req.Phone),
		Specialization: null.StringFromPtr(req.Specialization),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *ProfileHandler) ListLecturers(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Profiles.ListLecturers(ctx)
	return entity(c, list, err)
}

func (h *ProfileHandler) GetLecturer(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	l, err := h.Profiles.GetLecturer(ctx, id)
	return entity(c, l, err)
}

func (h *ProfileHandler) LecturerByUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	l, err := h.Profiles.LecturerByUser(ctx, id)
	return entity(c, l, err)
}

func (h *ProfileHandler) DeleteLecturer(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	ok, err := h.Profiles.DeleteLecturer(ctx, id)
	return deleted(c, ok, err)
}
