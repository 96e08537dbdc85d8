package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/repository"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/service"
)

// ThesisHandler serves theses and their supervisor links.
type ThesisHandler struct {
	Theses *service.ThesisService
}

func NewThesisHandler(t *service.ThesisService) *ThesisHandler {
	return &ThesisHandler{Theses: t}
}

type createThesisReq struct {
	StudentID   uint64   `json:"student_id" validate:"required"`
	Title       string   `json:"title" validate:"required,max=255"`
	Description *string  `json:"description"`
	Status      string   `json:"status" validate:"omitempty,oneof=PROPOSAL IN_PROGRESS REVISION COMPLETED"`
	LecturerIDs []uint64 `json:"lecturer_ids" validate:"required,min=1,dive,required"`
}

func (r *createThesisReq) normalize() { r.Title = strings.TrimSpace(r.Title) }

// updateThesisReq distinguishes an absent description from an explicit null.
type updateThesisReq struct {
	Title       *string                `json:"title" validate:"omitempty,min=1,max=255"`
	Description model.Optional[string] `json:"description"`
	Status      *string                `json:"status" validate:"omitempty,oneof=PROPOSAL IN_PROGRESS REVISION COMPLETED"`
}

func (r *updateThesisReq) normalize() { trimPtr(r.Title) }

func (h *ThesisHandler) Create(c echo.Context) error {
	var req createThesisReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	d, err := h.Theses.Create(ctx, service.CreateThesisInput{
		StudentID:   req.StudentID,
		Title:       req.Title,
		Description: null.StringFromPtr(req.Description),
		Status:      model.ThesisStatus(req.Status),
		LecturerIDs: req.LecturerIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *ThesisHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req updateThesisReq
	if err := bind(c, &req); err != nil {
		return err
	}
	u := repository.ThesisUpdate{Title: req.Title, Description: req.Description}
	if req.Status != nil {
		st := model.ThesisStatus(*req.Status)
		u.Status = &st
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	t, err := h.Theses.Update(ctx, id, u)
	return entity(c, t, err)
}

func (h *ThesisHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Theses.List(ctx)
	return entity(c, list, err)
}

func (h *ThesisHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	d, err := h.Theses.Get(ctx, id)
	return entity(c, d, err)
}

func (h *ThesisHandler) ByStudent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Theses.ByStudent(ctx, id)
	return entity(c, list, err)
}

func (h *ThesisHandler) ByLecturer(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Theses.ByLecturer(ctx, id)
	return entity(c, list, err)
}

func (h *ThesisHandler) Lecturers(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Theses.Lecturers(ctx, id)
	return entity(c, list, err)
}

func (h *ThesisHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	ok, err := h.Theses.Delete(ctx, id)
	return deleted(c, ok, err)
}
