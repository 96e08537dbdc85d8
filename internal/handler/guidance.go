package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/middleware"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/service"
)

// GuidanceHandler serves guidance sessions, submissions and comments.
type GuidanceHandler struct {
	Guidance *service.GuidanceService
}

func NewGuidanceHandler(g *service.GuidanceService) *GuidanceHandler {
	return &GuidanceHandler{Guidance: g}
}

type sessionReq struct {
	ThesisID    uint64     `json:"thesis_id" validate:"required"`
	SessionDate *time.Time `json:"session_date"`
	Notes       *string    `json:"notes"`
}

type notesReq struct {
	Notes model.Optional[string] `json:"notes"`
}

type submissionReq struct {
	GuidanceSessionID uint64  `json:"guidance_session_id" validate:"required"`
	FileName          string  `json:"file_name" validate:"required,max=255"`
	FilePath          string  `json:"file_path" validate:"required,max=500"`
	FileSize          int64   `json:"file_size" validate:"gte=0"`
	Description       *string `json:"description"`
	// UploadedBy may only be set by administrators acting for someone else.
	UploadedBy *uint64 `json:"uploaded_by"`
}

type commentReq struct {
	GuidanceSessionID uint64  `json:"guidance_session_id" validate:"required"`
	SubmissionID      *uint64 `json:"submission_id"`
	ReceiverID        *uint64 `json:"receiver_id"`
	Content           string  `json:"content" validate:"required,max=10000"`
	CommentType       string  `json:"comment_type" validate:"omitempty,oneof=GENERAL FILE_COMMENT"`
}

func (h *GuidanceHandler) CreateSession(c echo.Context) error {
	var req sessionReq
	if err := bind(c, &req); err != nil {
		return err
	}
	in := service.SessionInput{ThesisID: req.ThesisID, Notes: null.StringFromPtr(req.Notes)}
	if req.SessionDate != nil {
		in.SessionDate = *req.SessionDate
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	g, err := h.Guidance.CreateSession(ctx, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, g)
}

func (h *GuidanceHandler) GetSession(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	g, err := h.Guidance.GetSession(ctx, id)
	return entity(c, g, err)
}

func (h *GuidanceHandler) SessionsByThesis(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Guidance.SessionsByThesis(ctx, id)
	return entity(c, list, err)
}

// UpdateNotes takes {"notes": "..."} or {"notes": null}; the key is required.
func (h *GuidanceHandler) UpdateNotes(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req notesReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if !req.Notes.Set {
		return echo.NewHTTPError(http.StatusBadRequest, "notes is required")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	g, err := h.Guidance.UpdateNotes(ctx, id, null.StringFromPtr(req.Notes.Ptr()))
	return entity(c, g, err)
}

func (h *GuidanceHandler) DeleteSession(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	ok, err := h.Guidance.DeleteSession(ctx, id)
	return deleted(c, ok, err)
}

func (h *GuidanceHandler) CreateSubmission(c echo.Context) error {
	var req submissionReq
	if err := bind(c, &req); err != nil {
		return err
	}
	uploader, err := callerID(c)
	if err != nil {
		return err
	}
	if req.UploadedBy != nil && *req.UploadedBy != uploader {
		if middleware.Role(c) != model.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "cannot upload on behalf of another user")
		}
		uploader = *req.UploadedBy
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	sub, err := h.Guidance.CreateSubmission(ctx, &model.Submission{
		GuidanceSessionID: req.GuidanceSessionID,
		FileName:          req.FileName,
		FilePath:          req.FilePath,
		FileSize:          req.FileSize,
		UploadedBy:        uploader,
		Description:       null.StringFromPtr(req.Description),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sub)
}

func (h *GuidanceHandler) GetSubmission(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	s, err := h.Guidance.GetSubmission(ctx, id)
	return entity(c, s, err)
}

func (h *GuidanceHandler) SubmissionsBySession(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Guidance.SubmissionsBySession(ctx, id)
	return entity(c, list, err)
}

func (h *GuidanceHandler) DeleteSubmission(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	ok, err := h.Guidance.DeleteSubmission(ctx, id)
	return deleted(c, ok, err)
}

// CreateComment records a comment sent by the caller.
func (h *GuidanceHandler) CreateComment(c echo.Context) error {
	var req commentReq
	if err := bind(c, &req); err != nil {
		return err
	}
	sender, err := callerID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	cm, err := h.Guidance.CreateComment(ctx, &model.Comment{
		GuidanceSessionID: req.GuidanceSessionID,
		SubmissionID:      null.Uint64FromPtr(req.SubmissionID),
		SenderID:          sender,
		ReceiverID:        null.Uint64FromPtr(req.ReceiverID),
		Content:           req.Content,
		CommentType:       model.CommentType(req.CommentType),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cm)
}

func (h *GuidanceHandler) GetComment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	cm, err := h.Guidance.GetComment(ctx, id)
	return entity(c, cm, err)
}

func (h *GuidanceHandler) CommentsBySession(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Guidance.CommentsBySession(ctx, id)
	return entity(c, list, err)
}

func (h *GuidanceHandler) CommentsBySubmission(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Guidance.CommentsBySubmission(ctx, id)
	return entity(c, list, err)
}

func (h *GuidanceHandler) DeleteComment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	ok, err := h.Guidance.DeleteComment(ctx, id)
	return deleted(c, ok, err)
}
