package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/middleware"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/service"
)

// AuthHandler serves registration, login, logout and account endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(a *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: a}
}

type registerReq struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"required,oneof=STUDENT LECTURER ADMIN"`
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResp struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Role = strings.ToUpper(strings.TrimSpace(req.Role))
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	u, err := h.Auth.Register(ctx, service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	u, tok, err := h.Auth.Authenticate(ctx, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResp{User: u, Token: tok.Token, ExpiresAt: tok.Exp})
}

// Logout revokes the bearer token used for this request.
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, ok := middleware.TokenClaims(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Auth.Logout(ctx, claims); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) ListUsers(c echo.Context) error {
	role := model.Role(strings.ToUpper(c.QueryParam("role")))
	if role != "" && !role.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid role")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	users, err := h.Auth.ListUsers(ctx, role)
	return entity(c, users, err)
}

func (h *AuthHandler) GetUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	u, err := h.Auth.GetUser(ctx, id)
	return entity(c, u, err)
}

func (h *AuthHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	ok, err := h.Auth.DeleteUser(ctx, id)
	return deleted(c, ok, err)
}
