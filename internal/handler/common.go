// Package handler holds the HTTP handlers. Handlers bind and validate the
// request, call one service method and return its result unchanged; all
// error rendering happens in the error handler.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/middleware"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/observability"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/repository"
)

const requestTimeout = 5 * time.Second

// CustomValidator plugs go-playground/validator into echo.
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// statusOf maps the error taxonomy onto HTTP status codes.
func statusOf(err error) (int, bool) {
	switch {
	case errors.Is(err, repository.ErrUnauthorized):
		return http.StatusUnauthorized, true
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, repository.ErrConflict), errors.Is(err, repository.ErrReferentialIntegrity):
		return http.StatusConflict, true
	case errors.Is(err, repository.ErrInvalidState):
		return http.StatusUnprocessableEntity, true
	}
	return 0, false
}

// NewErrorHandler renders every error as {"error": ...}. Taxonomy errors keep
// their message; anything unexpected becomes a 500 that is logged and sent
// to Sentry.
func NewErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		var body interface{} = echo.Map{"error": http.StatusText(http.StatusInternalServerError)}

		var (
			he   *echo.HTTPError
			verr validator.ValidationErrors
		)
		if status, ok := statusOf(err); ok {
			code, body = status, echo.Map{"error": err.Error()}
		} else if errors.As(err, &verr) {
			fields := make(map[string]string, len(verr))
			for _, fe := range verr {
				fields[fe.Field()] = fe.Tag()
			}
			code, body = http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields}
		} else if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				body = echo.Map{"error": m}
			} else {
				body = echo.Map{"error": he.Message}
			}
		} else {
			uid, _ := middleware.UserID(c)
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("route", c.Path()),
				zap.Uint64("user_id", uid),
				zap.Error(err))
			observability.CaptureRequestErr(err, c.Request().Method, c.Path(), uid)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// bind decodes the body into dst and validates it.
// normalizer is implemented by request bodies that clean their fields
// before validation.
type normalizer interface {
	normalize()
}

func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	return c.Validate(dst)
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// callerID returns the authenticated user's id.
func callerID(c echo.Context) (uint64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return id, nil
}

func deleted(c echo.Context, ok bool, err error) error {
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": ok})
}

// entity writes v, which may be a nil pointer rendered as null.
func entity(c echo.Context, v interface{}, err error) error {
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}
