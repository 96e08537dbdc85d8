// Package middleware contains the echo middleware shared by all routes:
// bearer authentication, role gates, rate limiting and request logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/repository"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/utils"
)

// Authorizer resolves a raw bearer token to its user. *service.AuthService
// satisfies it.
type Authorizer interface {
	Authorize(ctx context.Context, raw string) (*model.User, utils.Claims, error)
}

// JWTAuth validates the Bearer token, rejects revoked tokens and deleted
// users, and stores the user, its id, its role and the claims in the
// context. Role dispatch downstream reads only these values.
func JWTAuth(a Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			u, claims, err := a.Authorize(c.Request().Context(), raw)
			if err != nil {
				if errors.Is(err, repository.ErrUnauthorized) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
				}
				return err
			}
			c.Set(CtxUser, u)
			c.Set(CtxUserID, u.ID)
			c.Set(CtxRole, u.Role)
			c.Set(CtxClaims, claims)
			return next(c)
		}
	}
}
