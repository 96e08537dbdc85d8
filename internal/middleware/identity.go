package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/utils"
)

// keys under which JWTAuth stores the caller's identity in the echo context
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxUser   = "user"
	CtxClaims = "claims"
)

// UserID returns the authenticated user's id, or false on a public route.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(CtxUserID).(uint64)
	return id, ok && id != 0
}

// Role returns the authenticated user's role, or "" on a public route.
func Role(c echo.Context) model.Role {
	r, _ := c.Get(CtxRole).(model.Role)
	return r
}

// CurrentUser returns the user loaded by JWTAuth.
func CurrentUser(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(CtxUser).(*model.User)
	return u, ok && u != nil
}

// TokenClaims returns the verified claims of the bearer token.
func TokenClaims(c echo.Context) (utils.Claims, bool) {
	cl, ok := c.Get(CtxClaims).(utils.Claims)
	return cl, ok
}

// currentUserID renders the caller for rate limit keys.
func currentUserID(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
