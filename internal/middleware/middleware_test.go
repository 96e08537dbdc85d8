package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/config"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/repository"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/utils"
)

type stubAuthorizer struct {
	user *model.User
	err  error
}

func (s stubAuthorizer) Authorize(context.Context, string) (*model.User, utils.Claims, error) {
	if s.err != nil {
		return nil, utils.Claims{}, s.err
	}
	return s.user, utils.Claims{UserID: s.user.ID, ID: "jti"}, nil
}

func serve(e *echo.Echo, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	admin := &model.User{ID: 7, Username: "root", Role: model.RoleAdmin}
	whoami := func(c echo.Context) error {
		id, _ := UserID(c)
		_, hasClaims := TokenClaims(c)
		return c.JSON(http.StatusOK, echo.Map{"id": id, "role": Role(c), "claims": hasClaims})
	}

	tests := []struct {
		name   string
		auth   Authorizer
		bearer string
		status int
		body   string
	}{
		{"missing header", stubAuthorizer{user: admin}, "", http.StatusUnauthorized, `{"error":"missing bearer token"}`},
		{"rejected token", stubAuthorizer{err: repository.NewError(repository.ErrUnauthorized, "token has been revoked")}, "x",
			http.StatusUnauthorized, `{"error":"token has been revoked"}`},
		{"store failure", stubAuthorizer{err: errors.New("db down")}, "x", http.StatusInternalServerError, ""},
		{"ok", stubAuthorizer{user: admin}, "good", http.StatusOK, `{"id":7,"role":"ADMIN","claims":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/me", whoami, JWTAuth(tt.auth))
			rec := serve(e, http.MethodGet, "/me", tt.bearer)
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	for _, tc := range []struct {
		role   model.Role
		status int
	}{
		{model.RoleAdmin, http.StatusNoContent},
		{model.RoleLecturer, http.StatusForbidden},
		{"", http.StatusForbidden},
	} {
		e := echo.New()
		u := &model.User{ID: 1, Role: tc.role}
		e.GET("/admin", ok, JWTAuth(stubAuthorizer{user: u}), RequireRole(model.RoleAdmin))
		rec := serve(e, http.MethodGet, "/admin", "t")
		assert.Equal(t, tc.status, rec.Code, "role %q", tc.role)
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.9")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/auth/login")

	cfg := config.RateLimitConfig{Prefix: "rl"}
	for strategy, want := range map[string]string{
		"ip":       "rl:ip:10.0.0.9",
		"ip_route": "rl:ip:10.0.0.9:route:POST /v1/auth/login",
		"user":     "rl:user:anon",
		"":         "rl:ip:10.0.0.9:user:anon:route:POST /v1/auth/login",
	} {
		cfg.KeyStrategy = strategy
		assert.Equal(t, want, buildRateKey(cfg, c), strategy)
	}

	c.Set(CtxUserID, uint64(42))
	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:42", buildRateKey(cfg, c))
}

func TestTokenBucketPassThrough(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	log := zap.NewNop().Sugar()

	// disabled
	e := echo.New()
	e.POST("/login", ok, NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil, log))
	assert.Equal(t, http.StatusNoContent, serve(e, http.MethodPost, "/login", "").Code)

	// unreachable redis fails open
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute, Prefix: "rl"}
	e = echo.New()
	e.POST("/login", ok, NewTokenBucket(cfg, rdb, log))
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusNoContent, serve(e, http.MethodPost, "/login", "").Code)
	}
}

func TestRequestLoggerRecordsFinalStatus(t *testing.T) {
	e := echo.New()
	e.Use(RequestLogger(zap.NewNop()))
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusTeapot, "short and stout") })
	rec := serve(e, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
