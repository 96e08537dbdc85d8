// Package router builds the echo instance and registers every route.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/config"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/handler"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/metrics"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/middleware"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/service"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	DB        handler.Pinger
	Auth      *service.AuthService
	Profiles  *service.ProfileService
	Theses    *service.ThesisService
	Guidance  *service.GuidanceService
	RateLimit config.RateLimitConfig
	Redis     *redis.Client // nil disables rate limiting
	Log       *zap.Logger
}

// New returns a configured echo instance with all routes registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.NewErrorHandler(d.Log)

	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.Recover())

	RegisterRoutes(e, d.DB)

	jwt := middleware.JWTAuth(d.Auth)
	RegisterAuth(e, handler.NewAuthHandler(d.Auth), jwt,
		middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log.Sugar()))

	v1 := e.Group("/v1", jwt)
	RegisterProfiles(v1, handler.NewProfileHandler(d.Profiles))
	RegisterTheses(v1, handler.NewThesisHandler(d.Theses))
	RegisterGuidance(v1, handler.NewGuidanceHandler(d.Guidance))
	RegisterAdmin(v1, handler.NewAuthHandler(d.Auth), handler.NewExportHandler(d.Theses))
	return e
}

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// RegisterAuth registers the session endpoints. Register and login sit behind
// the rate limiter; logout and /me need a bearer token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwt, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register, limiter)
	g.POST("/login", a.Login, limiter)
	g.POST("/logout", a.Logout, jwt)

	e.GET("/v1/me", a.Me, jwt)
}
