package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/metrics"
)

// RequestLogger logs one line per request and feeds the HTTP metrics. The
// route template, not the raw path, labels the metrics so ids do not
// explode cardinality.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let the error handler write the response so the status is final
				c.Error(err)
			}
			req, res := c.Request(), c.Response()
			latency := time.Since(start)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.ObserveRequest(req.Method, route, res.Status, latency)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("route", route),
				zap.String("path", req.URL.Path),
				zap.Int("status", res.Status),
				zap.Duration("latency", latency),
				zap.String("ip", c.RealIP()),
			}
			if id, ok := UserID(c); ok {
				fields = append(fields, zap.Uint64("user_id", id))
			}
			switch {
			case res.Status >= 500:
				log.Error("request", fields...)
			case res.Status >= 400:
				log.Info("request", fields...)
			default:
				log.Debug("request", fields...)
			}
			return nil
		}
	}
}
