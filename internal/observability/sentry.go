// Package observability wires error reporting to Sentry.
package observability

import (
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry configures the global hub. An empty dsn disables reporting and
// returns a no-op flush.
func InitSentry(dsn, env, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
		Release:     release,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

func CaptureErr(err error) {
	if err != nil {
		sentry.CaptureException(err)
	}
}

// CaptureRequestErr reports err with the request route attached.
func CaptureRequestErr(err error, method, route string, userID uint64) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("http.method", method)
		scope.SetTag("http.route", route)
		if userID != 0 {
			scope.SetUser(sentry.User{ID: strconv.FormatUint(userID, 10)})
		}
		sentry.CaptureException(err)
	})
}
