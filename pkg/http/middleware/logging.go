package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	applogger "HurstLab/pkg/logger"
)

// RequestLogging logs every request except those under skipPrefixes, at
// debug level for successes and warn for client errors. Server errors are
// logged by Metrics.
func RequestLogging(l *applogger.Logger, skipPrefixes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			for _, p := range skipPrefixes {
				if p != "" && strings.HasPrefix(req.URL.Path, p) {
					return next(c)
				}
			}

			began := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			res := c.Response()
			fields := []applogger.Field{
				applogger.String("method", req.Method),
				applogger.String("path", req.URL.Path),
				applogger.String("remote", c.RealIP()),
				applogger.Int("status", res.Status),
				applogger.Int64("bytes", res.Size),
				applogger.Duration("took", time.Since(began)),
			}
			if res.Status >= http.StatusBadRequest && res.Status < http.StatusInternalServerError {
				l.Warn("http request rejected", fields...)
			} else {
				l.Debug("http request", fields...)
			}
			return nil
		}
	}
}
