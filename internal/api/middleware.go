package api

import (
	"fmt"
	"runtime"

	applog "github.com/hallyusync/concert-sync/internal/applog"
	"github.com/labstack/echo/v4"
)

const component = "api"

const stackBufferSize = 4 << 10

func logEntry(fields applog.Fields) *applog.Entry {
	return applog.WithComponentAndFields(component, fields)
}

func logFields(c echo.Context, statusCode int, err error) applog.Fields {
	return applog.Fields{
		"path":        c.Request().URL.Path,
		"method":      c.Request().Method,
		"status_code": statusCode,
		"error":       err.Error(),
		"remote_ip":   c.RealIP(),
		"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
	}
}

// panicRecovery recovers a panic in any downstream handler, logs it with a
// stack trace, and hands the resulting error to Echo's error handler rather
// than letting the process crash.
func panicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}

					stack := make([]byte, stackBufferSize)
					length := runtime.Stack(stack, false)

					logEntry(applog.Fields{
						"error": err.Error(),
						"stack": string(stack[:length]),
					}).Error("PANIC RECOVERED")

					c.Error(err)
				}
			}()
			return next(c)
		}
	}
}

// httpLogger logs every request's method, path, status, response size, and
// request id once the handler chain completes.
func httpLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := next(c); err != nil {
			c.Error(err)
		}

		res := c.Response()
		logEntry(applog.Fields{
			"method":     c.Request().Method,
			"path":       c.Request().URL.Path,
			"status":     res.Status,
			"bytes_out":  res.Size,
			"request_id": res.Header().Get(echo.HeaderXRequestID),
		}).Info("HTTP request")

		return nil
	}
}
