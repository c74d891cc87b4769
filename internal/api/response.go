// Package api exposes the ambient HTTP surface (spec §6): manual sync
// triggers, read-only result/crawl-data queries, and a health check.
package api

import (
	"errors"
	"net/http"

	apperrors "github.com/hallyusync/concert-sync/internal/apperrors"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the JSON body every non-2xx response returns.
type ErrorResponse struct {
	Message string `json:"message"`
}

func newHTTPError(err error) *echo.HTTPError {
	code := http.StatusInternalServerError
	message := "내부 서버 오류가 발생했습니다"

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		switch appErr.Type {
		case apperrors.ErrInvalidInput:
			code = http.StatusBadRequest
		case apperrors.ErrNotFound:
			code = http.StatusNotFound
		case apperrors.ErrTimeout:
			code = http.StatusGatewayTimeout
		case apperrors.ErrUnavailable:
			code = http.StatusServiceUnavailable
		default:
			code = http.StatusInternalServerError
		}
	}

	return echo.NewHTTPError(code, ErrorResponse{Message: message})
}

// errorHandler is Echo's global HTTPErrorHandler. Every error that reaches
// it is logged and converted to the standard ErrorResponse JSON shape.
func errorHandler(err error, c echo.Context) {
	he, ok := err.(*echo.HTTPError)
	if !ok {
		he = newHTTPError(err)
	}

	fields := logFields(c, he.Code, err)
	if he.Code >= http.StatusInternalServerError {
		logEntry(fields).Error("HTTP 5xx: 서버 내부 오류")
	} else {
		logEntry(fields).Warn("HTTP 4xx: 클라이언트 요청 오류")
	}

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		c.NoContent(he.Code)
		return
	}

	message := "내부 서버 오류가 발생했습니다"
	if resp, ok := he.Message.(ErrorResponse); ok {
		message = resp.Message
	} else if s, ok := he.Message.(string); ok {
		message = s
	}
	c.JSON(he.Code, ErrorResponse{Message: message})
}
