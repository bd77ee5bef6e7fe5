package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Freeeeeet/jadwal_sync/internal/apperrors"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

// statusFor maps an error code to the HTTP status returned to the caller.
func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.CodeInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func detailFor(err error) string {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return fmt.Sprintf("Terjadi error tidak terduga: %v", err)
}

// errorHandler renders every error, including echo's own routing errors, as {"detail": ...}.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := statusFor(apperrors.CodeOf(err))
		detail := detailFor(err)

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			detail = fmt.Sprint(httpErr.Message)
		}

		if status >= http.StatusInternalServerError {
			logger.Error("Request failed",
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, errorResponse{Detail: detail})
		}
		if err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
	}
}
