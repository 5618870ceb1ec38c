package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
	"github.com/xiaot623/gogo/lecturechat/internal/logger"
)

// Error codes in ErrorResponse.Error.
const (
	CodeSessionNotFound = "session_not_found"
	CodeConflict        = "conflict"
	CodeValidationError = "validation_error"
	CodeUnavailable     = "unavailable"
	CodeServerError     = "server_error"
)

// respondError maps service errors onto status codes. Only unexpected
// errors are logged; the rest are normal client outcomes.
func respondError(c echo.Context, err error) error {
	status, code, message := http.StatusInternalServerError, CodeServerError, "internal error"

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code, message = http.StatusNotFound, CodeSessionNotFound, "unknown session id"
	case errors.Is(err, domain.ErrAlreadyExists):
		status, code, message = http.StatusConflict, CodeConflict, "session id already exists"
	case errors.Is(err, domain.ErrValidation):
		status, code, message = http.StatusBadRequest, CodeValidationError, err.Error()
	case errors.Is(err, domain.ErrUnavailable):
		status, code, message = http.StatusServiceUnavailable, CodeUnavailable, "session store unavailable, retry shortly"
		logger.ErrorErr(err, "session store unavailable", "path", c.Path())
	default:
		logger.ErrorErr(err, "request failed", "path", c.Path())
	}

	return c.JSON(status, domain.ErrorResponse{
		Success: false,
		Error:   code,
		Message: message,
	})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, domain.ErrorResponse{
		Success: false,
		Error:   CodeValidationError,
		Message: message,
	})
}
