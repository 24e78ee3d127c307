package api

import (
	"net/http"

	"shareit/internal/domain"

	"github.com/labstack/echo/v4"
)

// errorResponse is the envelope returned for every failed request.
type errorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindAccessDenied:
		return http.StatusForbidden
	case domain.KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Do not leak storage internals to clients.
		message = "internal server error"
	}
	return c.JSON(status, errorResponse{Message: message, Status: status})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{
		Message: message,
		Status:  http.StatusBadRequest,
	})
}
