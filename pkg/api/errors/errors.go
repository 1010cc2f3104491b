package errors

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/thecloudsteward/proposals/pkg/models"
)

// BadRequest returns a 400 with the given message. Used for input
// validation and pricing failures, where the message is safe to expose.
func BadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: message,
	})
}

// ValidationError returns a generic validation error without exposing
// internal details
func ValidationError(c echo.Context, err error) error {
	log.Printf("[VALIDATION ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)

	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "validation_error",
		Message: "Invalid request data. Please check your input and try again.",
	})
}

// NotFound returns a generic not found error
func NotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error: "not_found",
	})
}

// Provider returns the payment processor's own error message as a 400.
// The provider already phrases these for end users.
func Provider(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: err.Error(),
	})
}

// Internal returns a generic internal server error
func Internal(c echo.Context, err error) error {
	log.Printf("[INTERNAL ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred. Please try again later.",
	})
}
