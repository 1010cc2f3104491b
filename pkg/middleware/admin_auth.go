package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/thecloudsteward/proposals/pkg/models"
)

// AdminAuth guards admin endpoints with a shared bearer token.
// An empty configured token disables the admin surface entirely.
func AdminAuth(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token == "" {
				return c.JSON(http.StatusNotFound, models.ErrorResponse{
					Error: "not_found",
				})
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			presented, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error: "unauthorized",
				})
			}

			return next(c)
		}
	}
}
