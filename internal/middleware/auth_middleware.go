package middleware

import (
	"net/http"

	"focusos/internal/handler"

	"github.com/labstack/echo/v4"
)

// RequireSession rejects requests without a signed-in user and exposes the user id
// to handlers under handler.UserIDContextKey.
func RequireSession(sessions *handler.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := sessions.UserID(c.Request())
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Unauthorized",
				})
			}

			c.Set(handler.UserIDContextKey, userID)
			return next(c)
		}
	}
}
