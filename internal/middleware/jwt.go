package middleware // middleware contains reusable HTTP middleware functions

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/yhajali/aqari-backend/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer session token
// and injects the caller identity into the request context under
// "account_id", "username" and "role". Expired tokens are distinguished
// with a machine-checkable code so clients can refresh silently; any other
// failure gets a generic rejection.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				if errors.Is(err, utils.ErrTokenExpired) {
					return c.JSON(http.StatusUnauthorized, echo.Map{
						"error": "token expired",
						"code":  "token_expired",
					})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("account_id", claims.AccountID)
			c.Set("username", claims.Username)
			c.Set("role", claims.Role)
			return next(c)
		}
	}
}
