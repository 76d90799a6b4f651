package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yhajali/aqari-backend/internal/model"
	"github.com/yhajali/aqari-backend/internal/repository"
)

// AdminOnly gates the admin control plane. The role is re-derived from the
// persisted account row on every request; the token's role claim is never
// authoritative, so demoting an admin takes effect immediately rather than
// at token expiry.
func AdminOnly(accounts *repository.AccountRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v := c.Get("account_id")
			id, ok := v.(uint64)
			if !ok || id == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			acc, err := accounts.GetByID(ctx, id)
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			if acc.Role != model.RoleAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
