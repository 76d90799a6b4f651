package middleware

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/yhajali/aqari-backend/internal/config"
)

// bodyCapture tees the response body so a successful payload can be stored
// after the handler runs.
type bodyCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *bodyCapture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// DashboardCache caches the dashboard JSON in Redis for a short TTL. The
// key embeds the caller's account id and the month filter: the dashboard is
// account-scoped data and a route-level key would leak one tenant's numbers
// to another. Applied
// only to GET and only to 200 responses. With no Redis client the
// middleware is a pass-through.
func DashboardCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			accountID, ok := c.Get("account_id").(uint64)
			if !ok {
				return next(c)
			}
			key := fmt.Sprintf("%s:%d:%s", cfg.Prefix, accountID, c.QueryParam("month"))

			ctx := c.Request().Context()
			if body, err := rdb.Get(ctx, key).Bytes(); err == nil && len(body) > 0 {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, body)
			}

			cw := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK && cw.buf.Len() > 0 {
				_ = rdb.SetEx(context.Background(), key, cw.buf.Bytes(), cfg.TTL).Err()
			}
			return nil
		}
	}
}
