package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/yhajali/aqari-backend/internal/config"
)

// RateLimit returns a fixed-window limiter keyed by client IP and route,
// backed by Redis INCR with a window-length TTL. It protects the public
// auth endpoints from credential stuffing. When the limiter is disabled or
// Redis is unavailable the middleware passes requests through unchanged;
// availability wins over throttling here.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			window := time.Now().Unix() / int64(cfg.Window/time.Second)
			key := fmt.Sprintf("%s:%s:%s:%d", cfg.Prefix, ip, c.Path(), window)

			ctx := c.Request().Context()
			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				// Redis trouble must not take the API down
				return next(c)
			}
			if count == 1 {
				_ = rdb.Expire(ctx, key, cfg.Window).Err()
			}

			remaining := int64(cfg.Limit) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Limit) {
				retry := int(cfg.Window / time.Second)
				c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too many requests",
					"retry_after": retry,
				})
			}
			return next(c)
		}
	}
}
