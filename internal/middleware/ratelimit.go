package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/concert-ticket-booking/internal/config"
)

// NewRateLimit returns a fixed-window limiter backed by Redis.  Each
// client gets Limit requests per Window, keyed by authenticated user ID
// when available and the client IP otherwise.  When the limiter is
// disabled or Redis is unreachable the middleware is a pass-through;
// booking correctness never depends on it.
func NewRateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil || cfg.Limit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			winSecs := int64(cfg.Window / time.Second)
			if winSecs < 1 {
				winSecs = 1
			}
			window := time.Now().Unix() / winSecs
			key := fmt.Sprintf("%s:%s:%d", cfg.Prefix, clientKey(c), window)

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				// Redis trouble must not block bookings.
				return next(c)
			}
			if count == 1 {
				_ = rdb.Expire(ctx, key, cfg.Window).Err()
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			remaining := int64(cfg.Limit) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Limit) {
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error": "rate limit exceeded",
				})
			}
			return next(c)
		}
	}
}

func clientKey(c echo.Context) string {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return "user:" + v
	}
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
