package middleware

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/booknest/booknest-server/internal/dto"
	"github.com/booknest/booknest-server/internal/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Same header names the fiber limiter sets.
const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitReset     = "X-RateLimit-Reset"
)

// QuotaTaker is satisfied by ratelimit.Quota.
type QuotaTaker interface {
	Take(ctx context.Context, key string) (ratelimit.Decision, error)
}

// SharedRateLimit enforces a quota kept in Redis. Each client IP gets a
// separate budget per endpoint, so a burst of sign-ins does not lock the
// same client out of refreshing its session. Redis errors fail closed.
func SharedRateLimit(q QuotaTaker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		d, err := q.Take(ctx, c.IP()+":"+c.Path())
		if err != nil {
			slog.Error("rate limit check failed", "error", err, "request_id", c.Locals("requestid"))
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Service temporarily unavailable",
			})
		}

		c.Set(headerRateLimitLimit, strconv.Itoa(d.Limit))
		c.Set(headerRateLimitRemaining, strconv.Itoa(d.Remaining))
		c.Set(headerRateLimitReset, strconv.Itoa(int(d.ResetIn.Round(time.Second).Seconds())))
		if !d.Allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(max(int(d.ResetIn.Seconds()), 1)))
			return tooManyRequests(c)
		}
		return c.Next()
	}
}

// LocalRateLimit is the in-process sliding window fallback.
func LocalRateLimit(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached:      tooManyRequests,
	})
}

func tooManyRequests(c *fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Too many requests. Please try again later.",
	})
}
