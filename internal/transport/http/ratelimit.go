package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
	"github.com/xiaot623/gogo/lecturechat/internal/logger"
)

// RateLimit returns middleware limiting requests per client IP.
// formatted is a limiter rate such as "20-S" or "600-M".
func RateLimit(formatted string) (echo.MiddlewareFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memory.NewStore(), rate)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, err := instance.Get(c.Request().Context(), c.RealIP())
			if err != nil {
				// fail open
				logger.ErrorErr(err, "rate limiter failed", "ip", c.RealIP())
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(ctx.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(ctx.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(ctx.Reset, 10))

			if ctx.Reached {
				return c.JSON(http.StatusTooManyRequests, domain.ErrorResponse{
					Success: false,
					Error:   "too_many_requests",
					Message: "rate limit exceeded, retry shortly",
				})
			}
			return next(c)
		}
	}, nil
}
