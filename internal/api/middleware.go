package api

import (
	"net/http"
	"strconv"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/metrics"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// HeaderSharerUserID carries the acting user's id on every call that acts
// on behalf of a user.
const HeaderSharerUserID = "X-Sharer-User-Id"

const ctxSharerID = "sharer_id"

func registerMiddlewares(e *echo.Echo, logger *zerolog.Logger) {
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(requestLogger(logger))
}

func requestLogger(logger *zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			elapsed := time.Since(start)

			status := c.Response().Status
			route := c.Path()
			metrics.ObserveHTTP(route, strconv.Itoa(status), elapsed.Seconds())

			logger.Info().
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", status).
				Dur("latency", elapsed).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("ip", c.RealIP()).
				Msg("http request")
			return err
		}
	}
}

// requireSharer parses the acting user header and stores the id in the
// request context. Missing or malformed values stop the request with 400.
func requireSharer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(HeaderSharerUserID)
			if raw == "" {
				return badRequest(c, HeaderSharerUserID+" header is required")
			}
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				return badRequest(c, HeaderSharerUserID+" header must be a positive integer")
			}
			c.Set(ctxSharerID, id)
			return next(c)
		}
	}
}

func sharerID(c echo.Context) int64 {
	id, _ := c.Get(ctxSharerID).(int64)
	return id
}

// rateLimit enforces a per-user request budget. Limiter failures fail open;
// the limiter itself handles failover to its in-memory fallback.
func rateLimit(limiter domain.LimiterRepository, cfg config.RateLimitConfig, logger *zerolog.Logger) echo.MiddlewareFunc {
	window := time.Duration(cfg.WindowSeconds) * time.Second
	limit := int(cfg.RPS * float64(cfg.WindowSeconds))
	if limit < 1 {
		limit = 1
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Enabled || limiter == nil {
				return next(c)
			}

			allowed, err := limiter.CheckRateLimit(c.Request().Context(), sharerID(c), limit, window)
			if err != nil {
				logger.Warn().Err(err).Msg("rate limit check failed, allowing request")
				return next(c)
			}
			if !allowed {
				return c.JSON(http.StatusTooManyRequests, errorResponse{
					Message: "rate limit exceeded",
					Status:  http.StatusTooManyRequests,
				})
			}
			return next(c)
		}
	}
}
