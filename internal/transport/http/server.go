// Package http provides the HTTP server for the session API.
package http

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/xiaot623/gogo/lecturechat/internal/config"
	"github.com/xiaot623/gogo/lecturechat/internal/service"
	v1 "github.com/xiaot623/gogo/lecturechat/internal/transport/http/v1"
)

// NewServer creates and configures the session API server.
func NewServer(svc *service.Service, cfg *config.Config) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = v1.NewValidator()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	limit, err := RateLimit(cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to configure rate limit: %w", err)
	}

	// Handlers
	h := v1.NewHandler(svc, cfg.AppBaseURL, v1.WithPollInterval(cfg.PollInterval))

	// Register Routes
	h.RegisterRoutes(e, limit)

	return e, nil
}
