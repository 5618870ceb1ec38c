// Package v1 provides the session REST handlers.
package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
	"github.com/xiaot623/gogo/lecturechat/internal/service"
)

const version = "0.1.0"

// Route prefixes. The bare prefix matches the documented API; /api matches
// the paths older clients were built against.
var routePrefixes = []string{"", "/api"}

// Handler handles HTTP requests.
type Handler struct {
	service      *service.Service
	appBaseURL   string
	pollInterval time.Duration
}

// HandlerOption customizes a Handler.
type HandlerOption func(*Handler)

// WithPollInterval sets the refresh interval advertised to clients on /health.
func WithPollInterval(d time.Duration) HandlerOption {
	return func(h *Handler) {
		h.pollInterval = d
	}
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service, appBaseURL string, opts ...HandlerOption) *Handler {
	h := &Handler{
		service:    service,
		appBaseURL: appBaseURL,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes registers routes with the echo server.
// limit wraps the mutating endpoints; pass nil to disable it.
func (h *Handler) RegisterRoutes(e *echo.Echo, limit echo.MiddlewareFunc) {
	var mw []echo.MiddlewareFunc
	if limit != nil {
		mw = append(mw, limit)
	}

	for _, prefix := range routePrefixes {
		g := e.Group(prefix)

		// Writes
		g.POST("/session", h.CreateSession, mw...)
		g.POST("/session/:session_id/message", h.SendMessage, mw...)
		g.POST("/session/:session_id/participant", h.AddParticipant, mw...)
		g.POST("/session/:session_id/leave", h.Leave, mw...)

		// Reads (polled)
		g.GET("/session/:session_id", h.GetSession)
		g.GET("/session/:session_id/messages", h.GetMessages)
		g.GET("/session/:session_id/link", h.GetJoinLink)
	}

	e.GET("/", h.Liveness)
	e.GET("/health", h.Health)
}

// Liveness answers a plain 200.
// GET /
func (h *Handler) Liveness(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Health returns health status and the advertised poll interval.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.HealthResponse{
		Success:        true,
		Status:         "healthy",
		Version:        version,
		PollIntervalMS: h.pollInterval.Milliseconds(),
	})
}
