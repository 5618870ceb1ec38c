package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
	"github.com/xiaot623/gogo/lecturechat/internal/joinlink"
	"github.com/xiaot623/gogo/lecturechat/internal/logger"
)

// CreateSession creates a new session.
// POST /session
func (h *Handler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := h.service.CreateSession(ctx)
	if err != nil {
		return respondError(c, err)
	}
	logger.Info("session created", "session_id", id)

	return c.JSON(http.StatusOK, domain.CreateSessionResponse{
		Success:   true,
		SessionID: id,
	})
}

// GetSession returns the full session snapshot.
// GET /session/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	ctx := c.Request().Context()

	session, err := h.service.GetSession(ctx, c.Param("session_id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, domain.GetSessionResponse{
		Success: true,
		Session: session,
	})
}

// GetJoinLink returns the link students open to join.
// GET /session/:session_id/link
func (h *Handler) GetJoinLink(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	if _, err := h.service.GetSession(ctx, sessionID); err != nil {
		return respondError(c, err)
	}

	link, err := joinlink.Build(h.appBaseURL, sessionID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, domain.JoinLinkResponse{
		Success: true,
		JoinURL: link,
	})
}

// AddParticipant joins a participant to the session.
// POST /session/:session_id/participant
func (h *Handler) AddParticipant(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.ParticipantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, "username is required")
	}

	if err := h.service.Join(ctx, c.Param("session_id"), req.Username); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, domain.SuccessResponse{Success: true})
}

// Leave announces that a participant left.
// POST /session/:session_id/leave
func (h *Handler) Leave(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.ParticipantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, "username is required")
	}

	if err := h.service.Leave(ctx, c.Param("session_id"), req.Username); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, domain.SuccessResponse{Success: true})
}

// bindAndValidate binds the body, trims username fields and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	switch r := req.(type) {
	case *domain.ParticipantRequest:
		r.Username = strings.TrimSpace(r.Username)
	case *domain.SendMessageRequest:
		r.Username = strings.TrimSpace(r.Username)
		if strings.TrimSpace(r.Message) == "" {
			r.Message = ""
		}
	}
	return c.Validate(req)
}
