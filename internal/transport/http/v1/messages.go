package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
)

// SendMessage appends a chat message.
// POST /session/:session_id/message
func (h *Handler) SendMessage(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, "username and a non-empty message are required; type must be instructor or student")
	}
	if req.Type == "" {
		req.Type = domain.RoleStudent
	}

	msg, err := h.service.SendMessage(ctx, c.Param("session_id"), req.Username, req.Message, req.Type)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, domain.SendMessageResponse{
		Success: true,
		Message: msg,
	})
}

// GetMessages retrieves messages for a session, optionally only those after a message id.
// GET /session/:session_id/messages?after=<message_id>
func (h *Handler) GetMessages(c echo.Context) error {
	ctx := c.Request().Context()

	messages, err := h.service.GetMessages(ctx, c.Param("session_id"), c.QueryParam("after"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, domain.MessagesResponse{
		Success:  true,
		Messages: messages,
	})
}
