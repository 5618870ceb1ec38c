package domain

// CreateSessionResponse is returned by POST /session.
type CreateSessionResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

// GetSessionResponse is returned by GET /session/:id.
type GetSessionResponse struct {
	Success bool     `json:"success"`
	Session *Session `json:"session,omitempty"`
}

// SendMessageRequest is the body of POST /session/:id/message.
type SendMessageRequest struct {
	Username string `json:"username" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Type     Role   `json:"type" validate:"omitempty,oneof=instructor student"`
}

// SendMessageResponse is returned by POST /session/:id/message.
type SendMessageResponse struct {
	Success bool     `json:"success"`
	Message *Message `json:"message,omitempty"`
}

// ParticipantRequest is the body of the participant and leave endpoints.
type ParticipantRequest struct {
	Username string `json:"username" validate:"required"`
}

// SuccessResponse is the bare acknowledgement body.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// MessagesResponse is returned by GET /session/:id/messages.
type MessagesResponse struct {
	Success  bool      `json:"success"`
	Messages []Message `json:"messages"`
}

// JoinLinkResponse is returned by GET /session/:id/link.
type JoinLinkResponse struct {
	Success bool   `json:"success"`
	JoinURL string `json:"join_url"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is returned by GET /health. PollIntervalMS is 0 when the
// server does not advertise an interval.
type HealthResponse struct {
	Success        bool   `json:"success"`
	Status         string `json:"status"`
	Version        string `json:"version"`
	PollIntervalMS int64  `json:"poll_interval_ms"`
}
