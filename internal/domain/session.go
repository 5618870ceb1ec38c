package domain

import (
	"maps"
	"slices"
	"time"
)

// Session is one lecture's chat context.
type Session struct {
	ID           string                 `json:"id"`
	CreatedAt    time.Time              `json:"created_at"`
	Participants map[string]Participant `json:"participants"`
	Messages     []Message              `json:"messages"`
}

// Participant is the join record kept per display name.
type Participant struct {
	JoinedAt time.Time `json:"joined_at"`
}

// Message is either a chat message or a system notice, tagged by Type.
// Chat messages use Username and Message; system notices use Text.
type Message struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Username  string      `json:"username,omitempty"`
	Message   string      `json:"message,omitempty"`
	Text      string      `json:"text,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewSession returns an empty session.
func NewSession(id string, createdAt time.Time) *Session {
	return &Session{
		ID:           id,
		CreatedAt:    createdAt,
		Participants: map[string]Participant{},
		Messages:     []Message{},
	}
}

// NewChatMessage builds a chat message authored by username.
func NewChatMessage(id, username, text string, role Role, ts time.Time) Message {
	return Message{
		ID:        id,
		Type:      MessageType(role),
		Username:  username,
		Message:   text,
		Timestamp: ts,
	}
}

// NewSystemNotice builds a system notice.
func NewSystemNotice(id, text string, ts time.Time) Message {
	return Message{
		ID:        id,
		Type:      MessageTypeSystem,
		Text:      text,
		Timestamp: ts,
	}
}

// IsSystem reports whether m is a system notice.
func (m Message) IsSystem() bool {
	return m.Type == MessageTypeSystem
}

// Role returns the author role of a chat message, or "" for a notice.
func (m Message) Role() Role {
	if m.IsSystem() {
		return ""
	}
	return Role(m.Type)
}

// Body returns the displayable text regardless of variant.
func (m Message) Body() string {
	if m.IsSystem() {
		return m.Text
	}
	return m.Message
}

// ParticipantCount returns the number of distinct joined names.
func (s *Session) ParticipantCount() int {
	return len(s.Participants)
}

// Clone returns a deep copy so callers never share the store's backing slices.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Participants = maps.Clone(s.Participants)
	if out.Participants == nil {
		out.Participants = map[string]Participant{}
	}
	out.Messages = slices.Clone(s.Messages)
	if out.Messages == nil {
		out.Messages = []Message{}
	}
	return &out
}
