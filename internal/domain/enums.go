// Package domain defines the core domain models for lecture chat sessions.
package domain

// Role identifies who authored a chat message.
type Role string

const (
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

// Valid reports whether r is a known author role.
func (r Role) Valid() bool {
	return r == RoleInstructor || r == RoleStudent
}

// MessageType tags the variant of a Message on the wire.
// Chat messages carry their author's role as the type.
type MessageType string

const (
	MessageTypeInstructor MessageType = MessageType(RoleInstructor)
	MessageTypeStudent    MessageType = MessageType(RoleStudent)
	MessageTypeSystem     MessageType = "system"
)

// ID prefixes used by the identifier generator.
const (
	PrefixSession = "session"
	PrefixMessage = "msg"
	PrefixSystem  = "sys"
)
