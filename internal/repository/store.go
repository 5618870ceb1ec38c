// Package repository defines the session store interface and its backends.
package repository

import (
	"context"
	"time"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
)

// Store defines the interface for session persistence.
//
// Every mutating operation is applied atomically with respect to other
// operations on the same session id, and either lands completely or not at
// all. Implementations return domain.ErrNotFound for unknown ids and
// domain.ErrAlreadyExists when CreateSession hits an existing id.
type Store interface {
	// Session operations

	// CreateSession stores the session together with any participants and
	// messages it already carries.
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)

	// Mutations
	AppendMessage(ctx context.Context, sessionID string, message domain.Message) error
	// JoinParticipant records or overwrites a participant join and appends
	// the join notice in the same update.
	JoinParticipant(ctx context.Context, sessionID, name string, joinedAt time.Time, notice domain.Message) error

	// Lifecycle
	Close() error
}

// mutation is applied to a loaded session inside a backend's atomic update.
type mutation func(session *domain.Session)

func appendMessage(message domain.Message) mutation {
	return func(session *domain.Session) {
		session.Messages = append(session.Messages, message)
	}
}

func upsertParticipant(name string, joinedAt time.Time) mutation {
	return func(session *domain.Session) {
		if session.Participants == nil {
			session.Participants = map[string]domain.Participant{}
		}
		session.Participants[name] = domain.Participant{JoinedAt: joinedAt}
	}
}

func joinParticipant(name string, joinedAt time.Time, notice domain.Message) mutation {
	upsert := upsertParticipant(name, joinedAt)
	appendNotice := appendMessage(notice)
	return func(session *domain.Session) {
		upsert(session)
		appendNotice(session)
	}
}
