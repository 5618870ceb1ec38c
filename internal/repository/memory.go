package repository

import (
	"context"
	"sync"
	"time"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
)

// MemoryStore implements Store in process memory.
// Stored sessions are never mutated in place: writers build a new copy under
// the session's key lock and swap it in, so readers never see a torn write.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	keys     *keyLock
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*domain.Session),
		keys:     newKeyLock(),
	}
}

// CreateSession inserts a copy of the session.
func (s *MemoryStore) CreateSession(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; ok {
		return domain.ErrAlreadyExists
	}
	s.sessions[session.ID] = session.Clone()
	return nil
}

// GetSession returns a copy of the stored session.
func (s *MemoryStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return session.Clone(), nil
}

// AppendMessage appends a message to the session.
func (s *MemoryStore) AppendMessage(ctx context.Context, sessionID string, message domain.Message) error {
	return s.update(sessionID, appendMessage(message))
}

// JoinParticipant records a participant and its join notice.
func (s *MemoryStore) JoinParticipant(ctx context.Context, sessionID, name string, joinedAt time.Time, notice domain.Message) error {
	return s.update(sessionID, joinParticipant(name, joinedAt, notice))
}

func (s *MemoryStore) update(sessionID string, apply mutation) error {
	unlock := s.keys.Lock(sessionID)
	defer unlock()

	s.mu.RLock()
	current, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return domain.ErrNotFound
	}

	next := current.Clone()
	apply(next)

	s.mu.Lock()
	s.sessions[sessionID] = next
	s.mu.Unlock()
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
