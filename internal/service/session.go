package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
)

const createAttempts = 3

// CreateSession creates a session that already carries its start notice.
// An id collision is retried with a fresh id.
func (s *Service) CreateSession(ctx context.Context) (string, error) {
	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		now := s.now()
		session := domain.NewSession(s.newID(domain.PrefixSession), now)
		session.Messages = append(session.Messages,
			domain.NewSystemNotice(s.newID(domain.PrefixSystem), NoticeSessionStarted, now))

		err = s.store.CreateSession(ctx, session)
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create session: %w", err)
		}
		return session.ID, nil
	}
	return "", fmt.Errorf("failed to create session: %w", err)
}

// GetSession returns the full current snapshot.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// GetMessages returns the messages appended after the message with id after.
// An empty or unknown after id returns every message, so a client that lost
// its cursor re-reads everything instead of missing messages.
func (s *Service) GetMessages(ctx context.Context, sessionID, after string) ([]domain.Message, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if after == "" {
		return session.Messages, nil
	}
	_, idx, found := lo.FindIndexOf(session.Messages, func(m domain.Message) bool {
		return m.ID == after
	})
	if !found {
		return session.Messages, nil
	}
	return session.Messages[idx+1:], nil
}
