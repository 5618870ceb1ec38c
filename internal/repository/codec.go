package repository

import (
	"encoding/json"
	"fmt"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
)

// Document-style backends (Badger, Redis) keep one JSON record per session.

func encodeSession(session *domain.Session) ([]byte, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	return data, nil
}

func decodeSession(data []byte) (*domain.Session, error) {
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if session.Participants == nil {
		session.Participants = map[string]domain.Participant{}
	}
	if session.Messages == nil {
		session.Messages = []domain.Message{}
	}
	return &session, nil
}
