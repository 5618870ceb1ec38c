package service

import (
	"context"
	"fmt"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
)

// Join records the participant and announces the join in one store update.
// Joining twice under the same name overwrites the join time and announces
// again.
func (s *Service) Join(ctx context.Context, sessionID, name string) error {
	now := s.now()
	notice := domain.NewSystemNotice(s.newID(domain.PrefixSystem), fmt.Sprintf(noticeJoinedFmt, name), now)
	if err := s.store.JoinParticipant(ctx, sessionID, name, now, notice); err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

// Leave announces that the participant left. The participant record is kept.
func (s *Service) Leave(ctx context.Context, sessionID, name string) error {
	if _, err := s.AppendNotice(ctx, sessionID, fmt.Sprintf(noticeLeftFmt, name)); err != nil {
		return err
	}
	return nil
}
