package service

import (
	"context"
	"fmt"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
	"github.com/xiaot623/gogo/lecturechat/policy"
)

// SendMessage appends a chat message. Empty text is not rejected here;
// callers validate user input before calling.
func (s *Service) SendMessage(ctx context.Context, sessionID, username, text string, role domain.Role) (*domain.Message, error) {
	if s.policyEngine != nil {
		res, err := s.policyEngine.Evaluate(ctx, policy.Input{
			Username:  username,
			Role:      string(role),
			Text:      text,
			MaxLength: s.maxMessageLength,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate message policy: %w", err)
		}
		if !res.Allowed() {
			return nil, fmt.Errorf("%w: %s", domain.ErrValidation, res.Reason)
		}
	} else if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", domain.ErrValidation, role)
	}

	msg := domain.NewChatMessage(s.newID(domain.PrefixMessage), username, text, role, s.now())
	if err := s.store.AppendMessage(ctx, sessionID, msg); err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}
	return &msg, nil
}

// AppendNotice appends a system notice.
func (s *Service) AppendNotice(ctx context.Context, sessionID, text string) (*domain.Message, error) {
	msg := domain.NewSystemNotice(s.newID(domain.PrefixSystem), text, s.now())
	if err := s.store.AppendMessage(ctx, sessionID, msg); err != nil {
		return nil, fmt.Errorf("failed to append notice: %w", err)
	}
	return &msg, nil
}
