package syncclient

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
)

// Backend is the set of session operations a participant needs. Both the
// in-process service and the HTTP session client satisfy it.
type Backend interface {
	Fetcher
	Join(ctx context.Context, sessionID, name string) error
	Leave(ctx context.Context, sessionID, name string) error
	SendMessage(ctx context.Context, sessionID, username, text string, role domain.Role) (*domain.Message, error)
}

// Participant is the per-connection context of one user in one session.
type Participant struct {
	backend   Backend
	SessionID string
	Username  string
	Role      domain.Role

	mu       sync.Mutex
	poller   *Poller
	watching bool
}

// NewParticipant creates a participant context.
func NewParticipant(backend Backend, sessionID, username string, role domain.Role) *Participant {
	return &Participant{
		backend:   backend,
		SessionID: sessionID,
		Username:  username,
		Role:      role,
	}
}

// Join records the participant in the session.
func (p *Participant) Join(ctx context.Context) error {
	return p.backend.Join(ctx, p.SessionID, p.Username)
}

// Send appends a message right away and triggers a refresh so the sender
// sees it without waiting a full interval. Blank text is rejected locally.
func (p *Participant) Send(ctx context.Context, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message is empty", domain.ErrValidation)
	}

	msg, err := p.backend.SendMessage(ctx, p.SessionID, p.Username, text, p.Role)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	poller := p.poller
	p.mu.Unlock()
	if poller != nil {
		poller.Refresh()
	}
	return msg, nil
}

// Watch polls the session until ctx ends or the session disappears.
func (p *Participant) Watch(ctx context.Context, interval time.Duration, render RenderFunc, opts ...PollerOption) error {
	poller := NewPoller(p.backend, p.SessionID, interval, render, opts...)

	p.mu.Lock()
	if p.watching {
		p.mu.Unlock()
		return ErrAlreadyActive
	}
	p.watching = true
	p.poller = poller
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.watching = false
		p.mu.Unlock()
	}()

	return poller.Run(ctx)
}

// State reports whether the participant is currently watching.
func (p *Participant) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.watching {
		return StateActive
	}
	return StateIdle
}

// Leave announces the departure. Stopping the poll is up to the caller's ctx.
func (p *Participant) Leave(ctx context.Context) error {
	return p.backend.Leave(ctx, p.SessionID, p.Username)
}

// IsOwn reports whether m was authored by this participant.
func (p *Participant) IsOwn(m domain.Message) bool {
	return !m.IsSystem() && m.Username == p.Username
}
