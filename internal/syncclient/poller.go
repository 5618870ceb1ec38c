// Package syncclient keeps a participant's view of a session current by polling.
package syncclient

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
	"github.com/xiaot623/gogo/lecturechat/internal/logger"
)

// State of a poller.
type State int32

const (
	StateIdle State = iota
	StateActive
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "idle"
}

var (
	// ErrSessionEnded is returned by Run when the session no longer exists.
	ErrSessionEnded = errors.New("session ended")

	// ErrAlreadyActive is returned when Run is called on an active poller.
	ErrAlreadyActive = errors.New("poller already active")
)

const (
	DefaultInterval     = 3 * time.Second
	defaultFetchTimeout = 5 * time.Second
)

// Fetcher reads a session snapshot.
type Fetcher interface {
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
}

// RenderFunc receives every snapshot fetched.
type RenderFunc func(session *domain.Session)

// Poller repeatedly fetches a session and hands it to a renderer.
// One fetch-render cycle is a tick; ticks never overlap.
type Poller struct {
	fetcher      Fetcher
	sessionID    string
	interval     time.Duration
	fetchTimeout time.Duration
	render       RenderFunc
	onError      func(error)

	refresh        chan struct{}
	refreshLimiter *rate.Limiter
	state          atomic.Int32
}

// PollerOption customizes a Poller.
type PollerOption func(*Poller)

// WithErrorHandler is called for every failed fetch that will be retried.
func WithErrorHandler(fn func(error)) PollerOption {
	return func(p *Poller) {
		p.onError = fn
	}
}

// WithFetchTimeout bounds a single fetch.
func WithFetchTimeout(d time.Duration) PollerOption {
	return func(p *Poller) {
		p.fetchTimeout = d
	}
}

// WithRefreshRate bounds out-of-band refreshes.
func WithRefreshRate(r rate.Limit, burst int) PollerOption {
	return func(p *Poller) {
		p.refreshLimiter = rate.NewLimiter(r, burst)
	}
}

// NewPoller creates an idle poller. A non-positive interval uses DefaultInterval.
func NewPoller(fetcher Fetcher, sessionID string, interval time.Duration, render RenderFunc, opts ...PollerOption) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Poller{
		fetcher:        fetcher,
		sessionID:      sessionID,
		interval:       interval,
		fetchTimeout:   defaultFetchTimeout,
		render:         render,
		refresh:        make(chan struct{}, 1),
		refreshLimiter: rate.NewLimiter(rate.Limit(5), 2),
	}
	p.onError = func(err error) {
		logger.Warn("poll failed, retrying next tick", "session_id", p.sessionID, "error", err)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State reports whether the poller is running.
func (p *Poller) State() State {
	return State(p.state.Load())
}

// Run polls until ctx is cancelled (returns nil) or the session disappears
// (returns ErrSessionEnded). Other fetch errors are reported and retried.
func (p *Poller) Run(ctx context.Context) error {
	if !p.state.CompareAndSwap(int32(StateIdle), int32(StateActive)) {
		return ErrAlreadyActive
	}
	defer p.state.Store(int32(StateIdle))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.tick(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-p.refresh:
			ticker.Reset(p.interval)
		}
	}
}

// Refresh asks for an immediate tick. Requests coalesce while one is pending.
func (p *Poller) Refresh() {
	if !p.refreshLimiter.Allow() {
		return
	}
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

func (p *Poller) tick(ctx context.Context) error {
	fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	session, err := p.fetcher.GetSession(fetchCtx, p.sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrSessionEnded
		}
		if ctx.Err() != nil {
			return nil
		}
		p.onError(err)
		return nil
	}

	p.render(session)
	return nil
}
