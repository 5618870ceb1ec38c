package syncclient

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
)

// scriptedFetcher returns queued errors before falling back to a fixed session.
type scriptedFetcher struct {
	mu      sync.Mutex
	errs    []error
	session *domain.Session
	calls   atomic.Int32
}

func (f *scriptedFetcher) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.session.Clone(), nil
}

func newSnapshot(id string) *domain.Session {
	return domain.NewSession(id, time.Now())
}

func TestPollerRendersEveryTick(t *testing.T) {
	fetcher := &scriptedFetcher{session: newSnapshot("session-1")}
	renders := make(chan *domain.Session, 16)

	p := NewPoller(fetcher, "session-1", 10*time.Millisecond, func(s *domain.Session) {
		renders <- s
	})
	assert.Equal(t, StateIdle, p.State())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	for i := 0; i < 3; i++ {
		select {
		case s := <-renders:
			assert.Equal(t, "session-1", s.ID)
		case <-time.After(2 * time.Second):
			t.Fatalf("render %d did not happen", i)
		}
	}
	assert.Equal(t, StateActive, p.State())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}
	assert.Equal(t, StateIdle, p.State())
}

func TestPollerStopsWhenSessionGone(t *testing.T) {
	fetcher := &scriptedFetcher{errs: []error{domain.ErrNotFound}}
	rendered := false

	p := NewPoller(fetcher, "session-gone", time.Hour, func(*domain.Session) {
		rendered = true
	})

	err := p.Run(context.Background())
	assert.ErrorIs(t, err, ErrSessionEnded)
	assert.False(t, rendered)
	assert.Equal(t, StateIdle, p.State())
}

func TestPollerRetriesTransientErrors(t *testing.T) {
	transient := errors.New("connection refused")
	fetcher := &scriptedFetcher{
		errs:    []error{transient, transient},
		session: newSnapshot("session-1"),
	}

	var reported atomic.Int32
	rendered := make(chan struct{}, 1)
	p := NewPoller(fetcher, "session-1", 5*time.Millisecond,
		func(*domain.Session) {
			select {
			case rendered <- struct{}{}:
			default:
			}
		},
		WithErrorHandler(func(err error) {
			assert.ErrorIs(t, err, transient)
			reported.Add(1)
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	select {
	case <-rendered:
	case <-time.After(2 * time.Second):
		t.Fatal("poller never recovered")
	}
	assert.Equal(t, int32(2), reported.Load())
}

func TestPollerRefreshTriggersImmediateTick(t *testing.T) {
	fetcher := &scriptedFetcher{session: newSnapshot("session-1")}
	renders := make(chan struct{}, 4)

	p := NewPoller(fetcher, "session-1", time.Hour, func(*domain.Session) {
		renders <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	select {
	case <-renders:
	case <-time.After(2 * time.Second):
		t.Fatal("first tick did not happen")
	}

	p.Refresh()
	select {
	case <-renders:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not trigger a tick")
	}
}

func TestPollerRejectsSecondRun(t *testing.T) {
	fetcher := &scriptedFetcher{session: newSnapshot("session-1")}
	started := make(chan struct{}, 1)
	p := NewPoller(fetcher, "session-1", time.Hour, func(*domain.Session) {
		select {
		case started <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()
	<-started

	err := p.Run(ctx)
	require.ErrorIs(t, err, ErrAlreadyActive)
}

func TestNewPollerDefaultsInterval(t *testing.T) {
	p := NewPoller(&scriptedFetcher{}, "s", 0, func(*domain.Session) {})
	assert.Equal(t, DefaultInterval, p.interval)
}
