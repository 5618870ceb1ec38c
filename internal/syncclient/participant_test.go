package syncclient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
	"github.com/xiaot623/gogo/lecturechat/internal/service"
	"github.com/xiaot623/gogo/lecturechat/tests/helpers"
)

func newTestBackend(t *testing.T) (*service.Service, string) {
	t.Helper()
	svc := service.New(helpers.NewTestSQLiteStore(t))
	id, err := svc.CreateSession(context.Background())
	require.NoError(t, err)
	return svc, id
}

func TestParticipantLifecycle(t *testing.T) {
	svc, id := newTestBackend(t)
	ctx := context.Background()

	alice := NewParticipant(svc, id, "alice", domain.RoleStudent)
	require.NoError(t, alice.Join(ctx))

	msg, err := alice.Send(ctx, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Message)
	assert.True(t, alice.IsOwn(*msg))

	require.NoError(t, alice.Leave(ctx))

	session, err := svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, session.Participants, "alice")

	texts := make([]string, 0, len(session.Messages))
	for _, m := range session.Messages {
		texts = append(texts, m.Body())
	}
	assert.Equal(t, []string{
		service.NoticeSessionStarted,
		"alice님이 입장했습니다",
		"hello",
		"alice님이 퇴장했습니다",
	}, texts)
}

func TestParticipantSendRejectsBlank(t *testing.T) {
	svc, id := newTestBackend(t)
	p := NewParticipant(svc, id, "bob", domain.RoleStudent)

	_, err := p.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	session, err := svc.GetSession(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, session.Messages, 1)
}

func TestParticipantSeesOwnMessageBeforeNextTick(t *testing.T) {
	svc, id := newTestBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewParticipant(svc, id, "instructor", domain.RoleInstructor)
	snapshots := make(chan *domain.Session, 8)
	go func() {
		_ = p.Watch(ctx, time.Hour, func(s *domain.Session) { snapshots <- s })
	}()

	select {
	case s := <-snapshots:
		assert.Len(t, s.Messages, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial snapshot")
	}
	assert.Equal(t, StateActive, p.State())

	_, err := p.Send(ctx, "오늘은 채널을 배웁니다")
	require.NoError(t, err)

	select {
	case s := <-snapshots:
		require.Len(t, s.Messages, 2)
		assert.Equal(t, domain.MessageTypeInstructor, s.Messages[1].Type)
	case <-time.After(2 * time.Second):
		t.Fatal("send did not refresh the view")
	}
}

func TestParticipantWatchEndsWithUnknownSession(t *testing.T) {
	svc, _ := newTestBackend(t)
	p := NewParticipant(svc, "session-missing", "carol", domain.RoleStudent)

	err := p.Watch(context.Background(), time.Hour, func(*domain.Session) {})
	assert.ErrorIs(t, err, ErrSessionEnded)
	assert.Equal(t, StateIdle, p.State())
}

func TestIsOwnIgnoresSystemNotices(t *testing.T) {
	p := NewParticipant(nil, "s", "alice", domain.RoleStudent)
	notice := domain.NewSystemNotice("sys-1", "alice님이 입장했습니다", time.Now())
	assert.False(t, p.IsOwn(notice))
	assert.False(t, p.IsOwn(domain.NewChatMessage("msg-1", "bob", "hi", domain.RoleStudent, time.Now())))
}

func TestParticipantWatchRunsOnePollerAtATime(t *testing.T) {
	svc, id := newTestBackend(t)
	p := NewParticipant(svc, id, "alice", domain.RoleStudent)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := make(chan struct{})
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			<-start
			results <- p.Watch(ctx, time.Hour, func(*domain.Session) {})
		}()
	}
	close(start)

	select {
	case err := <-results:
		assert.ErrorIs(t, err, ErrAlreadyActive)
	case <-time.After(2 * time.Second):
		t.Fatal("second watch was not rejected")
	}
	assert.Equal(t, StateActive, p.State())

	cancel()
	select {
	case err := <-results:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	assert.Equal(t, StateIdle, p.State())
}
