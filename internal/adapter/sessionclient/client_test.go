package sessionclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
	"github.com/xiaot623/gogo/lecturechat/internal/repository"
	"github.com/xiaot623/gogo/lecturechat/internal/service"
	v1 "github.com/xiaot623/gogo/lecturechat/internal/transport/http/v1"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	e := echo.New()
	e.Validator = v1.NewValidator()
	v1.NewHandler(service.New(repository.NewMemoryStore()), "http://localhost:8501").RegisterRoutes(e, nil)

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)
	return server
}

func TestClientRoundTrip(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL + "/")
	ctx := context.Background()

	require.NoError(t, client.Ping(ctx))

	id, err := client.CreateSession(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = client.SendMessage(ctx, id, "강사", "Hello", domain.RoleInstructor)
	require.NoError(t, err)
	require.NoError(t, client.Join(ctx, id, "Bob"))
	msg, err := client.SendMessage(ctx, id, "Bob", "Hi!", domain.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "Hi!", msg.Message)

	session, err := client.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, session.Participants, "Bob")
	require.Len(t, session.Messages, 4)
	assert.Equal(t, "Bob님이 입장했습니다", session.Messages[2].Text)

	after, err := client.GetMessages(ctx, id, session.Messages[2].ID)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, msg.ID, after[0].ID)

	link, err := client.JoinLink(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8501?session="+id, link)

	require.NoError(t, client.Leave(ctx, id, "Bob"))
}

func TestClientNotFound(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)
	ctx := context.Background()

	_, err := client.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = client.SendMessage(ctx, "missing", "Bob", "hi", domain.RoleStudent)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, client.Join(ctx, "missing", "Bob"), domain.ErrNotFound)
}

func TestClientValidation(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)
	ctx := context.Background()
	id, err := client.CreateSession(ctx)
	require.NoError(t, err)

	_, err = client.SendMessage(ctx, id, "", "hi", domain.RoleStudent)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestClientUnavailable(t *testing.T) {
	server := newTestServer(t)
	url := server.URL
	server.Close()

	client := NewClient(url)
	ctx := context.Background()

	assert.ErrorIs(t, client.Ping(ctx), domain.ErrUnavailable)
	_, err := client.GetSession(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).GetSession(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestClientSuccessFalseIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).GetSession(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientPollInterval(t *testing.T) {
	e := echo.New()
	e.Validator = v1.NewValidator()
	v1.NewHandler(service.New(repository.NewMemoryStore()), "http://localhost:8501",
		v1.WithPollInterval(1500*time.Millisecond)).RegisterRoutes(e, nil)
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	d, err := NewClient(server.URL).PollInterval(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	d, err = NewClient(newTestServer(t).URL).PollInterval(context.Background())
	require.NoError(t, err)
	assert.Zero(t, d)
}
