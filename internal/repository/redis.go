package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
)

const (
	keyRedisSession  = "lecturechat:session:%s"
	redisMaxAttempts = 10
)

var errTooMuchContention = errors.New("too much contention")

// RedisStore implements Store on a Redis server.
// Each session is a JSON document. Writers in this process are serialized per
// key; across processes WATCH/MULTI makes a concurrent writer on the same key
// force a retry instead of a lost write.
type RedisStore struct {
	client *redis.Client
	keys   *keyLock
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, keys: newKeyLock()}
}

// NewRedisStoreFromURL creates a Redis-backed store from a URL.
func NewRedisStoreFromURL(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w: %w", domain.ErrUnavailable, err)
	}

	return NewRedisStore(client), nil
}

// CreateSession stores the session document if the id is free.
func (s *RedisStore) CreateSession(ctx context.Context, session *domain.Session) error {
	data, err := encodeSession(session.Clone())
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, fmt.Sprintf(keyRedisSession, session.ID), data, 0).Result()
	if err != nil {
		return unavailable(err)
	}
	if !ok {
		return domain.ErrAlreadyExists
	}
	return nil
}

// GetSession reads the session document.
func (s *RedisStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf(keyRedisSession, sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return decodeSession(data)
}

// AppendMessage appends a message to the session document.
func (s *RedisStore) AppendMessage(ctx context.Context, sessionID string, message domain.Message) error {
	return s.update(ctx, sessionID, appendMessage(message))
}

// JoinParticipant records a participant and its join notice.
func (s *RedisStore) JoinParticipant(ctx context.Context, sessionID, name string, joinedAt time.Time, notice domain.Message) error {
	return s.update(ctx, sessionID, joinParticipant(name, joinedAt, notice))
}

func (s *RedisStore) update(ctx context.Context, sessionID string, apply mutation) error {
	unlock := s.keys.Lock(sessionID)
	defer unlock()

	key := fmt.Sprintf(keyRedisSession, sessionID)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		session, err := decodeSession(data)
		if err != nil {
			return err
		}
		apply(session)
		updated, err := encodeSession(session)
		if err != nil {
			return err
		}

		// only commits if key was not modified since WATCH
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < redisMaxAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return unavailable(err)
	}
	return unavailable(fmt.Errorf("failed to update session %s: %w", sessionID, errTooMuchContention))
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
}
