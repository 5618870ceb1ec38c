package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
)

const (
	badgerKeyPrefix   = "session:"
	badgerMaxAttempts = 5
)

// BadgerStore implements Store on an embedded Badger database.
// Each session is a single JSON document under "session:{id}". Updates are
// serialized per key in-process and run inside a Badger transaction, which
// also rejects conflicting commits from other writers.
type BadgerStore struct {
	db   *badger.DB
	keys *keyLock
}

// NewBadgerStore opens (or creates) a Badger database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return NewBadgerStoreFromDB(db), nil
}

// NewBadgerStoreFromDB wraps an already opened database.
func NewBadgerStoreFromDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db, keys: newKeyLock()}
}

func badgerKey(sessionID string) []byte {
	return []byte(badgerKeyPrefix + sessionID)
}

// CreateSession stores the session document.
func (s *BadgerStore) CreateSession(ctx context.Context, session *domain.Session) error {
	unlock := s.keys.Lock(session.ID)
	defer unlock()

	data, err := encodeSession(session.Clone())
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(badgerKey(session.ID))
		if err == nil {
			return domain.ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(badgerKey(session.ID), data)
	})
}

// GetSession reads the session document.
func (s *BadgerStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session *domain.Session
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		session, err = loadBadgerSession(txn, sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// AppendMessage appends a message to the session document.
func (s *BadgerStore) AppendMessage(ctx context.Context, sessionID string, message domain.Message) error {
	return s.update(ctx, sessionID, appendMessage(message))
}

// JoinParticipant records a participant and its join notice.
func (s *BadgerStore) JoinParticipant(ctx context.Context, sessionID, name string, joinedAt time.Time, notice domain.Message) error {
	return s.update(ctx, sessionID, joinParticipant(name, joinedAt, notice))
}

func (s *BadgerStore) update(ctx context.Context, sessionID string, apply mutation) error {
	unlock := s.keys.Lock(sessionID)
	defer unlock()

	var err error
	for attempt := 0; attempt < badgerMaxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = s.db.Update(func(txn *badger.Txn) error {
			session, err := loadBadgerSession(txn, sessionID)
			if err != nil {
				return err
			}
			apply(session)
			data, err := encodeSession(session)
			if err != nil {
				return err
			}
			return txn.Set(badgerKey(sessionID), data)
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("%w: failed to update session %s: %w", domain.ErrUnavailable, sessionID, err)
}

func loadBadgerSession(txn *badger.Txn, sessionID string) (*domain.Session, error) {
	item, err := txn.Get(badgerKey(sessionID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var session *domain.Session
	err = item.Value(func(val []byte) error {
		session, err = decodeSession(val)
		return err
	})
	return session, err
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
