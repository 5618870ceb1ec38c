package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
)

// SQLiteStore implements Store using SQLite.
// Writes are serialized by a process-wide lock and each one runs in its own
// transaction, so an append either lands completely or not at all.
type SQLiteStore struct {
	db      *sql.DB
	writeMu sync.Mutex
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS participants (
			session_id TEXT NOT NULL,
			name TEXT NOT NULL,
			joined_at DATETIME NOT NULL,
			PRIMARY KEY (session_id, name),
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		// seq preserves arrival order independent of clock resolution.
		`CREATE TABLE IF NOT EXISTS messages (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			message_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			type TEXT NOT NULL,
			username TEXT,
			content TEXT,
			text TEXT,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, seq)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession inserts the session with its participants and messages in
// one transaction.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (session_id, created_at) VALUES (?, ?)`,
		session.ID, session.CreatedAt)
	if isConstraintErr(err) {
		return domain.ErrAlreadyExists
	}
	if err != nil {
		return err
	}

	for name, p := range session.Participants {
		if err := upsertParticipantRow(ctx, tx, session.ID, name, p.JoinedAt); err != nil {
			return err
		}
	}
	for _, msg := range session.Messages {
		if err := insertMessageRow(ctx, tx, session.ID, msg); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetSession retrieves a session with its participants and messages.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var createdAt time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT created_at FROM sessions WHERE session_id = ?`, sessionID).Scan(&createdAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	session := domain.NewSession(sessionID, createdAt)

	if err := s.loadParticipants(ctx, tx, session); err != nil {
		return nil, err
	}
	if err := s.loadMessages(ctx, tx, session); err != nil {
		return nil, err
	}
	return session, tx.Commit()
}

func (s *SQLiteStore) loadParticipants(ctx context.Context, tx *sql.Tx, session *domain.Session) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT name, joined_at FROM participants WHERE session_id = ?`, session.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var p domain.Participant
		if err := rows.Scan(&name, &p.JoinedAt); err != nil {
			return err
		}
		session.Participants[name] = p
	}
	return rows.Err()
}

func (s *SQLiteStore) loadMessages(ctx context.Context, tx *sql.Tx, session *domain.Session) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT message_id, type, username, content, text, created_at FROM messages WHERE session_id = ? ORDER BY seq ASC`,
		session.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var msg domain.Message
		var username, content, text sql.NullString
		if err := rows.Scan(&msg.ID, &msg.Type, &username, &content, &text, &msg.Timestamp); err != nil {
			return err
		}
		msg.Username = username.String
		msg.Message = content.String
		msg.Text = text.String
		session.Messages = append(session.Messages, msg)
	}
	return rows.Err()
}

// AppendMessage appends a message to the session.
func (s *SQLiteStore) AppendMessage(ctx context.Context, sessionID string, message domain.Message) error {
	return s.withSessionTx(ctx, sessionID, func(tx *sql.Tx) error {
		return insertMessageRow(ctx, tx, sessionID, message)
	})
}

// JoinParticipant records or overwrites a participant join and appends the
// join notice in the same transaction.
func (s *SQLiteStore) JoinParticipant(ctx context.Context, sessionID, name string, joinedAt time.Time, notice domain.Message) error {
	return s.withSessionTx(ctx, sessionID, func(tx *sql.Tx) error {
		if err := upsertParticipantRow(ctx, tx, sessionID, name, joinedAt); err != nil {
			return err
		}
		return insertMessageRow(ctx, tx, sessionID, notice)
	})
}

func insertMessageRow(ctx context.Context, tx *sql.Tx, sessionID string, message domain.Message) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO messages (message_id, session_id, type, username, content, text, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		message.ID, sessionID, message.Type, nullString(message.Username), nullString(message.Message), nullString(message.Text), message.Timestamp)
	return err
}

func upsertParticipantRow(ctx context.Context, tx *sql.Tx, sessionID, name string, joinedAt time.Time) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO participants (session_id, name, joined_at) VALUES (?, ?, ?)
		 ON CONFLICT(session_id, name) DO UPDATE SET joined_at = excluded.joined_at`,
		sessionID, name, joinedAt)
	return err
}

// withSessionTx runs fn in a write transaction after checking the session exists.
func (s *SQLiteStore) withSessionTx(ctx context.Context, sessionID string, fn func(tx *sql.Tx) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE session_id = ?`, sessionID).Scan(&exists)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func isConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
