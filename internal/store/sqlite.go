package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/classboard/classboard/internal/domain"
	"github.com/classboard/classboard/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		user_name TEXT NOT NULL,
		user_role TEXT NOT NULL,
		user_email TEXT,
		user_phone TEXT,
		created_at INTEGER NOT NULL,
		last_seen_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_last_seen ON sessions(last_seen_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetSession retrieves a session by its cookie token.
func (s *SQLiteStore) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	query := `
		SELECT token, user_id, user_name, user_role, user_email, user_phone,
		       created_at, last_seen_at
		FROM sessions WHERE token = ?`

	row := s.db.QueryRowContext(ctx, query, token)

	var session domain.Session
	var email, phone sql.NullString
	var createdAt, lastSeen int64

	err := row.Scan(
		&session.Token, &session.User.ID, &session.User.Name, &session.User.Role,
		&email, &phone, &createdAt, &lastSeen,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}

	session.User.Email = email.String
	session.User.Phone = phone.String
	session.CreatedAt = time.Unix(createdAt, 0)
	session.LastSeenAt = time.Unix(lastSeen, 0)

	return &session, nil
}

// UpsertSession creates or updates a session record. Transient SQLite
// lock conflicts are retried with exponential backoff.
func (s *SQLiteStore) UpsertSession(ctx context.Context, session *domain.Session) error {
	const maxRetries = 3
	baseDelay := 100 * time.Millisecond

	var err error
	for i := 0; i < maxRetries; i++ {
		if err = s.upsertSessionOnce(ctx, session); err == nil {
			return nil
		}
		if !shared.IsSQLiteConflictError(err) || i == maxRetries-1 {
			break
		}
		delay := baseDelay * time.Duration(1<<i)
		slog.Debug("UpsertSession hit a lock conflict, retrying", "attempt", i+1, "delay", delay)
		time.Sleep(delay)
	}
	return err
}

func (s *SQLiteStore) upsertSessionOnce(ctx context.Context, session *domain.Session) error {
	query := `
	INSERT INTO sessions (token, user_id, user_name, user_role, user_email, user_phone, created_at, last_seen_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(token) DO UPDATE SET
		user_id = excluded.user_id,
		user_name = excluded.user_name,
		user_role = excluded.user_role,
		user_email = excluded.user_email,
		user_phone = excluded.user_phone,
		last_seen_at = excluded.last_seen_at`

	var email, phone interface{}
	if session.User.Email != "" {
		email = session.User.Email
	}
	if session.User.Phone != "" {
		phone = session.User.Phone
	}

	_, err := s.db.ExecContext(ctx, query,
		session.Token, session.User.ID, session.User.Name, session.User.Role,
		email, phone, session.CreatedAt.Unix(), session.LastSeenAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// TouchSession updates the last_seen_at timestamp for a session.
func (s *SQLiteStore) TouchSession(ctx context.Context, token string, lastSeen time.Time) error {
	query := `UPDATE sessions SET last_seen_at = ? WHERE token = ?`
	result, err := s.db.ExecContext(ctx, query, lastSeen.Unix(), token)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Debug("TouchSession affected 0 rows")
	}

	return nil
}

// DeleteSession removes a session record.
func (s *SQLiteStore) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes sessions idle for longer than ttl.
func (s *SQLiteStore) CleanupExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error) {
	threshold := time.Now().Add(-ttl).Unix()
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE last_seen_at < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("cleanup expired sessions: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
