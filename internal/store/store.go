// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/classboard/classboard/internal/domain"
)

// Repository defines the interface for persisting login sessions.
type Repository interface {
	// GetSession retrieves a session by its cookie token.
	// A missing or unknown token returns (nil, nil).
	GetSession(ctx context.Context, token string) (*domain.Session, error)

	// UpsertSession creates or updates a session record.
	UpsertSession(ctx context.Context, session *domain.Session) error

	// TouchSession updates the last_seen_at timestamp for a session.
	TouchSession(ctx context.Context, token string, lastSeen time.Time) error

	// DeleteSession removes a session. Deleting an unknown token is not
	// an error.
	DeleteSession(ctx context.Context, token string) error

	// CleanupExpiredSessions removes sessions idle for longer than ttl.
	CleanupExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
