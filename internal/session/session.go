// Package session manages login sessions backed by the local store.
// The browser only ever holds an opaque cookie token; the user payload
// the backend returned at login time is persisted server-side.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/classboard/classboard/internal/classroom"
	"github.com/classboard/classboard/internal/domain"
	"github.com/classboard/classboard/internal/store"
)

// CookieName is the fixed session cookie name.
const CookieName = "classboard_session"

// Manager creates, restores, and destroys login sessions.
type Manager struct {
	repo   store.Repository
	client *classroom.Client
	ttl    time.Duration
	secure bool
	logger *slog.Logger
}

// NewManager creates a session manager. secure controls the cookie's
// Secure flag and is off only in development.
func NewManager(repo store.Repository, client *classroom.Client, ttl time.Duration, secure bool, logger *slog.Logger) *Manager {
	return &Manager{
		repo:   repo,
		client: client,
		ttl:    ttl,
		secure: secure,
		logger: logger,
	}
}

// Login resolves the name against the backend and opens a session.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, name string) (*domain.User, error) {
	user, err := m.client.Login(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := m.open(ctx, w, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Signup creates a new student account on the backend and opens a
// session for it.
func (m *Manager) Signup(ctx context.Context, w http.ResponseWriter, name, email, phone string) (*domain.User, error) {
	user, err := m.client.Signup(ctx, name, email, phone)
	if err != nil {
		return nil, err
	}
	if err := m.open(ctx, w, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (m *Manager) open(ctx context.Context, w http.ResponseWriter, user *domain.User) error {
	now := time.Now()
	session := &domain.Session{
		Token:      uuid.NewString(),
		User:       *user,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := m.repo.UpsertSession(ctx, session); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Logout deletes the persisted session, if any, and expires the cookie.
// The cookie is expired even when no session was found.
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		if err := m.repo.DeleteSession(ctx, cookie.Value); err != nil {
			m.logger.Warn("deleting session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Current restores the session referenced by the request cookie.
// Missing, malformed, or unknown tokens yield (nil, nil); the caller
// treats that as unauthenticated.
func (m *Manager) Current(ctx context.Context, r *http.Request) (*domain.Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return nil, nil
	}

	session, err := m.repo.GetSession(ctx, cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("restoring session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	if err := m.repo.TouchSession(ctx, session.Token, time.Now()); err != nil {
		m.logger.Warn("touching session", "error", err)
	}
	return session, nil
}

// Cleanup prunes sessions idle for longer than the configured TTL.
func (m *Manager) Cleanup(ctx context.Context) {
	deleted, err := m.repo.CleanupExpiredSessions(ctx, m.ttl)
	if err != nil {
		m.logger.Warn("session cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		m.logger.Info("pruned stale sessions", "count", deleted)
	}
}
