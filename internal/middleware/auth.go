// Package middleware provides HTTP middleware for the Classboard web client.
package middleware

import (
	"context"
	"net/http"

	"github.com/classboard/classboard/internal/domain"
	"github.com/classboard/classboard/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

// WithSession resolves the session cookie once per request and stores
// the result in the request context. It never blocks on the backend and
// never rejects a request itself.
func WithSession(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := manager.Current(r.Context(), r)
			if err != nil || sess == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom returns the resolved session, or nil when the request is
// unauthenticated.
func SessionFrom(ctx context.Context) *domain.Session {
	sess, _ := ctx.Value(sessionKey).(*domain.Session)
	return sess
}

// UserFrom returns the authenticated user, or nil.
func UserFrom(ctx context.Context) *domain.User {
	if sess := SessionFrom(ctx); sess != nil {
		return &sess.User
	}
	return nil
}

// RequireSession redirects unauthenticated requests to the entry screen.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFrom(r.Context()) == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireTeacher redirects unauthenticated requests to the entry screen
// and non-teachers to the home feed.
func RequireTeacher(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFrom(r.Context())
		if user == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		if !user.IsTeacher() {
			http.Redirect(w, r, "/home", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
