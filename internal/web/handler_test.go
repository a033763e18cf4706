package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/classboard/classboard/internal/classroom"
	"github.com/classboard/classboard/internal/domain"
	"github.com/classboard/classboard/internal/metrics"
	"github.com/classboard/classboard/internal/middleware"
	"github.com/classboard/classboard/internal/session"
	"github.com/classboard/classboard/internal/store"
	"github.com/classboard/classboard/web"
)

// countingBackend wraps a fake classroom backend and counts requests
// per path prefix.
type countingBackend struct {
	handler http.Handler
	total   atomic.Int64
}

func (c *countingBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.total.Add(1)
	c.handler.ServeHTTP(w, r)
}

type testApp struct {
	server  *httptest.Server
	backend *countingBackend
	repo    store.Repository
}

// newTestApp wires the full view stack against a fake backend.
func newTestApp(t *testing.T, backend http.Handler) *testApp {
	t.Helper()

	counting := &countingBackend{handler: backend}
	backendSrv := httptest.NewServer(counting)
	t.Cleanup(backendSrv.Close)

	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()
	client := classroom.New(backendSrv.URL, 5*time.Second, m, logger)
	sessions := session.NewManager(repo, client, time.Hour, false, logger)

	handler, err := NewHandler(web.Templates(), client, sessions, m, logger)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.WithSession(sessions))
	handler.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testApp{server: srv, backend: counting, repo: repo}
}

// loginAs persists a session directly and returns its cookie.
func (a *testApp) loginAs(t *testing.T, user domain.User) *http.Cookie {
	t.Helper()
	sess := &domain.Session{
		Token:      uuid.NewString(),
		User:       user,
		CreatedAt:  time.Now(),
		LastSeenAt: time.Now(),
	}
	if err := a.repo.UpsertSession(t.Context(), sess); err != nil {
		t.Fatalf("UpsertSession() error = %v", err)
	}
	return &http.Cookie{Name: session.CookieName, Value: sess.Token}
}

// noRedirectClient returns the redirect response instead of following it.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func get(t *testing.T, url string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := noRedirectClient().Do(req)
	if err != nil {
		t.Fatalf("GET %s error = %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return string(data)
}

var (
	student = domain.User{ID: 7, Name: "Alice Smith", Role: domain.RoleStudent}
	teacher = domain.User{ID: 1, Name: "Prof Jones", Role: domain.RoleTeacher}
)

func TestGuardsRedirectAnonymous(t *testing.T) {
	app := newTestApp(t, http.NotFoundHandler())

	tests := []struct {
		path string
		want string
	}{
		{"/home", "/"},
		{"/threads/3", "/"},
		{"/dashboard", "/"},
		{"/upload", "/"},
	}

	for _, tt := range tests {
		resp := get(t, app.server.URL+tt.path, nil)
		if resp.StatusCode != http.StatusSeeOther {
			t.Errorf("GET %s status = %d, want %d", tt.path, resp.StatusCode, http.StatusSeeOther)
		}
		if loc := resp.Header.Get("Location"); loc != tt.want {
			t.Errorf("GET %s Location = %q, want %q", tt.path, loc, tt.want)
		}
	}
	if n := app.backend.total.Load(); n != 0 {
		t.Errorf("backend requests = %d, want 0 for guarded redirects", n)
	}
}

func TestDashboardRedirectsStudent(t *testing.T) {
	app := newTestApp(t, http.NotFoundHandler())
	cookie := app.loginAs(t, student)

	resp := get(t, app.server.URL+"/dashboard", cookie)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if loc := resp.Header.Get("Location"); loc != "/home" {
		t.Errorf("Location = %q, want %q", loc, "/home")
	}
}
