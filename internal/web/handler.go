// Package web provides the server-rendered HTTP handlers for Classboard.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/yuin/goldmark"

	"github.com/classboard/classboard/internal/classroom"
	"github.com/classboard/classboard/internal/domain"
	"github.com/classboard/classboard/internal/metrics"
	"github.com/classboard/classboard/internal/middleware"
	"github.com/classboard/classboard/internal/session"
)

// Handler serves all HTML views.
type Handler struct {
	client    *classroom.Client
	sessions  *session.Manager
	validate  *validator.Validate
	metrics   *metrics.Metrics
	logger    *slog.Logger
	templates map[string]*template.Template
}

// NewHandler creates the view handler and parses all embedded templates.
func NewHandler(templatesFS fs.FS, client *classroom.Client, sessions *session.Manager, m *metrics.Metrics, logger *slog.Logger) (*Handler, error) {
	templates, err := parseTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Handler{
		client:    client,
		sessions:  sessions,
		validate:  validator.New(),
		metrics:   m,
		logger:    logger,
		templates: templates,
	}, nil
}

// parseTemplates builds one template set per page, each combining the
// layout, the shared partials, and the page itself.
func parseTemplates(templatesFS fs.FS) (map[string]*template.Template, error) {
	md := goldmark.New()

	funcs := template.FuncMap{
		"formatDate": formatDate,
		"initials":   domain.Initials,
		"markdown": func(source string) template.HTML {
			var buf bytes.Buffer
			if err := md.Convert([]byte(source), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(source))
			}
			return template.HTML(buf.String())
		},
		"pct": func(part, total int) int {
			if total == 0 {
				return 0
			}
			return part * 100 / total
		},
		"truncate": func(s string, n int) string {
			runes := []rune(s)
			if len(runes) <= n {
				return s
			}
			return string(runes[:n]) + "..."
		},
	}

	pages, err := fs.Glob(templatesFS, "templates/pages/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("globbing pages: %w", err)
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		name := path.Base(page)
		tmpl, err := template.New("layout.html.tmpl").Funcs(funcs).ParseFS(
			templatesFS,
			"templates/layout.html.tmpl",
			"templates/partials/*.html.tmpl",
			page,
		)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// formatDate renders a backend timestamp string for display. Unparseable
// values pass through unchanged.
func formatDate(value string) string {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("Jan 2, 2006 at 3:04 PM")
		}
	}
	return value
}

// basePage carries the fields every view shares.
type basePage struct {
	Title string
	User  *domain.User
	Error string
}

// render executes a page template. Render failures after headers are
// avoided by buffering the full page first.
func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := h.templates[page]
	if !ok {
		h.logger.Error("unknown template", "page", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		h.logger.Error("rendering template", "page", page, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.metrics.ObservePageRender(page)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// renderFragment executes one named partial without the layout, for the
// websocket push path.
func (h *Handler) renderFragment(page, name string, data any) (string, error) {
	tmpl, ok := h.templates[page]
	if !ok {
		return "", fmt.Errorf("unknown template %q", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering fragment %q: %w", name, err)
	}
	return buf.String(), nil
}

// errorText normalizes a backend error into banner copy.
func errorText(err error, fallback string) string {
	return classroom.ErrorMessage(err, fallback)
}

// currentUser returns the authenticated user from the request context.
func currentUser(r *http.Request) *domain.User {
	return middleware.UserFrom(r.Context())
}

// urlID parses a chi int64 URL parameter.
func urlID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}
