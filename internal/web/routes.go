package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/classboard/classboard/internal/middleware"
)

// RegisterRoutes mounts all views on the router. The session-resolving
// middleware is expected to already be installed upstream.
func (h *Handler) RegisterRoutes(r chi.Router) {
	// Entry screens.
	r.Get("/", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/signup", h.SignupPage)
	r.Post("/signup", h.Signup)

	// Authenticated views.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)

		r.Post("/logout", h.Logout)
		r.Get("/home", h.Home)
		r.Get("/threads/{threadID}", h.Thread)
		r.Post("/threads/{threadID}/ask", h.Ask)
		r.Get("/ws/threads/{threadID}", h.ThreadSocket)
		r.Post("/threads/{threadID}/vote", h.Vote)
		r.Get("/threads/{threadID}/helpers", h.Helpers)
		r.Get("/announcements/{announcementID}/pdf", h.AnnouncementPDF)
		r.Get("/courses/{courseID}/threads", h.CourseThreads)
	})

	// Teacher-only views.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireTeacher)

		r.Get("/dashboard", h.Dashboard)
		r.Get("/upload", h.UploadPage)
		r.Post("/upload", h.Upload)
		r.Get("/announcements/new", h.NewAnnouncementPage)
		r.Post("/announcements", h.CreateAnnouncement)
		r.Get("/threads/{threadID}/students/{level}", h.StudentsByLevel)
	})
}
