package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/classboard/classboard/internal/domain"
)

// Vote records a student's understanding level and returns to the feed.
// Teachers never get vote buttons; a forged teacher vote is ignored.
func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user.IsTeacher() {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}

	threadID, err := urlID(r, "threadID")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	level := r.FormValue("level")
	if !domain.ValidLevel(level) {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}

	if _, err := h.client.Vote(r.Context(), threadID, user.ID, level); err != nil {
		h.logger.Warn("recording vote", "thread_id", threadID, "error", err)
	}
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

type contactsPage struct {
	basePage
	ThreadID int64
	Level    string
	Contacts []domain.Contact
}

// Helpers lists students who marked the topic fully understood, with
// the contact details they shared at signup.
func (h *Handler) Helpers(w http.ResponseWriter, r *http.Request) {
	threadID, err := urlID(r, "threadID")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	page := contactsPage{
		basePage: basePage{Title: "Students Who Can Help", User: currentUser(r)},
		ThreadID: threadID,
		Level:    domain.LevelComplete,
	}

	helpers, err := h.client.TopicHelpers(r.Context(), threadID)
	if err != nil {
		h.logger.Warn("loading helpers", "thread_id", threadID, "error", err)
		page.Error = errorText(err, "Failed to load helpers")
	}
	page.Contacts = helpers

	h.render(w, http.StatusOK, "helpers.html.tmpl", page)
}

// StudentsByLevel is the teacher drill-down into one vote bucket.
func (h *Handler) StudentsByLevel(w http.ResponseWriter, r *http.Request) {
	threadID, err := urlID(r, "threadID")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	level := chi.URLParam(r, "level")
	if !domain.ValidLevel(level) {
		http.NotFound(w, r)
		return
	}

	page := contactsPage{
		basePage: basePage{Title: "Students by Understanding", User: currentUser(r)},
		ThreadID: threadID,
		Level:    level,
	}

	students, err := h.client.StudentsByLevel(r.Context(), threadID, level)
	if err != nil {
		h.logger.Warn("loading students by level", "thread_id", threadID, "level", level, "error", err)
		page.Error = errorText(err, "Failed to load students")
	}
	page.Contacts = students

	h.render(w, http.StatusOK, "students.html.tmpl", page)
}
