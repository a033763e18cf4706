package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/classboard/classboard/internal/classroom"
	"github.com/classboard/classboard/internal/domain"
)

type threadPage struct {
	basePage
	ThreadID int64
	Topic    string
	Messages []domain.Message
	Question string
}

// Thread renders the chat view for one discussion topic.
func (h *Handler) Thread(w http.ResponseWriter, r *http.Request) {
	threadID, err := urlID(r, "threadID")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	page := threadPage{
		basePage: basePage{Title: "Discussion", User: currentUser(r)},
		ThreadID: threadID,
	}

	view, err := h.client.ThreadMessages(r.Context(), threadID)
	if err != nil {
		h.logger.Warn("loading thread", "thread_id", threadID, "error", err)
		page.Error = errorText(err, "Failed to load messages")
		h.render(w, http.StatusOK, "thread.html.tmpl", page)
		return
	}

	page.Title = view.Topic
	page.Topic = view.Topic
	page.Messages = view.Messages
	h.render(w, http.StatusOK, "thread.html.tmpl", page)
}

// Ask posts a question and re-renders the thread with the backend's full
// updated message list. On failure the typed question is preserved.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	threadID, err := urlID(r, "threadID")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	user := currentUser(r)
	question := strings.TrimSpace(r.FormValue("question"))
	if question == "" {
		http.Redirect(w, r, threadPath(threadID), http.StatusSeeOther)
		return
	}

	messages, err := h.client.AskQuestion(r.Context(), threadID, question, user.ID)
	if err != nil {
		h.logger.Warn("asking question", "thread_id", threadID, "error", err)
		page := threadPage{
			basePage: basePage{
				Title: "Discussion",
				User:  user,
				Error: errorText(err, "Failed to send message. Please try again."),
			},
			ThreadID: threadID,
			Question: question,
		}
		// Best effort reload so the existing history stays visible.
		if view, viewErr := h.client.ThreadMessages(r.Context(), threadID); viewErr == nil {
			page.Title = view.Topic
			page.Topic = view.Topic
			page.Messages = view.Messages
		}
		h.render(w, http.StatusOK, "thread.html.tmpl", page)
		return
	}

	page := threadPage{
		basePage: basePage{Title: "Discussion", User: user},
		ThreadID: threadID,
		Messages: messages,
	}
	h.render(w, http.StatusOK, "thread.html.tmpl", page)
}

type courseThreadsPage struct {
	basePage
	CourseID   int64
	CourseName string
	Threads    []domain.Thread
}

// CourseThreads lists the discussion topics of one uploaded lecture.
func (h *Handler) CourseThreads(w http.ResponseWriter, r *http.Request) {
	courseID, err := urlID(r, "courseID")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	page := courseThreadsPage{
		basePage: basePage{Title: "Discussion Topics", User: currentUser(r)},
		CourseID: courseID,
	}

	list, err := h.client.CourseThreads(r.Context(), courseID)
	if err != nil {
		h.logger.Warn("loading course threads", "course_id", courseID, "error", err)
		var apiErr *classroom.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			http.NotFound(w, r)
			return
		}
		page.Error = errorText(err, "Failed to load topics")
		h.render(w, http.StatusOK, "threads_list.html.tmpl", page)
		return
	}

	page.CourseName = list.CourseName
	page.Threads = list.Threads
	h.render(w, http.StatusOK, "threads_list.html.tmpl", page)
}

func threadPath(threadID int64) string {
	return "/threads/" + strconv.FormatInt(threadID, 10)
}
