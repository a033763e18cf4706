package web

import (
	"net/http"
	"sync"

	"github.com/classboard/classboard/internal/domain"
)

type pollItem struct {
	Thread  domain.Thread
	Results domain.PollResults
}

type pollSection struct {
	AnnouncementID int64
	Title          string
	Items          []pollItem
}

type homePage struct {
	basePage
	Announcements []domain.Announcement
	Polls         []pollSection
	PollCount     int
}

// Home renders the announcement feed with the polling sidebar. Poll
// tallies for every thread are fetched concurrently; one failed fetch
// zeroes that widget only, never the page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	page := homePage{basePage: basePage{Title: "Home", User: user}}

	announcements, err := h.client.ListAnnouncements(r.Context())
	if err != nil {
		h.logger.Warn("loading announcements", "error", err)
		page.Error = errorText(err, "Failed to load announcements")
		h.render(w, http.StatusOK, "home.html.tmpl", page)
		return
	}
	page.Announcements = announcements

	// Students see their own vote highlighted; teachers only see tallies.
	var studentID int64
	if !user.IsTeacher() {
		studentID = user.ID
	}

	type slot struct {
		section, item int
		threadID      int64
	}
	var slots []slot
	for _, a := range announcements {
		if len(a.Threads) == 0 {
			continue
		}
		section := pollSection{AnnouncementID: a.ID, Title: a.Title}
		for _, t := range a.Threads {
			slots = append(slots, slot{
				section:  len(page.Polls),
				item:     len(section.Items),
				threadID: t.ID,
			})
			section.Items = append(section.Items, pollItem{Thread: t})
		}
		page.Polls = append(page.Polls, section)
		page.PollCount += len(section.Items)
	}

	var wg sync.WaitGroup
	for _, s := range slots {
		wg.Add(1)
		go func(s slot) {
			defer wg.Done()
			results, err := h.client.PollResults(r.Context(), s.threadID, studentID)
			if err != nil {
				h.logger.Warn("loading poll results", "thread_id", s.threadID, "error", err)
				return
			}
			page.Polls[s.section].Items[s.item].Results = *results
		}(s)
	}
	wg.Wait()

	h.render(w, http.StatusOK, "home.html.tmpl", page)
}
