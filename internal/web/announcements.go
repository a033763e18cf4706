package web

import (
	"io"
	"net/http"
	"strconv"
	"strings"
)

type announcementFormPage struct {
	basePage
	FormTitle string
	Content   string
}

// NewAnnouncementPage renders the create-announcement form.
func (h *Handler) NewAnnouncementPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "announcement_new.html.tmpl", announcementFormPage{
		basePage: basePage{Title: "New Announcement", User: currentUser(r)},
	})
}

// CreateAnnouncement posts a new announcement, optionally with a PDF
// whose topics the backend expands into threads. The feed re-fetches on
// the redirect, so the new post appears without any local cache.
func (h *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.render(w, http.StatusUnprocessableEntity, "announcement_new.html.tmpl", announcementFormPage{
			basePage: basePage{Title: "New Announcement", User: user, Error: "Could not read the form"},
		})
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))
	page := announcementFormPage{
		basePage:  basePage{Title: "New Announcement", User: user},
		FormTitle: title,
		Content:   content,
	}
	fail := func(message string) {
		page.Error = message
		h.render(w, http.StatusUnprocessableEntity, "announcement_new.html.tmpl", page)
	}

	if title == "" || content == "" {
		fail("Title and content are required")
		return
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == http.ErrMissingFile:
		if _, err := h.client.CreateAnnouncement(r.Context(), user.ID, title, content); err != nil {
			h.logger.Warn("creating announcement", "error", err)
			fail(errorText(err, "Failed to create the announcement. Please try again."))
			return
		}
	case err != nil:
		fail("Could not read the attached file")
		return
	default:
		defer file.Close()
		if !isPDF(header.Filename, header.Header.Get("Content-Type")) {
			fail("Only PDF attachments are supported")
			return
		}
		if _, err := h.client.CreateAnnouncementWithPDF(r.Context(), user.ID, title, content, header.Filename, file); err != nil {
			h.logger.Warn("creating announcement with pdf", "error", err)
			fail(errorText(err, "Failed to create the announcement. Please try again."))
			return
		}
	}

	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// AnnouncementPDF proxies the attachment stream from the backend so the
// browser never needs direct backend access.
func (h *Handler) AnnouncementPDF(w http.ResponseWriter, r *http.Request) {
	announcementID, err := urlID(r, "announcementID")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	download := r.URL.Query().Get("download") == "true"

	stream, err := h.client.FetchAnnouncementPDF(r.Context(), announcementID, download)
	if err != nil {
		h.logger.Warn("fetching announcement pdf", "announcement_id", announcementID, "error", err)
		http.Error(w, "attachment unavailable", http.StatusBadGateway)
		return
	}
	defer stream.Body.Close()

	if stream.ContentType != "" {
		w.Header().Set("Content-Type", stream.ContentType)
	} else {
		w.Header().Set("Content-Type", "application/pdf")
	}
	if stream.ContentDisposition != "" {
		w.Header().Set("Content-Disposition", stream.ContentDisposition)
	}
	if stream.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(stream.ContentLength, 10))
	}

	if _, err := io.Copy(w, stream.Body); err != nil {
		h.logger.Debug("streaming pdf interrupted", "announcement_id", announcementID, "error", err)
	}
}
