package web

import (
	"net/http"
	"strings"
)

// maxUploadBytes caps lecture PDFs at 32 MiB.
const maxUploadBytes = 32 << 20

type uploadPage struct {
	basePage
}

type uploadDonePage struct {
	basePage
	CourseID   int64
	CourseName string
	Topics     []string
	// RedirectDelay is the meta-refresh delay in seconds before the
	// browser returns to the feed.
	RedirectDelay int
}

// UploadPage renders the lecture upload form.
func (h *Handler) UploadPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "upload.html.tmpl", uploadPage{
		basePage: basePage{Title: "Upload Lecture", User: currentUser(r)},
	})
}

// Upload sends a lecture PDF for topic extraction. A non-PDF file is
// rejected before any backend call. The success page lists the
// extracted topics and returns to the feed after a fixed delay.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	fail := func(message string) {
		h.render(w, http.StatusUnprocessableEntity, "upload.html.tmpl", uploadPage{
			basePage: basePage{Title: "Upload Lecture", User: user, Error: message},
		})
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		fail("Could not read the uploaded file")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		fail("Please choose a PDF file")
		return
	}
	defer file.Close()

	if !isPDF(header.Filename, header.Header.Get("Content-Type")) {
		fail("Please upload a PDF file")
		return
	}

	result, err := h.client.UploadLecture(r.Context(), header.Filename, file)
	if err != nil {
		h.logger.Warn("uploading lecture", "filename", header.Filename, "error", err)
		fail(errorText(err, "Failed to upload the lecture. Please try again."))
		return
	}

	h.logger.Info("lecture uploaded",
		"course_id", result.CourseID,
		"topics", result.TopicsExtracted,
		"threads", result.ThreadsCreated)

	h.render(w, http.StatusOK, "upload_done.html.tmpl", uploadDonePage{
		basePage:      basePage{Title: "Upload Complete", User: user},
		CourseID:      result.CourseID,
		CourseName:    result.CourseName,
		Topics:        result.Topics,
		RedirectDelay: 3,
	})
}

// isPDF checks the filename extension and, when present, the declared
// MIME type.
func isPDF(filename, contentType string) bool {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return false
	}
	if contentType != "" && contentType != "application/pdf" && contentType != "application/octet-stream" {
		return false
	}
	return true
}
