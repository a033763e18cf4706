// Package classroom is the HTTP client for the classroom backend API.
// The backend owns all persistence and AI behavior; this package only
// speaks its JSON and multipart endpoints and normalizes its errors.
package classroom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/classboard/classboard/internal/domain"
	"github.com/classboard/classboard/internal/metrics"
)

// Client talks to one classroom backend. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// New creates a client for the given base URL. The timeout bounds every
// request including the slow AI-backed endpoints.
func New(baseURL string, timeout time.Duration, m *metrics.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    m,
		logger:     logger,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ThreadView is a thread with its full ordered message history.
type ThreadView struct {
	ThreadID int64            `json:"thread_id"`
	Title    string           `json:"thread_title"`
	Topic    string           `json:"thread_topic"`
	Messages []domain.Message `json:"messages"`
}

// UploadResult reports what the backend made of an uploaded lecture.
type UploadResult struct {
	CourseID        int64    `json:"course_id"`
	CourseName      string   `json:"course_name"`
	TopicsExtracted int      `json:"topics_extracted"`
	ThreadsCreated  int      `json:"threads_created"`
	Topics          []string `json:"topics"`
}

// CourseThreadList is the thread list for one uploaded course.
type CourseThreadList struct {
	CourseID   int64           `json:"course_id"`
	CourseName string          `json:"course_name"`
	Threads    []domain.Thread `json:"threads"`
}

// PDFStream is an open attachment download. The caller must close Body.
type PDFStream struct {
	Body               io.ReadCloser
	ContentType        string
	ContentDisposition string
	ContentLength      int64
}

// Login resolves a name to an existing account.
func (c *Client) Login(ctx context.Context, name string) (*domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", map[string]string{"name": name}, &out)
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Signup creates a new student account.
func (c *Client) Signup(ctx context.Context, name, email, phone string) (*domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	payload := map[string]string{"name": name, "email": email, "phone": phone}
	err := c.do(ctx, "signup", http.MethodPost, "/api/auth/signup", payload, &out)
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

// GetUserByName checks whether an account exists. A missing user is not
// an error; the second return value reports existence.
func (c *Client) GetUserByName(ctx context.Context, name string) (*domain.User, bool, error) {
	var out struct {
		Exists bool        `json:"exists"`
		User   domain.User `json:"user"`
	}
	err := c.do(ctx, "get_user", http.MethodGet, "/api/auth/users/"+url.PathEscape(name), nil, &out)
	if err != nil {
		return nil, false, err
	}
	if !out.Exists {
		return nil, false, nil
	}
	return &out.User, true, nil
}

// ListAnnouncements returns all announcements, newest first, each with
// its expanded topic threads.
func (c *Client) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	var out struct {
		Announcements []domain.Announcement `json:"announcements"`
	}
	err := c.do(ctx, "list_announcements", http.MethodGet, "/api/announcements", nil, &out)
	if err != nil {
		return nil, err
	}
	return out.Announcements, nil
}

// CreateAnnouncement posts a plain announcement without an attachment.
func (c *Client) CreateAnnouncement(ctx context.Context, teacherID int64, title, content string) (*domain.Announcement, error) {
	var out struct {
		Announcement domain.Announcement `json:"announcement"`
	}
	payload := map[string]any{"teacher_id": teacherID, "title": title, "content": content}
	err := c.do(ctx, "create_announcement", http.MethodPost, "/api/announcements", payload, &out)
	if err != nil {
		return nil, err
	}
	return &out.Announcement, nil
}

// CreateAnnouncementWithPDF posts an announcement with a PDF attachment.
// The backend extracts topics from the PDF and opens threads for them,
// which can take tens of seconds.
func (c *Client) CreateAnnouncementWithPDF(ctx context.Context, teacherID int64, title, content, filename string, pdf io.Reader) (*domain.Announcement, error) {
	fields := map[string]string{
		"teacher_id": strconv.FormatInt(teacherID, 10),
		"title":      title,
		"content":    content,
	}
	var out struct {
		Announcement domain.Announcement `json:"announcement"`
	}
	err := c.doMultipart(ctx, "create_announcement_pdf", "/api/announcements/with-pdf", fields, filename, pdf, &out)
	if err != nil {
		return nil, err
	}
	return &out.Announcement, nil
}

// FetchAnnouncementPDF opens the attachment stream for proxying. When
// download is true the backend sets an attachment disposition.
func (c *Client) FetchAnnouncementPDF(ctx context.Context, announcementID int64, download bool) (*PDFStream, error) {
	path := fmt.Sprintf("/api/announcements/%d/pdf?download=%t", announcementID, download)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("building pdf request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe("fetch_pdf", 0, start)
		return nil, fmt.Errorf("fetching pdf: %w", err)
	}
	c.observe("fetch_pdf", resp.StatusCode, start)

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, c.parseError(resp)
	}

	return &PDFStream{
		Body:               resp.Body,
		ContentType:        resp.Header.Get("Content-Type"),
		ContentDisposition: resp.Header.Get("Content-Disposition"),
		ContentLength:      resp.ContentLength,
	}, nil
}

// ThreadMessages returns a thread with its ordered message history.
func (c *Client) ThreadMessages(ctx context.Context, threadID int64) (*ThreadView, error) {
	var out ThreadView
	path := fmt.Sprintf("/api/threads/%d/messages", threadID)
	if err := c.do(ctx, "thread_messages", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AskQuestion posts a question to a thread and waits for the AI reply.
// The backend returns the full updated message list including both the
// question and the generated answer.
func (c *Client) AskQuestion(ctx context.Context, threadID int64, question string, userID int64) ([]domain.Message, error) {
	var out struct {
		Messages []domain.Message `json:"messages"`
	}
	payload := map[string]any{"question": question, "user_id": userID}
	path := fmt.Sprintf("/api/threads/%d/ask", threadID)
	if err := c.do(ctx, "ask_question", http.MethodPost, path, payload, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// Vote records a student's understanding level for a topic and returns
// the updated tally. Re-voting replaces the previous vote.
func (c *Client) Vote(ctx context.Context, threadID, studentID int64, level string) (*domain.PollResults, error) {
	var out struct {
		Results domain.PollResults `json:"results"`
	}
	payload := map[string]any{"student_id": studentID, "understanding_level": level}
	path := fmt.Sprintf("/api/topics/%d/poll", threadID)
	if err := c.do(ctx, "vote", http.MethodPost, path, payload, &out); err != nil {
		return nil, err
	}
	out.Results.StudentVote = level
	return &out.Results, nil
}

// PollResults returns the tally for a topic. When studentID is set the
// backend also reports that student's own vote.
func (c *Client) PollResults(ctx context.Context, threadID, studentID int64) (*domain.PollResults, error) {
	var out struct {
		Results     domain.PollResults `json:"results"`
		StudentVote string             `json:"student_vote"`
	}
	path := fmt.Sprintf("/api/topics/%d/poll", threadID)
	if studentID > 0 {
		path += "?student_id=" + strconv.FormatInt(studentID, 10)
	}
	if err := c.do(ctx, "poll_results", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	out.Results.StudentVote = out.StudentVote
	return &out.Results, nil
}

// TopicHelpers lists students who marked a topic fully understood.
func (c *Client) TopicHelpers(ctx context.Context, threadID int64) ([]domain.Contact, error) {
	var out struct {
		Helpers []domain.Contact `json:"helpers"`
	}
	path := fmt.Sprintf("/api/topics/%d/helpers", threadID)
	if err := c.do(ctx, "topic_helpers", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Helpers, nil
}

// StudentsByLevel lists students who voted a given level on a topic.
func (c *Client) StudentsByLevel(ctx context.Context, threadID int64, level string) ([]domain.Contact, error) {
	var out struct {
		Students []domain.Contact `json:"students"`
	}
	path := fmt.Sprintf("/api/topics/%d/students/%s", threadID, url.PathEscape(level))
	if err := c.do(ctx, "students_by_level", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Students, nil
}

// Analytics returns the class-wide understanding report.
func (c *Client) Analytics(ctx context.Context) (*domain.Analytics, error) {
	var out domain.Analytics
	if err := c.do(ctx, "analytics", http.MethodGet, "/api/analytics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadLecture sends a PDF for topic extraction and thread creation.
func (c *Client) UploadLecture(ctx context.Context, filename string, pdf io.Reader) (*UploadResult, error) {
	var out UploadResult
	err := c.doMultipart(ctx, "upload_lecture", "/api/courses/upload", nil, filename, pdf, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CourseThreads lists the discussion threads of one course.
func (c *Client) CourseThreads(ctx context.Context, courseID int64) (*CourseThreadList, error) {
	var out CourseThreadList
	path := fmt.Sprintf("/api/courses/%d/threads", courseID)
	if err := c.do(ctx, "course_threads", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one JSON request and decodes a 2xx response into out.
func (c *Client) do(ctx context.Context, operation, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(operation, 0, start)
		c.logger.Warn("backend request failed", "operation", operation, "error", err)
		return fmt.Errorf("%s: %w", operation, err)
	}
	defer resp.Body.Close()
	c.observe(operation, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.parseError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", operation, err)
	}
	return nil
}

// doMultipart performs one multipart/form-data request with a single
// file part named "file" plus optional text fields.
func (c *Client) doMultipart(ctx context.Context, operation, path string, fields map[string]string, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			return fmt.Errorf("writing form field: %w", err)
		}
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("creating file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copying file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finalizing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(operation, 0, start)
		c.logger.Warn("backend upload failed", "operation", operation, "error", err)
		return fmt.Errorf("%s: %w", operation, err)
	}
	defer resp.Body.Close()
	c.observe(operation, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.parseError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", operation, err)
	}
	return nil
}

// parseError converts a non-2xx response into an APIError, reading the
// backend's {"detail": ...} payload when present.
func (c *Client) parseError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(data) > 0 {
		var payload struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Detail = payload.Detail
		}
	}
	return apiErr
}

func (c *Client) observe(operation string, status int, start time.Time) {
	c.metrics.ObserveBackendRequest(operation, status, time.Since(start))
}
