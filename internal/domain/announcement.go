package domain

// Announcement is a teacher post, optionally carrying a PDF whose topics
// the backend has already expanded into discussion threads.
type Announcement struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	TeacherName string   `json:"teacher_name"`
	CreatedAt   string   `json:"created_at"`
	PDFPath     string   `json:"pdf_path,omitempty"`
	PDFFilename string   `json:"pdf_filename,omitempty"`
	HasTopics   bool     `json:"has_topics"`
	Threads     []Thread `json:"threads"`
}

// HasPDF reports whether the announcement carries an attachment.
func (a *Announcement) HasPDF() bool {
	return a.PDFPath != "" || a.PDFFilename != ""
}

// Thread is one AI-extracted discussion topic under an announcement.
type Thread struct {
	ID           int64  `json:"id"`
	Topic        string `json:"topic"`
	Title        string `json:"title"`
	MessageCount int    `json:"message_count"`
	CreatedAt    string `json:"created_at"`
}

// Sender types within a thread.
const (
	SenderStudent = "student"
	SenderTeacher = "teacher"
	SenderAI      = "ai"
)

// Message is a single entry in a thread, ordered by created_at ascending.
type Message struct {
	ID         int64  `json:"id"`
	SenderType string `json:"sender_type"`
	UserName   string `json:"user_name"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

// AlignRight reports whether the bubble sits on the right edge.
// Human senders align right, the AI responder aligns left.
func (m *Message) AlignRight() bool {
	return m.SenderType == SenderStudent || m.SenderType == SenderTeacher
}

// Initials returns the avatar badge for human senders.
func (m *Message) Initials() string {
	return Initials(m.UserName)
}

// Understanding levels a student can vote.
const (
	LevelComplete = "complete"
	LevelPartial  = "partial"
	LevelNone     = "none"
)

// ValidLevel reports whether level is one of the three vote options.
func ValidLevel(level string) bool {
	switch level {
	case LevelComplete, LevelPartial, LevelNone:
		return true
	}
	return false
}

// PollResults holds the tally for one thread, plus the requesting
// student's own vote when the backend knows it.
type PollResults struct {
	Complete    int    `json:"complete"`
	Partial     int    `json:"partial"`
	None        int    `json:"none"`
	StudentVote string `json:"-"`
}

// Total returns the vote count across all levels.
func (p PollResults) Total() int {
	return p.Complete + p.Partial + p.None
}

// Contact is a student surfaced by the helpers or students-by-level
// lookups, with whatever contact details they shared at signup.
type Contact struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}
