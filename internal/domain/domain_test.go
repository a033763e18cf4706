package domain

import "testing"

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"two words", "Alice Smith", "AS"},
		{"three words uses first two", "Anna Maria Lopez", "AM"},
		{"single word", "Bob", "BO"},
		{"single rune", "X", "X"},
		{"lowercase", "carol díaz", "CD"},
		{"surrounding spaces", "  Dana Fox  ", "DF"},
		{"empty", "", "?"},
		{"whitespace only", "   ", "?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Initials(tt.in); got != tt.want {
				t.Errorf("Initials(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMessageAlignRight(t *testing.T) {
	tests := []struct {
		sender string
		want   bool
	}{
		{SenderStudent, true},
		{SenderTeacher, true},
		{SenderAI, false},
		{"unknown", false},
	}

	for _, tt := range tests {
		m := Message{SenderType: tt.sender}
		if got := m.AlignRight(); got != tt.want {
			t.Errorf("AlignRight(%q) = %v, want %v", tt.sender, got, tt.want)
		}
	}
}

func TestValidLevel(t *testing.T) {
	for _, level := range []string{LevelComplete, LevelPartial, LevelNone} {
		if !ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = false, want true", level)
		}
	}
	for _, level := range []string{"", "ok", "COMPLETE"} {
		if ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = true, want false", level)
		}
	}
}

func TestClarityBand(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, "good"},
		{70, "good"},
		{69.9, "warn"},
		{50, "warn"},
		{49.9, "bad"},
		{0, "bad"},
	}

	for _, tt := range tests {
		ts := TopicStats{ClarityScore: tt.score}
		if got := ts.ClarityBand(); got != tt.want {
			t.Errorf("ClarityBand(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestPollResultsTotal(t *testing.T) {
	p := PollResults{Complete: 3, Partial: 2, None: 1}
	if got := p.Total(); got != 6 {
		t.Errorf("Total() = %d, want 6", got)
	}
	if (PollResults{}).Total() != 0 {
		t.Error("empty Total() != 0")
	}
}

func TestUserIsTeacher(t *testing.T) {
	var nilUser *User
	if nilUser.IsTeacher() {
		t.Error("nil user reported as teacher")
	}
	if (&User{Role: RoleStudent}).IsTeacher() {
		t.Error("student reported as teacher")
	}
	if !(&User{Role: RoleTeacher}).IsTeacher() {
		t.Error("teacher not reported as teacher")
	}
}
