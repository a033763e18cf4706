// Package domain contains core domain types for the Classboard client.
package domain

import (
	"strings"
	"time"
)

// Role values returned by the classroom backend.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// User is the authenticated account as the backend reports it.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// IsTeacher reports whether the user holds the teacher role.
func (u *User) IsTeacher() bool {
	return u != nil && u.Role == RoleTeacher
}

// Initials returns up to two uppercase letters for the avatar badge.
func (u *User) Initials() string {
	return Initials(u.Name)
}

// Initials derives an avatar badge from a display name.
func Initials(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	parts := strings.Fields(name)
	if len(parts) >= 2 {
		return strings.ToUpper(string([]rune(parts[0])[0]) + string([]rune(parts[1])[0]))
	}
	runes := []rune(parts[0])
	if len(runes) == 1 {
		return strings.ToUpper(string(runes[0]))
	}
	return strings.ToUpper(string(runes[:2]))
}

// Session is a locally persisted login. The token lives in the browser
// cookie; the user payload is what the backend returned at login time.
type Session struct {
	Token      string
	User       User
	CreatedAt  time.Time
	LastSeenAt time.Time
}
