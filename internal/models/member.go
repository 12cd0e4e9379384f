package models

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
)

// Member is a Telegram user taking part in the help desk.
type Member struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	Role      Role
}

func (m *Member) DisplayName() string {
	var parts []string
	if m.FirstName != "" {
		parts = append(parts, m.FirstName)
	}
	if m.LastName != "" {
		parts = append(parts, m.LastName)
	}
	if m.Username != "" {
		parts = append(parts, fmt.Sprintf("@%s", m.Username))
	}
	parts = append(parts, fmt.Sprintf("[%d]", m.ID))
	if m.Role == RoleInstructor {
		parts = append(parts, "(instructor)")
	}
	return strings.Join(parts, " ")
}
