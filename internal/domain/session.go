// Package domain contains core domain types for the intake service.
package domain

import (
	"fmt"
	"time"
)

// Role tags a transcript message with its author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Status is the session lifecycle state.
type Status string

const (
	// StatusActive means the session is still walking the tree.
	StatusActive Status = "active"
	// StatusResolved means the walk reached the resolved node.
	StatusResolved Status = "resolved"
	// StatusEscalated means the case was handed to a human. Terminal.
	StatusEscalated Status = "escalated"
)

// Message is one entry in a session transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Intake holds the fields collected before a session starts. All four are
// required; none are validated for format (they are opaque to the engine).
type Intake struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Slack   string `json:"slack"`
	Summary string `json:"summary"`
}

// Valid reports whether every intake field is present.
func (i Intake) Valid() bool {
	return i.Name != "" && i.Email != "" && i.Slack != "" && i.Summary != ""
}

// Session is one user's run through the decision tree. Mutations go
// through the engine, which serializes access per session id; Session
// itself carries no locking.
type Session struct {
	ID               string
	Intake           Intake
	IssueType        string // first option chosen from start; set once
	Messages         []Message
	Status           Status
	NodeID           string
	EscalationReason string
	CreatedAt        time.Time
	EscalatedAt      time.Time
	LastActiveAt     time.Time
}

// Append records a transcript message. The transcript is append-only;
// nothing ever reorders or removes entries.
func (s *Session) Append(role Role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// Touch updates the idle clock used by TTL eviction.
func (s *Session) Touch(now time.Time) {
	s.LastActiveAt = now
}

// IntakeSummary renders the intake fields as the opening user message.
func (s *Session) IntakeSummary() string {
	return fmt.Sprintf("Name: %s\nEmail: %s\nSlack: %s\nIssue: %s",
		s.Intake.Name, s.Intake.Email, s.Intake.Slack, s.Intake.Summary)
}
