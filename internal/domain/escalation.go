package domain

import "time"

// EscalationRecord is the durable trace of one escalation. Unlike
// sessions, records survive restarts; they are what IT works from when
// the tracker was unreachable.
type EscalationRecord struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	IssueType    string    `json:"issue_type"`
	Summary      string    `json:"summary"`
	Reason       string    `json:"reason"`
	EmailSubject string    `json:"email_subject"`
	EmailBody    string    `json:"email_body"`
	JiraKey      string    `json:"jira_key,omitempty"`
	JiraError    string    `json:"jira_error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
