// Package escalate turns a stuck session into an escalation: a transcript,
// an email template, a tracker issue attempt, and a durable record.
package escalate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cewiley/NACCIT-Intake/internal/domain"
	"github.com/cewiley/NACCIT-Intake/internal/jira"
	"github.com/cewiley/NACCIT-Intake/internal/session"
	"github.com/cewiley/NACCIT-Intake/internal/store"
	"github.com/google/uuid"
)

// DefaultReason is recorded when the caller supplies no escalation reason.
const DefaultReason = "User indicated issue persists."

// DefaultIssueType is reported when a session escalates before any choice
// was made from the start node. Explicit so downstream consumers never see
// an empty issue type.
const DefaultIssueType = "general"

// TicketSubmitter is the boundary to the external issue tracker.
// Implementations report every outcome as a Result value; a submitter
// failure must never abort the escalation that invoked it.
type TicketSubmitter interface {
	CreateIssue(ctx context.Context, summary, description string) jira.Result
}

// Config holds the presentation settings for escalation output.
type Config struct {
	NotifyEmail      string
	SubjectPrefix    string
	LoginTicketURL   string
	LoginTicketLabel string
}

// EmailTemplate is the ready-to-send notification email.
type EmailTemplate struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TicketLink is a static deep link shown for login escalations, unrelated
// to the tracker issue created dynamically.
type TicketLink struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// EmailOutcome mirrors the submitter result shape for the email channel.
// Direct sending is disabled; the template is handed back to the caller.
type EmailOutcome struct {
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
}

// Result is the composite outcome of one escalation.
type Result struct {
	Email         EmailOutcome  `json:"email"`
	Jira          jira.Result   `json:"jira"`
	TicketLink    *TicketLink   `json:"ticketLink,omitempty"`
	IssueType     string        `json:"issueType"`
	EmailTemplate EmailTemplate `json:"emailTemplate"`
}

// Assembler builds escalation results from session state.
type Assembler struct {
	store     session.Store
	submitter TicketSubmitter
	archive   store.Archive
	cfg       Config
}

// New creates an assembler. archive may be nil, in which case no durable
// record is written.
func New(sessions session.Store, submitter TicketSubmitter, archive store.Archive, cfg Config) *Assembler {
	return &Assembler{store: sessions, submitter: submitter, archive: archive, cfg: cfg}
}

// Escalate hands the session to a human. It fails with
// domain.ErrSessionNotFound if the session is absent or already escalated
// (a session escalates at most once). On success the session is marked
// escalated before the tracker is called, and the tracker outcome is
// folded into the result as data: an unreachable or misconfigured tracker
// never fails the escalation.
func (a *Assembler) Escalate(ctx context.Context, sessionID, reason string) (*Result, error) {
	if reason == "" {
		reason = DefaultReason
	}

	// Mutate and snapshot under the session lock, then do all I/O outside
	// it so a slow tracker cannot stall other requests for this session.
	unlock := a.store.Lock(sessionID)
	sess := a.store.Get(sessionID)
	if sess == nil || sess.Status == domain.StatusEscalated {
		unlock()
		return nil, domain.ErrSessionNotFound
	}

	now := time.Now()
	sess.Status = domain.StatusEscalated
	sess.EscalatedAt = now
	sess.EscalationReason = reason
	a.store.Touch(sessionID, now)

	intake := sess.Intake
	issueType := sess.IssueType
	messages := make([]domain.Message, len(sess.Messages))
	copy(messages, sess.Messages)
	unlock()

	if issueType == "" {
		issueType = DefaultIssueType
	}

	transcript := buildTranscript(messages)
	subject := a.cfg.SubjectPrefix + " " + intake.Summary
	body := buildEmailBody(intake, reason, transcript)

	jiraResult := a.submitter.CreateIssue(ctx, intake.Summary, body)

	var link *TicketLink
	if issueType == "login" && a.cfg.LoginTicketURL != "" {
		link = &TicketLink{URL: a.cfg.LoginTicketURL, Label: a.cfg.LoginTicketLabel}
	}

	a.record(ctx, sessionID, issueType, intake.Summary, reason, subject, body, jiraResult)
	slog.Info("Session escalated",
		"session_id", sessionID,
		"issue_type", issueType,
		"jira_skipped", jiraResult.Skipped,
		"jira_key", jiraResult.Key)

	return &Result{
		Email:      EmailOutcome{Skipped: true, Reason: "SMTP disabled; using template only."},
		Jira:       jiraResult,
		TicketLink: link,
		IssueType:  issueType,
		EmailTemplate: EmailTemplate{
			To:      a.cfg.NotifyEmail,
			Subject: subject,
			Body:    body,
		},
	}, nil
}

func (a *Assembler) record(ctx context.Context, sessionID, issueType, summary, reason, subject, body string, jiraResult jira.Result) {
	if a.archive == nil {
		return
	}
	rec := &domain.EscalationRecord{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		IssueType:    issueType,
		Summary:      summary,
		Reason:       reason,
		EmailSubject: subject,
		EmailBody:    body,
		JiraKey:      jiraResult.Key,
		JiraError:    jiraResult.Error,
		CreatedAt:    time.Now(),
	}
	if err := a.archive.Record(ctx, rec); err != nil {
		// Archiving is best effort; the caller still gets the template.
		slog.Warn("Failed to archive escalation", "session_id", sessionID, "error", err)
	}
}

// buildTranscript renders the transcript as "ROLE: content" blocks in
// append order, separated by blank lines.
func buildTranscript(messages []domain.Message) string {
	parts := make([]string, len(messages))
	for i, m := range messages {
		parts[i] = strings.ToUpper(string(m.Role)) + ": " + m.Content
	}
	return strings.Join(parts, "\n\n")
}

func buildEmailBody(intake domain.Intake, reason, transcript string) string {
	return fmt.Sprintf("A user requested escalation after decision-tree troubleshooting.\n\n"+
		"Name: %s\nEmail: %s\nSlack: %s\nSummary: %s\nReason: %s\n\nTranscript:\n%s",
		intake.Name, intake.Email, intake.Slack, intake.Summary, reason, transcript)
}
