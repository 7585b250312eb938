// Package jira submits escalations to the issue tracker. The client is
// best-effort by contract: every outcome, including transport failure, is
// reported as a Result value, never as an error that could abort the
// escalation that triggered it.
package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Config holds tracker connection settings. All four of BaseURL, Email,
// APIToken and ProjectKey must be set for submission to be attempted.
type Config struct {
	BaseURL    string
	Email      string
	APIToken   string
	ProjectKey string
	IssueType  string
}

// Complete reports whether the config is sufficient to attempt a call.
func (c Config) Complete() bool {
	return c.BaseURL != "" && c.Email != "" && c.APIToken != "" && c.ProjectKey != ""
}

// Result is the outcome of one submission attempt: exactly one of
// skipped (config incomplete), error (call failed), or key+url (created).
type Result struct {
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
	Key     string `json:"key,omitempty"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Client creates issues over the Jira Cloud REST v3 API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a tracker client. A nil httpClient gets a default
// with a 30 second timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

type issuePayload struct {
	Fields issueFields `json:"fields"`
}

type issueFields struct {
	Project     projectRef   `json:"project"`
	Summary     string       `json:"summary"`
	IssueType   issueTypeRef `json:"issuetype"`
	Description adfDocument  `json:"description"`
}

type projectRef struct {
	Key string `json:"key"`
}

type issueTypeRef struct {
	Name string `json:"name"`
}

// adfDocument is the minimal Atlassian Document Format wrapper Jira v3
// requires for rich-text fields: one paragraph holding plain text.
type adfDocument struct {
	Type    string     `json:"type"`
	Version int        `json:"version"`
	Content []adfBlock `json:"content"`
}

type adfBlock struct {
	Type    string    `json:"type"`
	Content []adfText `json:"content,omitempty"`
	Text    string    `json:"text,omitempty"`
}

type adfText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type issueCreated struct {
	Key string `json:"key"`
}

// CreateIssue files a tracker issue for an escalation. One attempt, no
// retries; any failure is captured in the returned Result.
// Jira Cloud requires a reporter accountId we do not have, so the
// reporter field is omitted and defaults to the API user.
func (c *Client) CreateIssue(ctx context.Context, summary, description string) Result {
	if !c.cfg.Complete() {
		return Result{Skipped: true, Reason: "Jira config incomplete"}
	}

	payload := issuePayload{
		Fields: issueFields{
			Project:   projectRef{Key: c.cfg.ProjectKey},
			Summary:   summary,
			IssueType: issueTypeRef{Name: c.cfg.IssueType},
			Description: adfDocument{
				Type:    "doc",
				Version: 1,
				Content: []adfBlock{{
					Type:    "paragraph",
					Content: []adfText{{Type: "text", Text: description}},
				}},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Error: fmt.Sprintf("marshal issue payload: %v", err)}
	}

	url := c.cfg.BaseURL + "/rest/api/3/issue"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{Error: fmt.Sprintf("create request: %v", err)}
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.cfg.Email + ":" + c.cfg.APIToken))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("Jira issue creation failed", "error", err)
		return Result{Error: err.Error()}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Debug("Failed to close Jira response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errText, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		slog.Warn("Jira returned non-success status", "status", resp.StatusCode)
		return Result{Error: fmt.Sprintf("Jira error %d: %s", resp.StatusCode, string(errText))}
	}

	var created issueCreated
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return Result{Error: fmt.Sprintf("decode Jira response: %v", err)}
	}

	slog.Info("Jira issue created", "key", created.Key)
	return Result{Key: created.Key, URL: c.cfg.BaseURL + "/browse/" + created.Key}
}
