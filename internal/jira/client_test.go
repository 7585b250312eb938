package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func completeConfig(baseURL string) Config {
	return Config{
		BaseURL:    baseURL,
		Email:      "bot@example.com",
		APIToken:   "token123",
		ProjectKey: "FXCCIT",
		IssueType:  "Bug",
	}
}

func TestConfigComplete(t *testing.T) {
	if !completeConfig("https://jira.example.com").Complete() {
		t.Error("expected complete config")
	}

	cases := []Config{
		{Email: "a@b.c", APIToken: "t", ProjectKey: "P"},
		{BaseURL: "https://x", APIToken: "t", ProjectKey: "P"},
		{BaseURL: "https://x", Email: "a@b.c", ProjectKey: "P"},
		{BaseURL: "https://x", Email: "a@b.c", APIToken: "t"},
	}
	for i, cfg := range cases {
		if cfg.Complete() {
			t.Errorf("Expected config %d to be incomplete", i)
		}
	}

	// IssueType is optional.
	cfg := completeConfig("https://x")
	cfg.IssueType = ""
	if !cfg.Complete() {
		t.Error("expected config without issue type to be complete")
	}
}

func TestCreateIssueSkippedWhenIncomplete(t *testing.T) {
	client := NewClient(Config{}, nil)

	result := client.CreateIssue(context.Background(), "summary", "description")
	if !result.Skipped {
		t.Fatal("expected skipped result")
	}
	if result.Reason != "Jira config incomplete" {
		t.Errorf("Unexpected skip reason: %q", result.Reason)
	}
	if result.Key != "" || result.Error != "" {
		t.Errorf("Expected no key or error on skip, got %+v", result)
	}
}

func TestCreateIssueSuccess(t *testing.T) {
	var gotPath, gotAuth string
	var gotPayload issuePayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("Failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		if _, err := w.Write([]byte(`{"id":"10001","key":"FXCCIT-42"}`)); err != nil {
			t.Errorf("Failed to write response: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(completeConfig(srv.URL), srv.Client())
	result := client.CreateIssue(context.Background(), "Printer broken", "It is on fire")

	if result.Skipped || result.Error != "" {
		t.Fatalf("Expected success, got %+v", result)
	}
	if result.Key != "FXCCIT-42" {
		t.Errorf("Expected key FXCCIT-42, got %q", result.Key)
	}
	if result.URL != srv.URL+"/browse/FXCCIT-42" {
		t.Errorf("Unexpected browse URL: %q", result.URL)
	}

	if gotPath != "/rest/api/3/issue" {
		t.Errorf("Expected POST to /rest/api/3/issue, got %s", gotPath)
	}
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("bot@example.com:token123"))
	if gotAuth != wantAuth {
		t.Errorf("Unexpected Authorization header: %q", gotAuth)
	}

	if gotPayload.Fields.Project.Key != "FXCCIT" {
		t.Errorf("Expected project FXCCIT, got %q", gotPayload.Fields.Project.Key)
	}
	if gotPayload.Fields.Summary != "Printer broken" {
		t.Errorf("Expected summary in payload, got %q", gotPayload.Fields.Summary)
	}
	if gotPayload.Fields.IssueType.Name != "Bug" {
		t.Errorf("Expected issue type Bug, got %q", gotPayload.Fields.IssueType.Name)
	}

	doc := gotPayload.Fields.Description
	if doc.Type != "doc" || doc.Version != 1 {
		t.Errorf("Expected ADF doc wrapper, got type=%q version=%d", doc.Type, doc.Version)
	}
	if len(doc.Content) != 1 || len(doc.Content[0].Content) != 1 {
		t.Fatalf("Expected one paragraph with one text node, got %+v", doc.Content)
	}
	if doc.Content[0].Content[0].Text != "It is on fire" {
		t.Errorf("Expected description text, got %q", doc.Content[0].Content[0].Text)
	}
}

func TestCreateIssueNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		if _, err := w.Write([]byte(`{"errorMessages":["field required"]}`)); err != nil {
			t.Errorf("Failed to write response: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(completeConfig(srv.URL), srv.Client())
	result := client.CreateIssue(context.Background(), "summary", "description")

	if result.Skipped {
		t.Fatal("expected attempt, not skip")
	}
	if !strings.HasPrefix(result.Error, "Jira error 400:") {
		t.Errorf("Expected status in error, got %q", result.Error)
	}
	if !strings.Contains(result.Error, "field required") {
		t.Errorf("Expected response body in error, got %q", result.Error)
	}
	if result.Key != "" {
		t.Errorf("Expected no key on failure, got %q", result.Key)
	}
}

func TestCreateIssueTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(completeConfig(srv.URL), nil)
	result := client.CreateIssue(context.Background(), "summary", "description")

	if result.Error == "" {
		t.Fatal("expected transport error to be captured")
	}
	if result.Skipped {
		t.Error("expected attempt, not skip")
	}
}
