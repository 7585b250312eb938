package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cewiley/NACCIT-Intake/internal/domain"
	"github.com/cewiley/NACCIT-Intake/internal/engine"
	"github.com/cewiley/NACCIT-Intake/internal/escalate"
	"github.com/cewiley/NACCIT-Intake/internal/jira"
	"github.com/cewiley/NACCIT-Intake/internal/session"
	"github.com/cewiley/NACCIT-Intake/internal/tree"
	"github.com/go-chi/chi/v5"
)

type stubSubmitter struct {
	result jira.Result
}

func (s *stubSubmitter) CreateIssue(_ context.Context, _, _ string) jira.Result {
	return s.result
}

type stubArchive struct {
	records []*domain.EscalationRecord
	pingErr error
	listErr error
}

func (s *stubArchive) Record(_ context.Context, rec *domain.EscalationRecord) error {
	s.records = append(s.records, rec)
	return nil
}

func (s *stubArchive) ListRecent(_ context.Context, limit int) ([]*domain.EscalationRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if limit > len(s.records) {
		limit = len(s.records)
	}
	return s.records[:limit], nil
}

func (s *stubArchive) Ping(_ context.Context) error { return s.pingErr }
func (s *stubArchive) Close() error                 { return nil }

func newTestRouter(submitter escalate.TicketSubmitter, archive *stubArchive) chi.Router {
	store := session.NewMemoryStore()
	eng := engine.New(store, tree.Default())

	cfg := escalate.Config{
		NotifyEmail:      "it@example.com",
		SubjectPrefix:    "[IT Intake]",
		LoginTicketURL:   "https://jira.example.com/servicedesk/login",
		LoginTicketLabel: "Open access ticket",
	}

	var h *IntakeHandler
	if archive != nil {
		h = NewIntakeHandler(eng, escalate.New(store, submitter, archive, cfg), archive)
	} else {
		h = NewIntakeHandler(eng, escalate.New(store, submitter, nil, cfg), nil)
	}

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var got map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return got
}

func validStart() map[string]string {
	return map[string]string{
		"name":    "Pat Doe",
		"email":   "pat@example.com",
		"slack":   "@pat",
		"summary": "Printer broken",
	}
}

func TestStartCreatesSession(t *testing.T) {
	r := newTestRouter(&stubSubmitter{}, nil)

	w := postJSON(t, r, "/api/start", validStart())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	got := decodeBody(t, w)
	sessionID, _ := got["sessionId"].(string)
	if len(sessionID) != 32 {
		t.Errorf("Expected 32-char session id, got %q", sessionID)
	}

	node, ok := got["node"].(map[string]interface{})
	if !ok {
		t.Fatal("expected node in response")
	}
	options, ok := node["options"].([]interface{})
	if !ok || len(options) != 5 {
		t.Errorf("Expected 5 start options, got %v", node["options"])
	}
	if _, exposed := options[0].(map[string]interface{})["next"]; exposed {
		t.Error("expected next references to stay server-side")
	}
}

func TestStartMissingFields(t *testing.T) {
	r := newTestRouter(&stubSubmitter{}, nil)

	w := postJSON(t, r, "/api/start", map[string]string{"name": "Pat"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if got := decodeBody(t, w); got["error"] != "Missing required fields." {
		t.Errorf("Unexpected error message: %v", got["error"])
	}
}

func TestStartInvalidBody(t *testing.T) {
	r := newTestRouter(&stubSubmitter{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/start", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestNextMissingSessionID(t *testing.T) {
	r := newTestRouter(&stubSubmitter{}, nil)

	w := postJSON(t, r, "/api/next", map[string]string{"choiceId": "login"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestNextUnknownSession(t *testing.T) {
	r := newTestRouter(&stubSubmitter{}, nil)

	w := postJSON(t, r, "/api/next", map[string]string{"sessionId": "missing", "choiceId": "login"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if got := decodeBody(t, w); got["error"] != "Session not found." {
		t.Errorf("Unexpected error message: %v", got["error"])
	}
}

func TestNextInvalidOption(t *testing.T) {
	r := newTestRouter(&stubSubmitter{}, nil)

	start := decodeBody(t, postJSON(t, r, "/api/start", validStart()))
	sessionID := start["sessionId"].(string)

	w := postJSON(t, r, "/api/next", map[string]string{"sessionId": sessionID, "choiceId": "bogus"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if got := decodeBody(t, w); got["error"] != "Invalid option." {
		t.Errorf("Unexpected error message: %v", got["error"])
	}
}

func TestEscalateUnknownSession(t *testing.T) {
	r := newTestRouter(&stubSubmitter{}, nil)

	w := postJSON(t, r, "/api/escalate", map[string]string{"sessionId": "missing"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestLoginPathEscalation(t *testing.T) {
	archive := &stubArchive{}
	r := newTestRouter(&stubSubmitter{result: jira.Result{Skipped: true, Reason: "Jira config incomplete"}}, archive)

	start := decodeBody(t, postJSON(t, r, "/api/start", validStart()))
	sessionID := start["sessionId"].(string)

	for _, choice := range []string{"login", "login_still", "login_more_still"} {
		w := postJSON(t, r, "/api/next", map[string]string{"sessionId": sessionID, "choiceId": choice})
		if w.Code != http.StatusOK {
			t.Fatalf("Advance %q failed with status %d: %s", choice, w.Code, w.Body.String())
		}
	}

	w := postJSON(t, r, "/api/escalate", map[string]string{"sessionId": sessionID})
	if w.Code != http.StatusOK {
		t.Fatalf("Escalate failed with status %d: %s", w.Code, w.Body.String())
	}
	got := decodeBody(t, w)

	if got["issueType"] != "login" {
		t.Errorf("Expected issue type login, got %v", got["issueType"])
	}

	email, _ := got["email"].(map[string]interface{})
	if email["skipped"] != true {
		t.Errorf("Expected email skipped, got %v", email)
	}

	jiraOut, _ := got["jira"].(map[string]interface{})
	if jiraOut["skipped"] != true {
		t.Errorf("Expected jira skipped, got %v", jiraOut)
	}

	template, _ := got["emailTemplate"].(map[string]interface{})
	subject, _ := template["subject"].(string)
	if !strings.Contains(subject, "Printer broken") {
		t.Errorf("Expected summary in subject, got %q", subject)
	}
	body, _ := template["body"].(string)
	for _, want := range []string{"Pat Doe", "USER:", "ASSISTANT:", "Selected: Login / Password"} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected body to contain %q", want)
		}
	}

	link, _ := got["ticketLink"].(map[string]interface{})
	if link["url"] != "https://jira.example.com/servicedesk/login" {
		t.Errorf("Expected login ticket link, got %v", got["ticketLink"])
	}

	if len(archive.records) != 1 {
		t.Errorf("Expected 1 archived record, got %d", len(archive.records))
	}

	// The session is spent; both further turns and repeat escalations fail.
	if w := postJSON(t, r, "/api/next", map[string]string{"sessionId": sessionID, "choiceId": "login"}); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 advancing escalated session, got %d", w.Code)
	}
	if w := postJSON(t, r, "/api/escalate", map[string]string{"sessionId": sessionID}); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on repeat escalation, got %d", w.Code)
	}
}

func TestEscalateBeforeAnyChoice(t *testing.T) {
	r := newTestRouter(&stubSubmitter{result: jira.Result{Skipped: true}}, nil)

	start := decodeBody(t, postJSON(t, r, "/api/start", validStart()))
	sessionID := start["sessionId"].(string)

	w := postJSON(t, r, "/api/escalate", map[string]string{"sessionId": sessionID})
	if w.Code != http.StatusOK {
		t.Fatalf("Escalate failed with status %d", w.Code)
	}
	if got := decodeBody(t, w); got["issueType"] != "general" {
		t.Errorf("Expected issue type general, got %v", got["issueType"])
	}
}

func TestEscalationsListing(t *testing.T) {
	archive := &stubArchive{records: []*domain.EscalationRecord{
		{ID: "rec1", SessionID: "sess1", IssueType: "hardware", CreatedAt: time.Now()},
	}}
	r := newTestRouter(&stubSubmitter{}, archive)

	req := httptest.NewRequest(http.MethodGet, "/api/escalations", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	got := decodeBody(t, w)
	recs, ok := got["escalations"].([]interface{})
	if !ok || len(recs) != 1 {
		t.Errorf("Expected 1 escalation, got %v", got["escalations"])
	}
}

func TestEscalationsInvalidLimit(t *testing.T) {
	r := newTestRouter(&stubSubmitter{}, &stubArchive{})

	for _, limit := range []string{"0", "-1", "501", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/escalations?limit="+limit, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for limit %q, got %d", limit, w.Code)
		}
	}
}

func TestEscalationsWithoutArchive(t *testing.T) {
	r := newTestRouter(&stubSubmitter{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/escalations", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	got := decodeBody(t, w)
	if recs, ok := got["escalations"].([]interface{}); !ok || len(recs) != 0 {
		t.Errorf("Expected empty escalations, got %v", got["escalations"])
	}
}
