package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cewiley/NACCIT-Intake/internal/domain"
	"github.com/cewiley/NACCIT-Intake/internal/engine"
	"github.com/cewiley/NACCIT-Intake/internal/escalate"
	"github.com/cewiley/NACCIT-Intake/internal/store"
	"github.com/go-chi/chi/v5"
)

// IntakeHandler exposes the session engine and escalation assembler over
// HTTP.
type IntakeHandler struct {
	engine    *engine.Engine
	assembler *escalate.Assembler
	archive   store.Archive
}

// NewIntakeHandler creates the intake handler. archive may be nil; the
// escalations listing then reports an empty result.
func NewIntakeHandler(eng *engine.Engine, asm *escalate.Assembler, archive store.Archive) *IntakeHandler {
	return &IntakeHandler{engine: eng, assembler: asm, archive: archive}
}

// RegisterRoutes registers the intake API routes.
func (h *IntakeHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/start", h.Start)
		r.Post("/next", h.Next)
		r.Post("/escalate", h.Escalate)
		r.Get("/escalations", h.Escalations)
	})
}

type startRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Slack   string `json:"slack"`
	Summary string `json:"summary"`
}

type nextRequest struct {
	SessionID string `json:"sessionId"`
	ChoiceID  string `json:"choiceId"`
	Message   string `json:"message"`
}

type escalateRequest struct {
	SessionID string `json:"sessionId"`
	Reason    string `json:"reason"`
}

// Start creates a new session from the intake form.
func (h *IntakeHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	sess, node, err := h.engine.Create(domain.Intake{
		Name:    req.Name,
		Email:   req.Email,
		Slack:   req.Slack,
		Summary: req.Summary,
	})
	if err != nil {
		EngineError(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"sessionId": sess.ID,
		"node":      node,
	})
}

// Next advances a session by a choice, a freeform message, or both.
func (h *IntakeHandler) Next(w http.ResponseWriter, r *http.Request) {
	var req nextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.SessionID == "" {
		Error(w, http.StatusBadRequest, "Missing sessionId.")
		return
	}

	node, err := h.engine.Advance(req.SessionID, req.ChoiceID, req.Message)
	if err != nil {
		EngineError(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"node": node})
}

// Escalate hands the session to the IT team.
func (h *IntakeHandler) Escalate(w http.ResponseWriter, r *http.Request) {
	var req escalateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.SessionID == "" {
		Error(w, http.StatusBadRequest, "Missing sessionId.")
		return
	}

	result, err := h.assembler.Escalate(r.Context(), req.SessionID, req.Reason)
	if err != nil {
		EngineError(w, err)
		return
	}

	JSON(w, http.StatusOK, result)
}

// Escalations lists recent escalation records for IT staff.
func (h *IntakeHandler) Escalations(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			Error(w, http.StatusBadRequest, "Invalid limit.")
			return
		}
		limit = n
	}

	if h.archive == nil {
		JSON(w, http.StatusOK, map[string]interface{}{"escalations": []struct{}{}})
		return
	}

	recs, err := h.archive.ListRecent(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to list escalations", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to list escalations.")
		return
	}
	if recs == nil {
		recs = []*domain.EscalationRecord{}
	}

	JSON(w, http.StatusOK, map[string]interface{}{"escalations": recs})
}
