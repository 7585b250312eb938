// Package chat provides a WebSocket transport for the intake session
// contract, for clients that keep a socket open instead of polling the
// JSON endpoints. Sessions are still created over POST /api/start; the
// socket carries the walk and the escalation.
package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cewiley/NACCIT-Intake/internal/engine"
	"github.com/cewiley/NACCIT-Intake/internal/escalate"
	"github.com/coder/websocket"
)

// WebSocketHandler serves /ws/chat.
type WebSocketHandler struct {
	engine        *engine.Engine
	assembler     *escalate.Assembler
	allowedOrigin string
	isDev         bool
}

// NewWebSocketHandler creates a new WebSocket chat handler.
func NewWebSocketHandler(eng *engine.Engine, asm *escalate.Assembler, allowedOrigin string, isDev bool) *WebSocketHandler {
	return &WebSocketHandler{
		engine:        eng,
		assembler:     asm,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// wsRequest is one client frame.
type wsRequest struct {
	Type     string `json:"type"` // "choice", "message", "escalate", "ping"
	ChoiceID string `json:"choiceId,omitempty"`
	Message  string `json:"message,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade. The session id
// comes from the sessionId query parameter and is fixed for the life of
// the connection.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "missing sessionId", http.StatusBadRequest)
		return
	}

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "session_id", sessionID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "session_id", sessionID)
		}
	}()

	slog.Info("WebSocket chat connected", "session_id", sessionID, "ip", r.RemoteAddr)
	h.readLoop(r.Context(), ws, sessionID)
	slog.Info("WebSocket chat ended", "session_id", sessionID)
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" || origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

func (h *WebSocketHandler) readLoop(ctx context.Context, ws *websocket.Conn, sessionID string) {
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "session_id", sessionID)
			} else {
				slog.Warn("WebSocket read error", "error", err, "session_id", sessionID)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(data, &req); err != nil {
			h.writeJSON(ws, map[string]string{"type": "error", "error": "invalid frame"})
			continue
		}

		switch req.Type {
		case "choice", "message":
			node, err := h.engine.Advance(sessionID, req.ChoiceID, req.Message)
			if err != nil {
				h.writeJSON(ws, map[string]string{"type": "error", "error": err.Error()})
				continue
			}
			h.writeJSON(ws, map[string]interface{}{"type": "node", "node": node})
		case "escalate":
			result, err := h.assembler.Escalate(ctx, sessionID, req.Reason)
			if err != nil {
				h.writeJSON(ws, map[string]string{"type": "error", "error": err.Error()})
				continue
			}
			h.writeJSON(ws, map[string]interface{}{"type": "escalation", "result": result})
		case "ping":
			h.writeJSON(ws, map[string]string{"type": "pong"})
		default:
			h.writeJSON(ws, map[string]string{"type": "error", "error": "unknown frame type"})
		}
	}
}

func (h *WebSocketHandler) writeJSON(ws *websocket.Conn, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Debug("Failed to marshal websocket frame", "error", err)
		return
	}
	if err := ws.Write(context.Background(), websocket.MessageText, data); err != nil {
		slog.Debug("WebSocket write error", "error", err)
	}
}
