package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

// HandleSessions creates a resolution session. The optional Gemini key is
// held on the session only, never persisted.
func (h *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		GeminiAPIKey string `json:"gemini_api_key"`
	}
	if r.Body != nil {
		// An empty body is fine; the session just has no AI credential.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	sess := h.sessions.Create(req.GeminiAPIKey)
	h.writeJSON(w, map[string]any{
		"session_id": sess.ID,
		"ai_enabled": sess.GeminiAPIKey != "",
	})
}

// HandleSessionDetail serves GET and DELETE on /api/sessions/{id}.
func (h *Handler) HandleSessionDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/sessions/")

	sess, ok := h.sessions.Get(id)
	if !ok {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, sess)
	case http.MethodDelete:
		h.sessions.Delete(id)
		h.writeJSON(w, map[string]any{"deleted": id})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
