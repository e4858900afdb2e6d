package handlers

import (
	"net/http"
	"strconv"

	"github.com/dokushodb/booklog/internal/isbn"
)

// HandleLookup resolves metadata for an ISBN passed as ?isbn=.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw := r.URL.Query().Get("isbn")
	if isbn.Normalize(raw) == "" {
		h.writeError(w, "isbn query parameter is required", http.StatusBadRequest)
		return
	}

	record := h.resolver.Resolve(r.Context(), raw)
	if sess, ok := h.requestSession(r); ok {
		sess.Pending = &record
		h.sessions.Set(sess)
	}
	h.writeJSON(w, record)
}

// HandleSearch runs a free-text title search, ?q= with optional ?start=.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}

	start := 0
	if v := r.URL.Query().Get("start"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.writeError(w, "start must be a non-negative integer", http.StatusBadRequest)
			return
		}
		start = n
	}

	candidates, diags := h.engine.Search(r.Context(), query, start)
	h.writeJSON(w, map[string]any{
		"candidates":  candidates,
		"diagnostics": diags,
	})
}
