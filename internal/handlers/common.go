// Package handlers exposes the booklog HTTP API: barcode scanning, metadata
// lookup, title search, and catalog CRUD.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/dokushodb/booklog/internal/catalog"
	"github.com/dokushodb/booklog/internal/metadata"
	"github.com/dokushodb/booklog/internal/scan"
	"github.com/dokushodb/booklog/internal/search"
	"github.com/dokushodb/booklog/internal/session"
)

type Handler struct {
	sessions    *session.Store
	books       *catalog.Service
	resolver    *metadata.Resolver
	engine      *search.Engine
	cascade     *scan.Cascade
	geminiModel string
}

func New(books *catalog.Service, resolver *metadata.Resolver, engine *search.Engine, geminiModel string) *Handler {
	return &Handler{
		sessions:    session.NewStore(),
		books:       books,
		resolver:    resolver,
		engine:      engine,
		cascade:     scan.NewCascade(scan.NewEAN13Decoder()),
		geminiModel: geminiModel,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// visionReader picks the Gemini credential for a request: the session's key
// when one is attached, otherwise the process environment. Nil disables the
// AI fallback.
func (h *Handler) visionReader(r *http.Request) scan.VisionReader {
	key := os.Getenv("GEMINI_API_KEY")
	if id := r.Header.Get("X-Session-ID"); id != "" {
		if sess, ok := h.sessions.Get(id); ok && sess.GeminiAPIKey != "" {
			key = sess.GeminiAPIKey
		}
	}
	if key == "" {
		return nil
	}
	return scan.NewGeminiReader(key, h.geminiModel)
}

// requestSession returns the session attached to the request, if any.
func (h *Handler) requestSession(r *http.Request) (*session.Session, bool) {
	id := r.Header.Get("X-Session-ID")
	if id == "" {
		return nil, false
	}
	return h.sessions.Get(id)
}
