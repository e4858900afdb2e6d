package handlers

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
)

const maxUploadBytes = 10 * 1024 * 1024

// HandleScan accepts a barcode photograph, runs the decode cascade, and on
// success resolves metadata for the decoded ISBN. The resolved record is also
// stashed as the session's pending preview when a session is attached.
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(data) >= maxUploadBytes {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		h.writeError(w, "Unsupported image: "+err.Error(), http.StatusBadRequest)
		return
	}

	isbn, diags, ok := h.cascade.Decode(r.Context(), img, h.visionReader(r))
	if !ok {
		h.writeJSON(w, map[string]any{
			"found":       false,
			"diagnostics": diags,
		})
		return
	}

	record := h.resolver.Resolve(r.Context(), isbn)
	if sess, ok := h.requestSession(r); ok {
		sess.Pending = &record
		h.sessions.Set(sess)
	}

	slog.Info("Barcode scan resolved", "isbn", isbn, "title", record.Title)
	h.writeJSON(w, map[string]any{
		"found":       true,
		"isbn":        isbn,
		"record":      record,
		"diagnostics": diags,
	})
}
