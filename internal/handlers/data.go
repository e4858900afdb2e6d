package handlers

import (
	"net/http"
)

// HandleExport streams the whole catalog as CSV.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="booklog_export.csv"`)
	if err := h.books.ExportCSV(w); err != nil {
		h.writeError(w, "Export failed: "+err.Error(), http.StatusInternalServerError)
	}
}

// HandleImport appends rows from an uploaded CSV file to the catalog.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
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

	n, err := h.books.ImportCSV(file)
	if err != nil {
		h.writeError(w, "Import failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, map[string]any{"imported": n})
}
