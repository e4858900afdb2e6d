package handlers

import (
	"encoding/json"
	"net/http"
)

// HandleCategories serves GET, POST and DELETE on /api/categories.
func (h *Handler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		names, err := h.books.Categories()
		if err != nil {
			h.writeError(w, "Failed to list categories: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, names)

	case http.MethodPost, http.MethodDelete:
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		var err error
		if r.Method == http.MethodPost {
			err = h.books.AddCategory(req.Name)
		} else {
			err = h.books.DeleteCategory(req.Name)
		}
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}

		names, err := h.books.Categories()
		if err != nil {
			h.writeError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, names)

	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
