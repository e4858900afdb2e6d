package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/dokushodb/booklog/internal/catalog"
)

// HandleBooks serves GET (filtered list) and POST (register) on /api/books.
func (h *Handler) HandleBooks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter := catalog.Filter{
			Keyword: r.URL.Query().Get("q"),
		}
		if tags := r.URL.Query().Get("tags"); tags != "" {
			filter.Tags = strings.Split(tags, ",")
		}
		if cats := r.URL.Query().Get("categories"); cats != "" {
			filter.Categories = strings.Split(cats, ",")
		}

		books, err := h.books.List(filter)
		if err != nil {
			h.writeError(w, "Failed to list books: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, books)

	case http.MethodPost:
		var book catalog.Book
		if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		added, err := h.books.Add(book)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}

		// Registration consumes the session's pending preview.
		if sess, ok := h.requestSession(r); ok {
			sess.Pending = nil
			h.sessions.Set(sess)
		}
		h.writeJSON(w, added)

	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleBookDetail serves PUT/DELETE on /api/books/{id} and POST on
// /api/books/{id}/cover for the cover re-fetch action.
func (h *Handler) HandleBookDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/books/")
	idStr, action, _ := strings.Cut(rest, "/")

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.writeError(w, "Invalid book ID", http.StatusBadRequest)
		return
	}

	if action == "cover" {
		h.handleCoverRefetch(w, r, id)
		return
	}
	if action != "" {
		h.writeError(w, "Not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		book, err := h.books.Get(id)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusNotFound)
			return
		}
		h.writeJSON(w, book)

	case http.MethodPut:
		var upd catalog.Book
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.books.Update(id, upd); err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.writeJSON(w, map[string]any{"updated": id})

	case http.MethodDelete:
		if err := h.books.Delete(id); err != nil {
			h.writeError(w, err.Error(), http.StatusNotFound)
			return
		}
		h.writeJSON(w, map[string]any{"deleted": id})

	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleCoverRefetch(w http.ResponseWriter, r *http.Request, id int64) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	book, err := h.books.Get(id)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	if book.ISBN == "" {
		h.writeError(w, "Book has no ISBN to re-fetch a cover for", http.StatusBadRequest)
		return
	}

	coverURL := h.resolver.BestCoverURL(r.Context(), book.ISBN)
	if coverURL == "" {
		h.writeError(w, "No cover image found", http.StatusNotFound)
		return
	}
	if err := h.books.UpdateCover(id, coverURL); err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, map[string]any{"cover_url": coverURL})
}
