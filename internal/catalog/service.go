package catalog

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// defaultCategories seed an empty catalog.
var defaultCategories = []string{"技術書", "ビジネス", "小説", "その他"}

// Service implements catalog operations on top of a whole-table Store.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Filter narrows List results. Zero value matches everything.
type Filter struct {
	Keyword    string
	Tags       []string
	Categories []string
}

// List returns books matching the filter, newest first.
func (s *Service) List(f Filter) ([]Book, error) {
	books, err := s.store.Books()
	if err != nil {
		return nil, err
	}

	keyword := strings.ToLower(strings.TrimSpace(f.Keyword))
	catSet := map[string]bool{}
	for _, c := range f.Categories {
		catSet[c] = true
	}

	var out []Book
	for _, b := range books {
		if keyword != "" {
			hay := strings.ToLower(b.Title + " " + b.Author + " " + b.Tags + " " + b.Notes)
			if !strings.Contains(hay, keyword) {
				continue
			}
		}
		if len(f.Tags) > 0 && !hasAnyTag(b.Tags, f.Tags) {
			continue
		}
		if len(catSet) > 0 && !catSet[b.Category] {
			continue
		}
		out = append(out, b)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out, nil
}

// hasAnyTag is OR logic: the book shows if it carries any selected tag.
func hasAnyTag(tagsField string, wanted []string) bool {
	have := map[string]bool{}
	for _, t := range strings.Split(tagsField, ",") {
		if t = strings.TrimSpace(t); t != "" {
			have[t] = true
		}
	}
	for _, w := range wanted {
		if have[strings.TrimSpace(w)] {
			return true
		}
	}
	return false
}

// Add registers a book, assigning max-existing-plus-one as the ID and
// stamping created_at. An empty title is a validation failure.
func (s *Service) Add(book Book) (Book, error) {
	if strings.TrimSpace(book.Title) == "" {
		return Book{}, fmt.Errorf("title is required")
	}

	books, err := s.store.Books()
	if err != nil {
		return Book{}, err
	}

	book.ID = nextID(books)
	book.CreatedAt = s.now().Format("2006-01-02 15:04:05")
	if book.Status != StatusDone {
		book.ReadDate = ""
	}

	books = append(books, book)
	if err := s.store.ReplaceBooks(books); err != nil {
		return Book{}, err
	}

	slog.Info("Book registered", "id", book.ID, "title", book.Title, "isbn", book.ISBN)
	return book, nil
}

func nextID(books []Book) int64 {
	var max int64
	for _, b := range books {
		if b.ID > max {
			max = b.ID
		}
	}
	return max + 1
}

// Update edits the editable fields of an existing row. Cover URL, ISBN and
// created_at are preserved.
func (s *Service) Update(id int64, upd Book) error {
	if strings.TrimSpace(upd.Title) == "" {
		return fmt.Errorf("title is required")
	}

	books, err := s.store.Books()
	if err != nil {
		return err
	}

	for i := range books {
		if books[i].ID != id {
			continue
		}
		books[i].Title = upd.Title
		books[i].Author = upd.Author
		books[i].Category = upd.Category
		books[i].Tags = upd.Tags
		books[i].Status = upd.Status
		books[i].Notes = upd.Notes
		if upd.Status == StatusDone {
			books[i].ReadDate = upd.ReadDate
		} else {
			books[i].ReadDate = ""
		}
		return s.store.ReplaceBooks(books)
	}
	return fmt.Errorf("book %d not found", id)
}

// UpdateCover replaces only the cover URL of an existing row.
func (s *Service) UpdateCover(id int64, coverURL string) error {
	books, err := s.store.Books()
	if err != nil {
		return err
	}
	for i := range books {
		if books[i].ID == id {
			books[i].CoverURL = coverURL
			return s.store.ReplaceBooks(books)
		}
	}
	return fmt.Errorf("book %d not found", id)
}

func (s *Service) Get(id int64) (Book, error) {
	books, err := s.store.Books()
	if err != nil {
		return Book{}, err
	}
	for _, b := range books {
		if b.ID == id {
			return b, nil
		}
	}
	return Book{}, fmt.Errorf("book %d not found", id)
}

func (s *Service) Delete(id int64) error {
	books, err := s.store.Books()
	if err != nil {
		return err
	}

	out := books[:0]
	for _, b := range books {
		if b.ID != id {
			out = append(out, b)
		}
	}
	if len(out) == len(books) {
		return fmt.Errorf("book %d not found", id)
	}
	return s.store.ReplaceBooks(out)
}

// Categories returns the category list, seeding defaults when empty.
func (s *Service) Categories() ([]string, error) {
	names, err := s.store.Categories()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return append([]string(nil), defaultCategories...), nil
	}
	return names, nil
}

func (s *Service) AddCategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("category name is required")
	}

	names, err := s.Categories()
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == name {
			return nil
		}
	}
	return s.store.ReplaceCategories(append(names, name))
}

func (s *Service) DeleteCategory(name string) error {
	names, err := s.Categories()
	if err != nil {
		return err
	}

	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return s.store.ReplaceCategories(out)
}
