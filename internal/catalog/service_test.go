package catalog

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	books      []Book
	categories []string
}

func (m *memStore) Books() ([]Book, error) { return append([]Book(nil), m.books...), nil }

func (m *memStore) ReplaceBooks(books []Book) error {
	m.books = append([]Book(nil), books...)
	return nil
}

func (m *memStore) Categories() ([]string, error) {
	return append([]string(nil), m.categories...), nil
}

func (m *memStore) ReplaceCategories(names []string) error {
	m.categories = append([]string(nil), names...)
	return nil
}

func newTestService(store *memStore) *Service {
	s := NewService(store)
	s.now = func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestAddAssignsNextID(t *testing.T) {
	store := &memStore{books: []Book{{ID: 3, Title: "existing"}, {ID: 7, Title: "existing"}}}
	svc := newTestService(store)

	book, err := svc.Add(Book{Title: "新しい本", Status: StatusUnread})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if book.ID != 8 {
		t.Errorf("Expected ID 8 (max+1), got %d", book.ID)
	}
	if book.CreatedAt != "2026-08-28 12:00:00" {
		t.Errorf("Unexpected created_at %q", book.CreatedAt)
	}
	if len(store.books) != 3 {
		t.Errorf("Expected 3 rows, got %d", len(store.books))
	}
}

func TestAddRequiresTitle(t *testing.T) {
	svc := newTestService(&memStore{})
	if _, err := svc.Add(Book{Title: "   "}); err == nil {
		t.Error("Expected validation error for empty title")
	}
}

func TestAddClearsReadDateUnlessDone(t *testing.T) {
	svc := newTestService(&memStore{})

	book, err := svc.Add(Book{Title: "a", Status: StatusReading, ReadDate: "2026-01-01"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if book.ReadDate != "" {
		t.Errorf("Expected read date cleared for %s, got %q", StatusReading, book.ReadDate)
	}

	book, err = svc.Add(Book{Title: "b", Status: StatusDone, ReadDate: "2026-01-01"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if book.ReadDate != "2026-01-01" {
		t.Errorf("Expected read date kept for %s, got %q", StatusDone, book.ReadDate)
	}
}

func TestUpdate(t *testing.T) {
	store := &memStore{books: []Book{{
		ID: 1, Title: "old", CoverURL: "http://cover/1.jpg", ISBN: "9784798132646", CreatedAt: "2026-01-01 00:00:00",
	}}}
	svc := newTestService(store)

	err := svc.Update(1, Book{Title: "new", Author: "author", Status: StatusDone, ReadDate: "2026-08-28"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	got := store.books[0]
	if got.Title != "new" || got.ReadDate != "2026-08-28" {
		t.Errorf("Unexpected row after update: %+v", got)
	}
	// Identity fields survive the edit.
	if got.CoverURL != "http://cover/1.jpg" || got.ISBN != "9784798132646" || got.CreatedAt != "2026-01-01 00:00:00" {
		t.Errorf("Expected cover/isbn/created_at preserved, got %+v", got)
	}

	if err := svc.Update(42, Book{Title: "x"}); err == nil {
		t.Error("Expected error for unknown ID")
	}
}

func TestUpdateCoverAndDelete(t *testing.T) {
	store := &memStore{books: []Book{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}}
	svc := newTestService(store)

	if err := svc.UpdateCover(2, "http://cover/2.jpg"); err != nil {
		t.Fatalf("UpdateCover: %v", err)
	}
	if store.books[1].CoverURL != "http://cover/2.jpg" {
		t.Errorf("Cover not updated: %+v", store.books[1])
	}

	if err := svc.Delete(1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.books) != 1 || store.books[0].ID != 2 {
		t.Errorf("Unexpected rows after delete: %+v", store.books)
	}
	if err := svc.Delete(99); err == nil {
		t.Error("Expected error deleting unknown ID")
	}
}

func TestListFilters(t *testing.T) {
	store := &memStore{books: []Book{
		{ID: 1, Title: "ゼロ・トゥ・ワン", Author: "ティール", Category: "ビジネス", Tags: "起業, AI", CreatedAt: "2026-01-01 00:00:00"},
		{ID: 2, Title: "Deep Learning", Author: "斎藤", Category: "技術書", Tags: "AI, Python", CreatedAt: "2026-02-01 00:00:00"},
		{ID: 3, Title: "三体", Author: "劉慈欣", Category: "小説", Tags: "SF", CreatedAt: "2026-03-01 00:00:00"},
	}}
	svc := newTestService(store)

	t.Run("no filter returns newest first", func(t *testing.T) {
		got, err := svc.List(Filter{})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 3 || got[0].ID != 3 {
			t.Errorf("Expected newest first, got %+v", got)
		}
	})

	t.Run("keyword matches title author tags notes", func(t *testing.T) {
		got, _ := svc.List(Filter{Keyword: "deep"})
		if len(got) != 1 || got[0].ID != 2 {
			t.Errorf("Expected book 2, got %+v", got)
		}
	})

	t.Run("tag filter is any-of", func(t *testing.T) {
		got, _ := svc.List(Filter{Tags: []string{"AI"}})
		if len(got) != 2 {
			t.Errorf("Expected 2 books tagged AI, got %d", len(got))
		}
	})

	t.Run("category filter", func(t *testing.T) {
		got, _ := svc.List(Filter{Categories: []string{"小説"}})
		if len(got) != 1 || got[0].ID != 3 {
			t.Errorf("Expected book 3, got %+v", got)
		}
	})
}

func TestCategoriesDefaultsAndMutation(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)

	names, err := svc.Categories()
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(names) != 4 || names[0] != "技術書" {
		t.Errorf("Expected default seed list, got %v", names)
	}

	if err := svc.AddCategory("歴史"); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	names, _ = svc.Categories()
	if names[len(names)-1] != "歴史" {
		t.Errorf("Expected 歴史 appended, got %v", names)
	}

	// Adding a duplicate is a no-op.
	before := len(names)
	if err := svc.AddCategory("歴史"); err != nil {
		t.Fatalf("AddCategory duplicate: %v", err)
	}
	names, _ = svc.Categories()
	if len(names) != before {
		t.Errorf("Expected no duplicate, got %v", names)
	}

	if err := svc.DeleteCategory("歴史"); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	names, _ = svc.Categories()
	for _, n := range names {
		if n == "歴史" {
			t.Errorf("Expected 歴史 removed, got %v", names)
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	store := &memStore{books: []Book{
		{ID: 1, Title: "ゼロ・トゥ・ワン", Author: "ティール", Category: "ビジネス", Status: StatusDone, ReadDate: "2026-08-01", ISBN: "9784798132646", CreatedAt: "2026-08-01 10:00:00"},
	}}
	svc := newTestService(store)

	var buf bytes.Buffer
	if err := svc.ExportCSV(&buf); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "id,title,author,") {
		t.Errorf("Expected header row, got %q", out)
	}
	if !strings.Contains(out, "ゼロ・トゥ・ワン") {
		t.Errorf("Expected exported row, got %q", out)
	}

	// Import into a fresh catalog; IDs are reassigned.
	store2 := &memStore{books: []Book{{ID: 5, Title: "existing"}}}
	svc2 := newTestService(store2)
	n, err := svc2.ImportCSV(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if n != 1 {
		t.Fatalf("Expected 1 imported row, got %d", n)
	}
	imported := store2.books[1]
	if imported.ID != 6 {
		t.Errorf("Expected reassigned ID 6, got %d", imported.ID)
	}
	if imported.Title != "ゼロ・トゥ・ワン" || imported.ISBN != "9784798132646" {
		t.Errorf("Unexpected imported row: %+v", imported)
	}
}

func TestImportCSVSkipsUntitledRows(t *testing.T) {
	svc := newTestService(&memStore{})
	csv := "id,title,author\n1,,nobody\n2,Real Book,someone\n"

	n, err := svc.ImportCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 imported row, got %d", n)
	}
}
