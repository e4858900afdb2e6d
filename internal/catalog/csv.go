package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{
	"id", "title", "author", "category", "tags", "status",
	"notes", "cover_url", "read_date", "isbn", "created_at",
}

// ExportCSV writes the full catalog to w, header first.
func (s *Service) ExportCSV(w io.Writer) error {
	books, err := s.store.Books()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, b := range books {
		row := []string{
			strconv.FormatInt(b.ID, 10), b.Title, b.Author, b.Category, b.Tags,
			b.Status, b.Notes, b.CoverURL, b.ReadDate, b.ISBN, b.CreatedAt,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV appends rows from r to the catalog. Imported rows get fresh IDs;
// the id column in the file is ignored.
func (s *Service) ImportCSV(r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) < 2 {
		return 0, nil
	}

	col := map[string]int{}
	for i, name := range records[0] {
		col[name] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	books, err := s.store.Books()
	if err != nil {
		return 0, err
	}

	imported := 0
	id := nextID(books)
	for _, row := range records[1:] {
		title := field(row, "title")
		if title == "" {
			continue
		}
		created := field(row, "created_at")
		if created == "" {
			created = s.now().Format("2006-01-02 15:04:05")
		}
		books = append(books, Book{
			ID:        id,
			Title:     title,
			Author:    field(row, "author"),
			Category:  field(row, "category"),
			Tags:      field(row, "tags"),
			Status:    field(row, "status"),
			Notes:     field(row, "notes"),
			CoverURL:  field(row, "cover_url"),
			ReadDate:  field(row, "read_date"),
			ISBN:      field(row, "isbn"),
			CreatedAt: created,
		})
		id++
		imported++
	}

	if imported == 0 {
		return 0, nil
	}
	if err := s.store.ReplaceBooks(books); err != nil {
		return 0, err
	}
	return imported, nil
}
