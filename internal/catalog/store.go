package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

// ParquetStore persists the catalog as two parquet files in a data
// directory. Replace rewrites the whole file; reads load the whole table.
type ParquetStore struct {
	dir string
}

type categoryRow struct {
	Name string `parquet:"name"`
}

func NewParquetStore(dir string) (*ParquetStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &ParquetStore{dir: dir}, nil
}

func (s *ParquetStore) booksPath() string      { return filepath.Join(s.dir, "books.parquet") }
func (s *ParquetStore) categoriesPath() string { return filepath.Join(s.dir, "categories.parquet") }

func (s *ParquetStore) Books() ([]Book, error) {
	path := s.booksPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return []Book{}, nil
	}

	books, err := parquet.ReadFile[Book](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read books table: %w", err)
	}
	return books, nil
}

func (s *ParquetStore) ReplaceBooks(books []Book) error {
	if err := parquet.WriteFile(s.booksPath(), books); err != nil {
		return fmt.Errorf("failed to write books table: %w", err)
	}
	return nil
}

func (s *ParquetStore) Categories() ([]string, error) {
	path := s.categoriesPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	rows, err := parquet.ReadFile[categoryRow](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories table: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	return names, nil
}

func (s *ParquetStore) ReplaceCategories(names []string) error {
	rows := make([]categoryRow, 0, len(names))
	for _, name := range names {
		rows = append(rows, categoryRow{Name: name})
	}
	if err := parquet.WriteFile(s.categoriesPath(), rows); err != nil {
		return fmt.Errorf("failed to write categories table: %w", err)
	}
	return nil
}
