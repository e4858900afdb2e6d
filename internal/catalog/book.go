// Package catalog manages the personal book table. The backing store uses
// whole-table read/replace semantics: every mutation reads the full table,
// rewrites it, and the last writer wins.
package catalog

// Reading status values, kept as the Japanese labels the UI renders.
const (
	StatusUnread  = "未読"
	StatusReading = "読書中"
	StatusDone    = "読了"
)

// Book is one catalog row.
type Book struct {
	ID        int64  `json:"id" parquet:"id"`
	Title     string `json:"title" parquet:"title"`
	Author    string `json:"author" parquet:"author"`
	Category  string `json:"category" parquet:"category"`
	Tags      string `json:"tags" parquet:"tags"`
	Status    string `json:"status" parquet:"status"`
	Notes     string `json:"notes" parquet:"notes"`
	CoverURL  string `json:"cover_url" parquet:"cover_url"`
	ReadDate  string `json:"read_date" parquet:"read_date"`
	ISBN      string `json:"isbn" parquet:"isbn"`
	CreatedAt string `json:"created_at" parquet:"created_at"`
}

// Store is the whole-table collaborator contract.
type Store interface {
	Books() ([]Book, error)
	ReplaceBooks(books []Book) error
	Categories() ([]string, error)
	ReplaceCategories(names []string) error
}
