package library

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// DefaultFile is where the JSON store lives unless configured otherwise.
const DefaultFile = "library.json"

// Store persists the whole collection. Save overwrites everything; there is
// no incremental update.
type Store interface {
	Load() ([]*Book, error)
	Save(books []*Book) error
	Close() error
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// bookRecord and loanRecord are the on-disk shape. Field names are the file
// format and must not change.
type bookRecord struct {
	Title    string       `json:"title"`
	Author   string       `json:"author"`
	Quantity int          `json:"quantity"`
	Borrowed []loanRecord `json:"borrowed"`
}

type loanRecord struct {
	Name    string `json:"name"`
	DueDate string `json:"due_date"`
}

func toRecords(books []*Book) []bookRecord {
	records := make([]bookRecord, 0, len(books))
	for _, b := range books {
		rec := bookRecord{
			Title:    b.Title,
			Author:   b.Author,
			Quantity: b.AvailableCopies,
			Borrowed: make([]loanRecord, 0, len(b.Loans)),
		}
		for _, l := range b.Loans {
			rec.Borrowed = append(rec.Borrowed, loanRecord{Name: l.BorrowerName, DueDate: l.DueDateString()})
		}
		records = append(records, rec)
	}
	return records
}

// compactLoans stores "no loans" as nil, the form Load and Book.Return produce.
func compactLoans(books []*Book) {
	for _, b := range books {
		if b != nil && len(b.Loans) == 0 {
			b.Loans = nil
		}
	}
}

func fromRecords(records []bookRecord) ([]*Book, error) {
	books := make([]*Book, 0, len(records))
	for i, rec := range records {
		if strings.TrimSpace(rec.Title) == "" {
			return nil, fmt.Errorf("entry %d: missing title: %w", i, ErrCorruptStore)
		}
		if rec.Quantity < 0 {
			return nil, fmt.Errorf("entry %d (%q): negative quantity %d: %w", i, rec.Title, rec.Quantity, ErrCorruptStore)
		}
		b := &Book{Title: rec.Title, Author: rec.Author, AvailableCopies: rec.Quantity}
		for j, lr := range rec.Borrowed {
			due, err := parseDate(lr.DueDate)
			if err != nil {
				return nil, fmt.Errorf("entry %d (%q) loan %d: bad due date %q: %w", i, rec.Title, j, lr.DueDate, ErrCorruptStore)
			}
			b.Loans = append(b.Loans, Loan{BorrowerName: lr.Name, DueDate: due})
		}
		books = append(books, b)
	}
	return books, nil
}

// JSONStore keeps the collection in a single JSON document.
type JSONStore struct {
	path string
}

// NewJSONStore does not touch the filesystem; a missing file is an empty library.
func NewJSONStore(path string) *JSONStore {
	if strings.TrimSpace(path) == "" {
		path = DefaultFile
	}
	return &JSONStore{path: path}
}

func (s *JSONStore) Path() string { return s.path }

// Load reads the document. A missing file yields an empty collection; a
// file that cannot be decoded yields ErrCorruptStore.
func (s *JSONStore) Load() ([]*Book, error) {
	data, err := os.ReadFile(filepath.Clean(s.path))
	if errors.Is(err, fs.ErrNotExist) {
		return []*Book{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%s is empty: %w", s.path, ErrCorruptStore)
	}

	var records []bookRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %v: %w", s.path, err, ErrCorruptStore)
	}
	books, err := fromRecords(records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return books, nil
}

// Save writes to a temp file next to the target and renames it into place,
// so a reader sees either the old document or the new one.
func (s *JSONStore) Save(books []*Book) error {
	compactLoans(books)
	data, err := json.Marshal(toRecords(books))
	if err != nil {
		return fmt.Errorf("encode library: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	// CreateTemp makes the file 0600; keep the mode the store already had.
	mode := os.FileMode(0o644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (s *JSONStore) Close() error { return nil }
