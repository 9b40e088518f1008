package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps the collection in an SQLite file. It honours the same
// contract as JSONStore: Save replaces everything, Load returns what the last
// Save wrote.
type SQLiteStore struct {
	db *sql.DB

	insertBookStmt *sql.Stmt
	insertLoanStmt *sql.Stmt
}

// NewSQLiteStore opens (or creates) the SQLite database at dbPath, applies
// the schema, and prepares the insert statements.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.prepareStatements(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// Close releases prepared statements and closes the DB.
func (s *SQLiteStore) Close() error {
	if s.insertBookStmt != nil {
		s.insertBookStmt.Close()
	}
	if s.insertLoanStmt != nil {
		s.insertLoanStmt.Close()
	}
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return fmt.Errorf("create meta: %w", err)
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            position INTEGER PRIMARY KEY,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity >= 0)
        );`,
		`CREATE TABLE IF NOT EXISTS loans (
            book_position INTEGER NOT NULL REFERENCES books(position) ON DELETE CASCADE,
            seq INTEGER NOT NULL,
            name TEXT NOT NULL,
            due_date TEXT NOT NULL,
            PRIMARY KEY (book_position, seq)
        );`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) prepareStatements() error {
	var err error
	if s.insertBookStmt, err = s.db.Prepare(`INSERT INTO books(position,title,author,quantity) VALUES(?,?,?,?)`); err != nil {
		return err
	}
	if s.insertLoanStmt, err = s.db.Prepare(`INSERT INTO loans(book_position,seq,name,due_date) VALUES(?,?,?,?)`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

// Load returns the books in the order they were saved. An empty database is
// an empty library.
func (s *SQLiteStore) Load() ([]*Book, error) {
	rows, err := s.db.Query(`SELECT position,title,author,quantity FROM books ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books := []*Book{}
	byPosition := map[int64]*Book{}
	for rows.Next() {
		var (
			pos int64
			b   Book
		)
		if err := rows.Scan(&pos, &b.Title, &b.Author, &b.AvailableCopies); err != nil {
			return nil, fmt.Errorf("scan book: %v: %w", err, ErrCorruptStore)
		}
		books = append(books, &b)
		byPosition[pos] = &b
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	loanRows, err := s.db.Query(`SELECT book_position,name,due_date FROM loans ORDER BY book_position, seq`)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer loanRows.Close()

	for loanRows.Next() {
		var (
			pos       int64
			name, due string
		)
		if err := loanRows.Scan(&pos, &name, &due); err != nil {
			return nil, fmt.Errorf("scan loan: %v: %w", err, ErrCorruptStore)
		}
		b, ok := byPosition[pos]
		if !ok {
			return nil, fmt.Errorf("loan for unknown book %d: %w", pos, ErrCorruptStore)
		}
		dueDate, err := parseDate(due)
		if err != nil {
			return nil, fmt.Errorf("loan of %q: bad due date %q: %w", b.Title, due, ErrCorruptStore)
		}
		b.Loans = append(b.Loans, Loan{BorrowerName: name, DueDate: dueDate})
	}
	return books, loanRows.Err()
}

// Save replaces both tables in one transaction.
func (s *SQLiteStore) Save(books []*Book) error {
	compactLoans(books)
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM loans`); err != nil {
		return fmt.Errorf("clear loans: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM books`); err != nil {
		return fmt.Errorf("clear books: %w", err)
	}

	insertBook := tx.Stmt(s.insertBookStmt)
	insertLoan := tx.Stmt(s.insertLoanStmt)
	for i, b := range books {
		if _, err := insertBook.Exec(i, b.Title, b.Author, b.AvailableCopies); err != nil {
			return fmt.Errorf("insert %q: %w", b.Title, err)
		}
		for j, l := range b.Loans {
			if _, err := insertLoan.Exec(i, j, l.BorrowerName, l.DueDateString()); err != nil {
				return fmt.Errorf("insert loan of %q: %w", b.Title, err)
			}
		}
	}
	return tx.Commit()
}
