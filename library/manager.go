package library

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// LibraryManager is a thin façade over the Catalog and its Store, keeping CLI
// code simple. Every mutation is followed by a full Save; if the Save fails
// the mutation is undone so memory and disk stay in step.
type LibraryManager struct {
	store    Store
	catalog  *Catalog
	log      *slog.Logger
	now      func() time.Time
	loanDays int
}

// Option configures a LibraryManager.
type Option func(*LibraryManager)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(lm *LibraryManager) { lm.log = l }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(lm *LibraryManager) { lm.now = now }
}

// WithLoanDays sets the loan period used when Borrow is called with days <= 0.
func WithLoanDays(days int) Option {
	return func(lm *LibraryManager) {
		if days > 0 {
			lm.loanDays = days
		}
	}
}

// NewLibraryManager loads the catalog from store.
func NewLibraryManager(store Store, opts ...Option) (*LibraryManager, error) {
	lm := &LibraryManager{
		store:    store,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		loanDays: DefaultLoanDays,
	}
	for _, opt := range opts {
		opt(lm)
	}

	books, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}
	lm.catalog = NewCatalog(books)
	lm.log.Debug("library loaded", slog.Int("books", lm.catalog.Len()))
	return lm, nil
}

// Close closes the underlying store.
func (lm *LibraryManager) Close() error { return lm.store.Close() }

// LoanDays is the default loan period in effect.
func (lm *LibraryManager) LoanDays() int { return lm.loanDays }

// ------------------ Reads ------------------

func (lm *LibraryManager) Books() []BookSnapshot { return snapshots(lm.catalog.Books()) }

func (lm *LibraryManager) Search(q string) []BookSnapshot { return snapshots(lm.catalog.Search(q)) }

// FindByTitle resolves a title (and optionally an author) to a single book.
func (lm *LibraryManager) FindByTitle(title, author string) (BookSnapshot, error) {
	b, err := lm.catalog.Lookup(title, author)
	if err != nil {
		return BookSnapshot{}, err
	}
	return b.Describe(), nil
}

// OverdueLoan pairs a late loan with the book it belongs to.
type OverdueLoan struct {
	Title  string
	Author string
	Loan   Loan
}

// Overdue lists every loan due before today.
func (lm *LibraryManager) Overdue() []OverdueLoan {
	today := lm.now()
	var out []OverdueLoan
	for _, b := range lm.catalog.Books() {
		for _, l := range b.OverdueLoans(today) {
			out = append(out, OverdueLoan{Title: b.Title, Author: b.Author, Loan: l})
		}
	}
	return out
}

// ------------------ Circulation ------------------

// Borrow lends a copy of the book to borrower. days <= 0 uses the manager's loan period.
func (lm *LibraryManager) Borrow(title, author, borrower string, days int) (Loan, error) {
	b, err := lm.catalog.Lookup(title, author)
	if err != nil {
		return Loan{}, err
	}
	if days <= 0 {
		days = lm.loanDays
	}

	prev := b.clone()
	loan, err := b.Borrow(borrower, days, lm.now())
	if err != nil {
		return Loan{}, err
	}
	if err := lm.save(); err != nil {
		*b = prev
		return Loan{}, err
	}

	lm.log.Info("book borrowed",
		slog.String("title", b.Title),
		slog.String("author", b.Author),
		slog.String("borrower", borrower),
		slog.String("due", loan.DueDateString()),
	)
	return loan, nil
}

// Return takes back the copy held by borrower.
func (lm *LibraryManager) Return(title, author, borrower string) (Loan, error) {
	b, err := lm.catalog.Lookup(title, author)
	if err != nil {
		return Loan{}, err
	}

	prev := b.clone()
	loan, err := b.Return(borrower)
	if err != nil {
		return Loan{}, err
	}
	if err := lm.save(); err != nil {
		*b = prev
		return Loan{}, err
	}

	lm.log.Info("book returned",
		slog.String("title", b.Title),
		slog.String("author", b.Author),
		slog.String("borrower", loan.BorrowerName),
	)
	return loan, nil
}

// AddBook adds quantity copies, merging into an existing (title, author)
// line when there is one. merged reports whether it did.
func (lm *LibraryManager) AddBook(title, author string, quantity int) (snap BookSnapshot, merged bool, err error) {
	var prev Book
	if existing, findErr := lm.catalog.Find(title, author); findErr == nil {
		prev = existing.clone()
	}

	b, merged, err := lm.catalog.Add(title, author, quantity)
	if err != nil {
		return BookSnapshot{}, false, err
	}
	if err := lm.save(); err != nil {
		if merged {
			*b = prev
		} else {
			lm.catalog.dropLast()
		}
		return BookSnapshot{}, false, err
	}

	lm.log.Info("copies added",
		slog.String("title", b.Title),
		slog.String("author", b.Author),
		slog.Int("quantity", quantity),
		slog.Bool("merged", merged),
	)
	return b.Describe(), merged, nil
}

func (lm *LibraryManager) save() error {
	if err := lm.store.Save(lm.catalog.Books()); err != nil {
		lm.log.Error("save failed", slog.Any("error", err))
		return fmt.Errorf("save library: %w", err)
	}
	return nil
}

func snapshots(books []*Book) []BookSnapshot {
	out := make([]BookSnapshot, 0, len(books))
	for _, b := range books {
		out = append(out, b.Describe())
	}
	return out
}
