package library

import "errors"

var (
	// ErrUnavailable is returned by Borrow when no copies are left on the shelf.
	ErrUnavailable = errors.New("no copies available")

	// ErrNoSuchLoan is returned by Return when the borrower holds no copy of the book.
	ErrNoSuchLoan = errors.New("no outstanding loan for borrower")

	// ErrNotFound is returned when a title lookup matches nothing.
	ErrNotFound = errors.New("book not found")

	// ErrAmbiguousTitle is returned by a title-only lookup when the title is
	// catalogued under more than one author.
	ErrAmbiguousTitle = errors.New("title is catalogued under several authors")

	// ErrInvalidQuantity is returned when a non-positive number of copies is added.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInvalidLoanPeriod is returned by Borrow for a negative loan period.
	ErrInvalidLoanPeriod = errors.New("loan period cannot be negative")

	// ErrCorruptStore is returned by Load when the persisted document exists
	// but cannot be read back into books.
	ErrCorruptStore = errors.New("library store is corrupt")
)
