package library

import (
	"fmt"
	"strings"
	"time"
)

// NewBook creates a catalog line with quantity copies on the shelf.
func NewBook(title, author string, quantity int) (*Book, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("new book %q: %w", title, ErrInvalidQuantity)
	}
	return &Book{Title: title, Author: author, AvailableCopies: quantity}, nil
}

// Borrow lends one copy to borrower for loanDays days counted from the
// calendar day of on; zero days means due the same day. A negative period
// returns ErrInvalidLoanPeriod. When no copy is on the shelf it returns
// ErrUnavailable and leaves the book untouched.
func (b *Book) Borrow(borrower string, loanDays int, on time.Time) (Loan, error) {
	if loanDays < 0 {
		return Loan{}, fmt.Errorf("borrow %q for %d days: %w", b.Title, loanDays, ErrInvalidLoanPeriod)
	}
	if b.AvailableCopies <= 0 {
		return Loan{}, fmt.Errorf("borrow %q: %w", b.Title, ErrUnavailable)
	}

	loan := Loan{
		BorrowerName: borrower,
		DueDate:      calendarDay(on).AddDate(0, 0, loanDays),
	}
	b.AvailableCopies--
	b.Loans = append(b.Loans, loan)
	return loan, nil
}

// Return takes back the first copy lent to borrower (case-insensitive).
// When the borrower holds none it returns ErrNoSuchLoan and leaves the book untouched.
func (b *Book) Return(borrower string) (Loan, error) {
	for i, loan := range b.Loans {
		if !strings.EqualFold(loan.BorrowerName, borrower) {
			continue
		}
		b.Loans = append(b.Loans[:i:i], b.Loans[i+1:]...)
		if len(b.Loans) == 0 {
			b.Loans = nil
		}
		b.AvailableCopies++
		return loan, nil
	}
	return Loan{}, fmt.Errorf("return %q by %s: %w", b.Title, borrower, ErrNoSuchLoan)
}

// AddCopies puts quantity more copies on the shelf.
func (b *Book) AddCopies(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("add copies to %q: %w", b.Title, ErrInvalidQuantity)
	}
	b.AvailableCopies += quantity
	return nil
}

// Describe returns a snapshot that shares no memory with the book.
func (b *Book) Describe() BookSnapshot {
	return BookSnapshot{
		Title:           b.Title,
		Author:          b.Author,
		AvailableCopies: b.AvailableCopies,
		Loans:           append([]Loan(nil), b.Loans...),
	}
}

// OverdueLoans lists the loans whose due date is before the calendar day of on.
func (b *Book) OverdueLoans(on time.Time) []Loan {
	today := calendarDay(on)
	var overdue []Loan
	for _, loan := range b.Loans {
		if loan.DueDate.Before(today) {
			overdue = append(overdue, loan)
		}
	}
	return overdue
}

// TotalCopies counts shelf and lent copies together.
func (b *Book) TotalCopies() int { return b.AvailableCopies + len(b.Loans) }

func (b *Book) clone() Book {
	c := *b
	c.Loans = append([]Loan(nil), b.Loans...)
	return c
}

func (b *Book) matches(title, author string) bool {
	return strings.EqualFold(b.Title, title) && strings.EqualFold(b.Author, author)
}
