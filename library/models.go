package library

import "time"

// DefaultLoanDays is the loan period used when the caller does not give one.
const DefaultLoanDays = 14

// dateLayout is the calendar-date format used for due dates everywhere.
const dateLayout = "2006-01-02"

// Book is one catalog line: a title by an author, the copies still on the
// shelf and the loans currently outstanding.
type Book struct {
	Title           string
	Author          string
	AvailableCopies int
	Loans           []Loan
}

// Loan is one copy out with a borrower.
type Loan struct {
	BorrowerName string
	DueDate      time.Time
}

// DueDateString formats the due date as YYYY-MM-DD.
func (l Loan) DueDateString() string { return l.DueDate.Format(dateLayout) }

// BookSnapshot is a read-only projection of a Book for display.
type BookSnapshot struct {
	Title           string
	Author          string
	AvailableCopies int
	Loans           []Loan
}

// calendarDay drops the clock part of t, keeping the date as seen in t's location.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}
