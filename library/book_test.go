package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, time.March, 1, 15, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBorrowReturnScenario(t *testing.T) {
	b := &Book{Title: "Dune", Author: "Herbert", AvailableCopies: 2}
	due := date(2024, time.March, 15)

	loan, err := b.Borrow("Sam", 14, day)
	require.NoError(t, err)
	assert.Equal(t, Loan{BorrowerName: "Sam", DueDate: due}, loan)
	assert.Equal(t, 1, b.AvailableCopies)
	assert.Equal(t, []Loan{{BorrowerName: "Sam", DueDate: due}}, b.Loans)

	_, err = b.Borrow("Lee", 14, day)
	require.NoError(t, err)
	assert.Equal(t, 0, b.AvailableCopies)

	before := b.clone()
	_, err = b.Borrow("Kim", 14, day)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, before, *b)

	returned, err := b.Return("sam")
	require.NoError(t, err)
	assert.Equal(t, "Sam", returned.BorrowerName)
	assert.Equal(t, 1, b.AvailableCopies)
	assert.Equal(t, []Loan{{BorrowerName: "Lee", DueDate: due}}, b.Loans)
}

func TestBorrowHonoursGivenLoanPeriod(t *testing.T) {
	tests := []struct {
		name string
		days int
		want string
	}{
		{name: "due today", days: 0, want: "2024-03-01"},
		{name: "one day", days: 1, want: "2024-03-02"},
		{name: "default", days: DefaultLoanDays, want: "2024-03-15"},
		{name: "month end", days: 30, want: "2024-03-31"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := &Book{Title: "Emma", AvailableCopies: 1}
			loan, err := b.Borrow("Ann", tc.days, day)
			require.NoError(t, err)
			assert.Equal(t, tc.want, loan.DueDateString())
		})
	}
}

func TestBorrowRejectsNegativeLoanPeriod(t *testing.T) {
	b := &Book{Title: "Emma", AvailableCopies: 1}
	before := b.clone()

	_, err := b.Borrow("Ann", -3, day)
	assert.ErrorIs(t, err, ErrInvalidLoanPeriod)
	assert.Equal(t, before, *b)
}

func TestBorrowUsesCalendarDayOfCaller(t *testing.T) {
	tz := time.FixedZone("UTC+10", 10*60*60)
	late := time.Date(2024, time.March, 1, 23, 0, 0, 0, tz)
	b := &Book{Title: "Emma", AvailableCopies: 1}

	loan, err := b.Borrow("Ann", 1, late)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", loan.DueDateString())
}

func TestBorrowAndReturnKeepTotal(t *testing.T) {
	b := &Book{Title: "Ulysses", AvailableCopies: 3}
	total := b.TotalCopies()

	for _, name := range []string{"a", "b", "c"} {
		_, err := b.Borrow(name, 7, day)
		require.NoError(t, err)
		assert.Equal(t, total, b.TotalCopies())
	}
	for _, name := range []string{"B", "A", "C"} {
		_, err := b.Return(name)
		require.NoError(t, err)
		assert.Equal(t, total, b.TotalCopies())
	}
	assert.Equal(t, 3, b.AvailableCopies)
	assert.Nil(t, b.Loans)
}

func TestReturnCaseInsensitive(t *testing.T) {
	b := &Book{Title: "Dune", AvailableCopies: 1}
	_, err := b.Borrow("Alice", 14, day)
	require.NoError(t, err)

	_, err = b.Return("ALICE")
	require.NoError(t, err)
	assert.Equal(t, 1, b.AvailableCopies)
	assert.Empty(t, b.Loans)
}

func TestReturnRemovesOnlyFirstMatch(t *testing.T) {
	b := &Book{Title: "Dune", AvailableCopies: 2}
	_, _ = b.Borrow("Alice", 7, day)
	_, _ = b.Borrow("alice", 21, day)

	loan, err := b.Return("Alice")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", loan.DueDateString())
	require.Len(t, b.Loans, 1)
	assert.Equal(t, "alice", b.Loans[0].BorrowerName)
	assert.Equal(t, "2024-03-22", b.Loans[0].DueDateString())
}

func TestReturnNoSuchLoan(t *testing.T) {
	b := &Book{Title: "Dune", AvailableCopies: 1}
	_, _ = b.Borrow("Alice", 14, day)
	before := b.clone()

	_, err := b.Return("Bob")
	assert.ErrorIs(t, err, ErrNoSuchLoan)
	assert.Equal(t, before, *b)
}

func TestAddCopies(t *testing.T) {
	b := &Book{Title: "Dune", AvailableCopies: 2, Loans: []Loan{{BorrowerName: "Sam", DueDate: date(2024, 3, 15)}}}

	require.NoError(t, b.AddCopies(3))
	assert.Equal(t, 5, b.AvailableCopies)
	assert.Len(t, b.Loans, 1)

	assert.ErrorIs(t, b.AddCopies(0), ErrInvalidQuantity)
	assert.ErrorIs(t, b.AddCopies(-1), ErrInvalidQuantity)
	assert.Equal(t, 5, b.AvailableCopies)
}

func TestNewBookRejectsNonPositive(t *testing.T) {
	_, err := NewBook("Dune", "Herbert", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestDescribeIsACopy(t *testing.T) {
	b := &Book{Title: "Dune", Author: "Herbert", AvailableCopies: 1}
	_, _ = b.Borrow("Sam", 14, day)

	snap := b.Describe()
	snap.Loans[0].BorrowerName = "changed"
	snap.AvailableCopies = 99

	assert.Equal(t, "Sam", b.Loans[0].BorrowerName)
	assert.Equal(t, 0, b.AvailableCopies)
}

func TestOverdueLoans(t *testing.T) {
	b := &Book{Title: "Dune", Loans: []Loan{
		{BorrowerName: "early", DueDate: date(2024, 2, 28)},
		{BorrowerName: "today", DueDate: date(2024, 3, 1)},
		{BorrowerName: "later", DueDate: date(2024, 3, 10)},
	}}

	overdue := b.OverdueLoans(day)
	require.Len(t, overdue, 1)
	assert.Equal(t, "early", overdue[0].BorrowerName)
}
