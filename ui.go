package main

import (
	"fmt"
	"io"
	"strings"

	"library-lending/library"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func heading(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf(format, args...)))
}

func success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf(format, args...)))
}

func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf(format, args...)))
}

func failure(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf(format, args...)))
}

func printBook(w io.Writer, b library.BookSnapshot) {
	fmt.Fprintf(w, "Title: %s\n", b.Title)
	fmt.Fprintf(w, "Author: %s\n", b.Author)
	fmt.Fprintf(w, "Available Copies: %d\n", b.AvailableCopies)
	if len(b.Loans) > 0 {
		fmt.Fprintln(w, "Borrowed Copies:")
		for _, l := range b.Loans {
			fmt.Fprintf(w, "  Borrower: %s, Due Date: %s\n", l.BorrowerName, l.DueDateString())
		}
	}
	fmt.Fprintln(w, dimStyle.Render(strings.Repeat("-", 20)))
}

func printBooks(w io.Writer, books []library.BookSnapshot) {
	for _, b := range books {
		printBook(w, b)
	}
}

func printOverdue(w io.Writer, loans []library.OverdueLoan) {
	if len(loans) == 0 {
		fmt.Fprintln(w, "No overdue loans.")
		return
	}
	heading(w, "Overdue Loans (%d):", len(loans))
	fmt.Fprintf(w, "%-30s %-25s %-20s %s\n", "Title", "Author", "Borrower", "Due Date")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, o := range loans {
		fmt.Fprintf(w, "%-30s %-25s %-20s %s\n",
			truncateString(o.Title, 30),
			truncateString(o.Author, 25),
			truncateString(o.Loan.BorrowerName, 20),
			o.Loan.DueDateString())
	}
}

// truncateString cuts s to maxLength terminal cells, ending in "...".
func truncateString(s string, maxLength int) string {
	return runewidth.Truncate(s, maxLength, "...")
}
