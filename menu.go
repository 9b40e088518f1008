package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"library-lending/library"
)

func (a *app) runMenu() error {
	sc := bufio.NewScanner(a.in)
	prompt := a.interactive()

	for {
		if prompt {
			fmt.Fprintln(a.out)
			heading(a.out, "--- Library Menu ---")
			fmt.Fprintln(a.out, "1. Display all books")
			fmt.Fprintln(a.out, "2. Borrow a book")
			fmt.Fprintln(a.out, "3. Return a book")
			fmt.Fprintln(a.out, "4. Add a new book / copies")
			fmt.Fprintln(a.out, "5. Search books")
			fmt.Fprintln(a.out, "6. Show overdue loans")
			fmt.Fprintln(a.out, "7. Exit")
		}
		choice, ok := a.ask(sc, prompt, "Enter your choice (1-7): ")
		if !ok {
			return sc.Err()
		}

		switch choice {
		case "1":
			a.handleListBooks()
		case "2":
			a.handleBorrow(sc, prompt)
		case "3":
			a.handleReturn(sc, prompt)
		case "4":
			a.handleAddBook(sc, prompt)
		case "5":
			a.handleSearch(sc, prompt)
		case "6":
			printOverdue(a.out, a.mgr.Overdue())
		case "7":
			fmt.Fprintln(a.out, "Exiting library system. Goodbye!")
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid choice. Please enter 1-7.")
		}
	}
}

// ask prints the prompt (when interactive) and reads one trimmed line.
func (a *app) ask(sc *bufio.Scanner, prompt bool, text string) (string, bool) {
	if prompt {
		fmt.Fprint(a.out, text)
	}
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

func (a *app) handleListBooks() {
	books := a.mgr.Books()
	if len(books) == 0 {
		fmt.Fprintln(a.out, "Library is empty.")
		return
	}
	fmt.Fprintln(a.out)
	heading(a.out, "Library Books:")
	printBooks(a.out, books)
}

// resolveTitle reads a title and, when it is shared by several authors,
// asks which author is meant. ok is false when the book cannot be resolved.
func (a *app) resolveTitle(sc *bufio.Scanner, prompt bool, question string) (title, author string, ok bool) {
	title, ok = a.ask(sc, prompt, question)
	if !ok {
		return "", "", false
	}
	_, err := a.mgr.FindByTitle(title, "")
	switch {
	case err == nil:
		return title, "", true
	case errors.Is(err, library.ErrAmbiguousTitle):
		warn(a.out, "'%s' is held under several authors.", title)
		author, ok = a.ask(sc, prompt, "Enter author name: ")
		if !ok {
			return "", "", false
		}
		if _, err := a.mgr.FindByTitle(title, author); err != nil {
			a.report(err, title, "")
			return "", "", false
		}
		return title, author, true
	default:
		a.report(err, title, "")
		return "", "", false
	}
}

func (a *app) handleBorrow(sc *bufio.Scanner, prompt bool) {
	title, author, ok := a.resolveTitle(sc, prompt, "Enter the title of the book you want to borrow: ")
	if !ok {
		return
	}
	borrower, ok := a.ask(sc, prompt, "Enter your name: ")
	if !ok {
		return
	}
	raw, ok := a.ask(sc, prompt, fmt.Sprintf("Enter number of days to borrow (default %d): ", a.mgr.LoanDays()))
	if !ok {
		return
	}
	a.borrow(title, author, borrower, parseDays(raw, a.mgr.LoanDays()))
}

func (a *app) handleReturn(sc *bufio.Scanner, prompt bool) {
	title, author, ok := a.resolveTitle(sc, prompt, "Enter the title of the book you want to return: ")
	if !ok {
		return
	}
	borrower, ok := a.ask(sc, prompt, "Enter your name: ")
	if !ok {
		return
	}
	a.giveBack(title, author, borrower)
}

func (a *app) handleAddBook(sc *bufio.Scanner, prompt bool) {
	title, ok := a.ask(sc, prompt, "Enter book title: ")
	if !ok {
		return
	}
	author, ok := a.ask(sc, prompt, "Enter author name: ")
	if !ok {
		return
	}
	raw, ok := a.ask(sc, prompt, "Enter number of copies: ")
	if !ok {
		return
	}
	quantity, err := strconv.Atoi(raw)
	if err != nil || quantity <= 0 {
		warn(a.out, "Invalid input. Setting quantity to 1.")
		quantity = 1
	}
	a.add(title, author, quantity)
}

func (a *app) handleSearch(sc *bufio.Scanner, prompt bool) {
	query, ok := a.ask(sc, prompt, "Enter title or author to search: ")
	if !ok {
		return
	}
	a.search(query)
}

// ------------------ Actions shared with the one-shot commands ------------------

func (a *app) borrow(title, author, borrower string, days int) bool {
	if strings.TrimSpace(borrower) == "" {
		failure(a.out, "Borrower name cannot be empty.")
		return false
	}
	loan, err := a.mgr.Borrow(title, author, borrower, days)
	if err != nil {
		a.report(err, title, borrower)
		return false
	}
	book, _ := a.mgr.FindByTitle(title, author)
	success(a.out, "'%s' borrowed by %s. Due on %s.", book.Title, borrower, loan.DueDateString())
	fmt.Fprintln(a.out, "Library saved successfully.")
	return true
}

func (a *app) giveBack(title, author, borrower string) bool {
	if _, err := a.mgr.Return(title, author, borrower); err != nil {
		a.report(err, title, borrower)
		return false
	}
	book, _ := a.mgr.FindByTitle(title, author)
	success(a.out, "%s returned '%s'.", borrower, book.Title)
	fmt.Fprintln(a.out, "Library saved successfully.")
	return true
}

func (a *app) add(title, author string, quantity int) bool {
	if title == "" || author == "" {
		failure(a.out, "Title and author cannot be empty.")
		return false
	}
	book, merged, err := a.mgr.AddBook(title, author, quantity)
	if err != nil {
		a.report(err, title, "")
		return false
	}
	if merged {
		success(a.out, "Added %d more copies of '%s'. Total copies: %d", quantity, book.Title, book.AvailableCopies)
	} else {
		success(a.out, "Book '%s' by %s added with %d copies.", book.Title, book.Author, quantity)
	}
	fmt.Fprintln(a.out, "Library saved successfully.")
	return true
}

func (a *app) search(query string) int {
	results := a.mgr.Search(query)
	if len(results) == 0 {
		fmt.Fprintln(a.out, "No books matched your search.")
		return 0
	}
	fmt.Fprintln(a.out)
	heading(a.out, "Search Results (%d found):", len(results))
	printBooks(a.out, results)
	return len(results)
}

// report turns a core outcome into the message an operator sees.
func (a *app) report(err error, title, borrower string) {
	switch {
	case errors.Is(err, library.ErrNotFound):
		failure(a.out, "'%s' not found in the library.", title)
	case errors.Is(err, library.ErrAmbiguousTitle):
		failure(a.out, "'%s' is held under several authors; give the author too.", title)
	case errors.Is(err, library.ErrUnavailable):
		warn(a.out, "Sorry, '%s' is not available right now.", title)
	case errors.Is(err, library.ErrNoSuchLoan):
		warn(a.out, "No record found for %s borrowing '%s'.", borrower, title)
	case errors.Is(err, library.ErrInvalidQuantity):
		failure(a.out, "Quantity must be at least 1.")
	case errors.Is(err, library.ErrInvalidLoanPeriod):
		failure(a.out, "Loan period cannot be negative.")
	default:
		failure(a.out, "Error: %v", err)
	}
}

// parseDays applies the menu's defaulting: blank or invalid input means the default period.
func parseDays(raw string, fallback int) int {
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || days <= 0 {
		return fallback
	}
	return days
}
