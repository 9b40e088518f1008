package library

import (
	"fmt"
	"strings"
)

// Catalog is the in-memory collection of books, in insertion order.
// It is owned by whoever loaded it; nothing here is package-global.
type Catalog struct {
	books []*Book
}

// NewCatalog wraps books without copying them.
func NewCatalog(books []*Book) *Catalog {
	return &Catalog{books: books}
}

// Books returns the underlying slice; callers must not append to it.
func (c *Catalog) Books() []*Book { return c.books }

func (c *Catalog) Len() int { return len(c.books) }

// FindByTitle matches the title case-insensitively. When several authors
// share the title the lookup refuses to guess and returns ErrAmbiguousTitle.
func (c *Catalog) FindByTitle(title string) (*Book, error) {
	var found *Book
	for _, b := range c.books {
		if !strings.EqualFold(b.Title, title) {
			continue
		}
		if found != nil && !strings.EqualFold(found.Author, b.Author) {
			return nil, fmt.Errorf("%q: %w", title, ErrAmbiguousTitle)
		}
		if found == nil {
			found = b
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%q: %w", title, ErrNotFound)
	}
	return found, nil
}

// Find matches on the (title, author) pair, both case-insensitive.
func (c *Catalog) Find(title, author string) (*Book, error) {
	for _, b := range c.books {
		if b.matches(title, author) {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%q by %s: %w", title, author, ErrNotFound)
}

// Lookup uses the composite key when author is given and the title alone otherwise.
func (c *Catalog) Lookup(title, author string) (*Book, error) {
	if strings.TrimSpace(author) == "" {
		return c.FindByTitle(title)
	}
	return c.Find(title, author)
}

// Add merges quantity copies into the existing (title, author) line or
// appends a new one. merged reports which of the two happened.
func (c *Catalog) Add(title, author string, quantity int) (book *Book, merged bool, err error) {
	if existing, err := c.Find(title, author); err == nil {
		if err := existing.AddCopies(quantity); err != nil {
			return nil, false, err
		}
		return existing, true, nil
	}

	book, err = NewBook(title, author, quantity)
	if err != nil {
		return nil, false, err
	}
	c.books = append(c.books, book)
	return book, false, nil
}

// Search returns books whose title or author contains query, ignoring case.
// A blank query matches every book.
func (c *Catalog) Search(query string) []*Book {
	q := strings.ToLower(strings.TrimSpace(query))
	var results []*Book
	for _, b := range c.books {
		if strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Author), q) {
			results = append(results, b)
		}
	}
	return results
}

// dropLast undoes an Add that appended a new line.
func (c *Catalog) dropLast() {
	if n := len(c.books); n > 0 {
		c.books[n-1] = nil
		c.books = c.books[:n-1]
	}
}
