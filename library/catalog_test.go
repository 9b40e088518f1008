package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog() *Catalog {
	return NewCatalog([]*Book{
		{Title: "Dune", Author: "Frank Herbert", AvailableCopies: 2},
		{Title: "Emma", Author: "Jane Austen", AvailableCopies: 1},
		{Title: "Persuasion", Author: "Jane Austen", AvailableCopies: 1},
	})
}

func TestFindByTitle(t *testing.T) {
	c := sampleCatalog()

	b, err := c.FindByTitle("dUNE")
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title)

	_, err = c.FindByTitle("Dun")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByTitleAmbiguous(t *testing.T) {
	c := sampleCatalog()
	_, merged, err := c.Add("Emma", "Someone Else", 1)
	require.NoError(t, err)
	assert.False(t, merged)

	_, err = c.FindByTitle("emma")
	assert.ErrorIs(t, err, ErrAmbiguousTitle)

	b, err := c.Lookup("emma", "someone else")
	require.NoError(t, err)
	assert.Equal(t, "Someone Else", b.Author)
}

func TestAddMergesOnTitleAndAuthor(t *testing.T) {
	c := sampleCatalog()

	b, merged, err := c.Add("DUNE", "frank herbert", 3)
	require.NoError(t, err)
	assert.True(t, merged)
	assert.Equal(t, 5, b.AvailableCopies)
	assert.Equal(t, 3, c.Len())
}

func TestAddAppendsNewLine(t *testing.T) {
	c := sampleCatalog()

	b, merged, err := c.Add("Neuromancer", "William Gibson", 2)
	require.NoError(t, err)
	assert.False(t, merged)
	assert.Equal(t, 2, b.AvailableCopies)
	assert.Equal(t, 4, c.Len())
	assert.Same(t, b, c.Books()[3])

	c.dropLast()
	assert.Equal(t, 3, c.Len())
}

func TestAddRejectsNonPositive(t *testing.T) {
	c := sampleCatalog()

	_, _, err := c.Add("Neuromancer", "William Gibson", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, _, err = c.Add("Dune", "Frank Herbert", -2)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 3, c.Len())
}

func TestSearch(t *testing.T) {
	c := sampleCatalog()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "title substring", query: "sua", want: []string{"Persuasion"}},
		{name: "author substring", query: "austen", want: []string{"Emma", "Persuasion"}},
		{name: "no match", query: "tolkien", want: nil},
		{name: "blank lists everything", query: "  ", want: []string{"Dune", "Emma", "Persuasion"}},
		{name: "empty lists everything", query: "", want: []string{"Dune", "Emma", "Persuasion"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			for _, b := range c.Search(tc.query) {
				got = append(got, b.Title)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}
