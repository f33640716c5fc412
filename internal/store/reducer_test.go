package store

import (
	"testing"

	"bookshelf/internal/book"
	"bookshelf/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialState(t *testing.T) {
	s := InitialState()
	assert.Empty(t, s.Books)
	assert.Nil(t, s.CurrentBook)
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, "limit=10&offset=0", s.Filters.Values().Encode())
}

func TestReduce_SetBooksClearsLoadingAndError(t *testing.T) {
	s := InitialState()
	s = Reduce(s, SetLoading{Loading: true})
	s = Reduce(s, SetError{Message: "Failed to fetch books"})
	assert.False(t, s.Loading)
	assert.Equal(t, "Failed to fetch books", s.Error)

	s = Reduce(s, SetLoading{Loading: true})
	s = Reduce(s, SetBooks{Books: testutil.Books(3), Total: 12})
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.Len(t, s.Books, 3)
	assert.Equal(t, 12, s.Total)
}

func TestReduce_SetBooksDropsDuplicateIDs(t *testing.T) {
	books := testutil.Books(2)
	dup := books[0]
	dup.Title = "later copy"

	s := Reduce(InitialState(), SetBooks{Books: append(books, dup), Total: 2})
	require.Len(t, s.Books, 2)
	assert.Equal(t, books[0].Title, s.Books[0].Title)
}

func TestReduce_AddBook(t *testing.T) {
	s := Reduce(InitialState(), SetBooks{Books: testutil.Books(2), Total: 7})

	s = Reduce(s, AddBook{Book: testutil.TestBook})
	require.Len(t, s.Books, 3)
	assert.Equal(t, testutil.TestBook, s.Books[0])
	assert.Equal(t, 8, s.Total)

	// Adding the same id again replaces it at the head without counting twice.
	again := testutil.TestBook
	again.Title = "Dune Messiah"
	s = Reduce(s, AddBook{Book: again})
	require.Len(t, s.Books, 3)
	assert.Equal(t, "Dune Messiah", s.Books[0].Title)
	assert.Equal(t, 8, s.Total)
}

func TestReduce_UpdateBook(t *testing.T) {
	books := testutil.Books(3)
	s := Reduce(InitialState(), SetBooks{Books: books, Total: 3})
	current := books[1]
	s = Reduce(s, SetCurrentBook{Book: &current})

	changed := books[1]
	changed.Title = "Renamed"
	s = Reduce(s, UpdateBook{Book: changed})

	assert.Equal(t, []int64{1, 2, 3}, ids(s.Books))
	assert.Equal(t, "Renamed", s.Books[1].Title)
	require.NotNil(t, s.CurrentBook)
	assert.Equal(t, "Renamed", s.CurrentBook.Title)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, "Book B", books[1].Title, "input slice must not be mutated")
}

func TestReduce_UpdateBookLeavesOtherCurrentBook(t *testing.T) {
	books := testutil.Books(2)
	s := Reduce(InitialState(), SetBooks{Books: books, Total: 2})
	current := books[0]
	s = Reduce(s, SetCurrentBook{Book: &current})

	changed := books[1]
	changed.Title = "Renamed"
	s = Reduce(s, UpdateBook{Book: changed})
	assert.Equal(t, books[0].Title, s.CurrentBook.Title)
}

func TestReduce_DeleteBook(t *testing.T) {
	books := testutil.Books(3)
	s := Reduce(InitialState(), SetBooks{Books: books, Total: 3})
	current := books[2]
	s = Reduce(s, SetCurrentBook{Book: &current})

	s = Reduce(s, DeleteBook{ID: 3})
	assert.Equal(t, []int64{1, 2}, ids(s.Books))
	assert.Equal(t, 2, s.Total)
	assert.Nil(t, s.CurrentBook)

	s = Reduce(s, DeleteBook{ID: 99})
	assert.Len(t, s.Books, 2)
	assert.Equal(t, 1, s.Total)
}

func TestReduce_DeleteBookTotalNeverNegative(t *testing.T) {
	s := Reduce(InitialState(), DeleteBook{ID: 1})
	assert.Equal(t, 0, s.Total)
}

func TestReduce_SetFiltersCopies(t *testing.T) {
	f := book.Filter{Author: "Tolkien", Limit: book.Ptr(10), Offset: book.Ptr(0)}
	s := Reduce(InitialState(), SetFilters{Filters: f})

	*f.Limit = 50
	assert.Equal(t, 10, s.Filters.LimitOr(0))
	assert.Equal(t, "Tolkien", s.Filters.Author)
}

func TestReduce_CurrentBookAndPage(t *testing.T) {
	b := testutil.TestBook
	s := Reduce(InitialState(), SetCurrentBook{Book: &b})
	require.NotNil(t, s.CurrentBook)
	b.Title = "changed after dispatch"
	assert.Equal(t, "Dune", s.CurrentBook.Title)

	s = Reduce(s, SetCurrentBook{})
	assert.Nil(t, s.CurrentBook)

	s = Reduce(s, SetPage{Page: 4})
	assert.Equal(t, 4, s.Page)
}

func TestReduce_UnknownActionIsIgnored(t *testing.T) {
	s := Reduce(InitialState(), SetBooks{Books: testutil.Books(1), Total: 1})
	assert.Equal(t, s, Reduce(s, unknownAction{}))
}

func TestState_TotalPages(t *testing.T) {
	tests := []struct {
		total, limit, expected int
	}{
		{0, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{3, 1, 3},
	}
	for _, tt := range tests {
		s := InitialState()
		s.Total = tt.total
		s.Filters.Limit = book.Ptr(tt.limit)
		assert.Equal(t, tt.expected, s.TotalPages(), "total=%d limit=%d", tt.total, tt.limit)
	}
}

type unknownAction struct{}

func (unknownAction) Type() string { return "UNKNOWN" }

func ids(books []book.Book) []int64 {
	out := make([]int64, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}
