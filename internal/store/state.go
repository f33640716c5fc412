package store

import (
	"bookshelf/internal/book"
)

// State is everything the views render.
type State struct {
	Books       []book.Book
	CurrentBook *book.Book
	Loading     bool
	// Error is the inline error message; empty means none.
	Error   string
	Filters book.Filter
	Total   int
	// Page is 1-based.
	Page int
}

// InitialState is the state a new Store starts with.
func InitialState() State {
	return State{
		Books: []book.Book{},
		Filters: book.Filter{
			Limit:  book.Ptr(book.DefaultLimit),
			Offset: book.Ptr(0),
		},
		Page: 1,
	}
}

// TotalPages is the number of pages for the current total and limit.
func (s State) TotalPages() int {
	limit := s.Filters.LimitOr(book.DefaultLimit)
	if s.Total <= 0 {
		return 1
	}
	return (s.Total + limit - 1) / limit
}

// clone copies s so callers cannot reach the store's slices or pointers.
func (s State) clone() State {
	out := s
	out.Books = append([]book.Book(nil), s.Books...)
	if s.CurrentBook != nil {
		b := *s.CurrentBook
		out.CurrentBook = &b
	}
	out.Filters = s.Filters.Clone()
	return out
}
