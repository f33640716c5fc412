package store

import (
	"bookshelf/internal/book"
)

// Action is a state transition understood by Reduce.
type Action interface {
	Type() string
}

type (
	SetLoading struct{ Loading bool }

	SetBooks struct {
		Books []book.Book
		Total int
	}

	// SetCurrentBook selects a book; nil clears the selection.
	SetCurrentBook struct{ Book *book.Book }

	AddBook struct{ Book book.Book }

	UpdateBook struct{ Book book.Book }

	DeleteBook struct{ ID int64 }

	// SetError records an inline error; empty clears it.
	SetError struct{ Message string }

	SetFilters struct{ Filters book.Filter }

	SetPage struct{ Page int }
)

func (SetLoading) Type() string     { return "SET_LOADING" }
func (SetBooks) Type() string       { return "SET_BOOKS" }
func (SetCurrentBook) Type() string { return "SET_CURRENT_BOOK" }
func (AddBook) Type() string        { return "ADD_BOOK" }
func (UpdateBook) Type() string     { return "UPDATE_BOOK" }
func (DeleteBook) Type() string     { return "DELETE_BOOK" }
func (SetError) Type() string       { return "SET_ERROR" }
func (SetFilters) Type() string     { return "SET_FILTERS" }
func (SetPage) Type() string        { return "SET_PAGE" }
