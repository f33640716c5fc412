package store

import (
	"bookshelf/internal/book"
)

// Reduce returns the state that follows a. It never mutates state's slices and
// performs no I/O. Unknown actions leave the state unchanged.
func Reduce(state State, a Action) State {
	switch a := a.(type) {
	case SetLoading:
		state.Loading = a.Loading

	case SetBooks:
		state.Books = uniqueByID(a.Books)
		state.Total = a.Total
		state.Loading = false
		state.Error = ""

	case SetCurrentBook:
		if a.Book == nil {
			state.CurrentBook = nil
			break
		}
		b := *a.Book
		state.CurrentBook = &b

	case AddBook:
		books := make([]book.Book, 0, len(state.Books)+1)
		books = append(books, a.Book)
		existed := false
		for _, b := range state.Books {
			if b.ID == a.Book.ID {
				existed = true
				continue
			}
			books = append(books, b)
		}
		state.Books = books
		if !existed {
			state.Total++
		}

	case UpdateBook:
		books := make([]book.Book, len(state.Books))
		for i, b := range state.Books {
			if b.ID == a.Book.ID {
				b = a.Book
			}
			books[i] = b
		}
		state.Books = books
		if state.CurrentBook != nil && state.CurrentBook.ID == a.Book.ID {
			b := a.Book
			state.CurrentBook = &b
		}

	case DeleteBook:
		books := make([]book.Book, 0, len(state.Books))
		for _, b := range state.Books {
			if b.ID != a.ID {
				books = append(books, b)
			}
		}
		state.Books = books
		if state.Total > 0 {
			state.Total--
		}
		if state.CurrentBook != nil && state.CurrentBook.ID == a.ID {
			state.CurrentBook = nil
		}

	case SetError:
		state.Error = a.Message
		state.Loading = false

	case SetFilters:
		state.Filters = a.Filters.Clone()

	case SetPage:
		state.Page = a.Page
	}
	return state
}

// uniqueByID keeps the first occurrence of every id, preserving order.
func uniqueByID(in []book.Book) []book.Book {
	out := make([]book.Book, 0, len(in))
	seen := make(map[int64]struct{}, len(in))
	for _, b := range in {
		if _, dup := seen[b.ID]; dup {
			continue
		}
		seen[b.ID] = struct{}{}
		out = append(out, b)
	}
	return out
}
