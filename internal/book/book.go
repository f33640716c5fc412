package book

import (
	"errors"
	"net/url"
	"strconv"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateISBN is returned when another book already uses the ISBN.
	ErrDuplicateISBN = errors.New("isbn already exists")
	// ErrEmptyQuery is returned when a search is issued without a query.
	ErrEmptyQuery = errors.New("search query is required")
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Book represents a catalog record.
type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Year        int       `json:"year"`
	ISBN        string    `json:"isbn,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateRequest is the payload for creating a book. The server assigns id and
// timestamps.
type CreateRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Author      string `json:"author" validate:"required,max=255"`
	Year        int    `json:"year" validate:"year"`
	ISBN        string `json:"isbn,omitempty" validate:"isbn13"`
	Description string `json:"description,omitempty"`
}

// UpdateRequest carries any subset of the mutable fields. Nil fields are left
// untouched.
type UpdateRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Author      *string `json:"author,omitempty" validate:"omitempty,min=1,max=255"`
	Year        *int    `json:"year,omitempty" validate:"omitempty,year"`
	ISBN        *string `json:"isbn,omitempty" validate:"omitempty,isbn13"`
	Description *string `json:"description,omitempty"`
}

// Empty reports whether the request changes nothing.
func (r UpdateRequest) Empty() bool {
	return r.Title == nil && r.Author == nil && r.Year == nil && r.ISBN == nil && r.Description == nil
}

// Apply copies the present fields onto b.
func (r UpdateRequest) Apply(b *Book) {
	if r.Title != nil {
		b.Title = *r.Title
	}
	if r.Author != nil {
		b.Author = *r.Author
	}
	if r.Year != nil {
		b.Year = *r.Year
	}
	if r.ISBN != nil {
		b.ISBN = *r.ISBN
	}
	if r.Description != nil {
		b.Description = *r.Description
	}
}

// ToBook converts the request into an unsaved Book.
func (r CreateRequest) ToBook() Book {
	return Book{
		Title:       r.Title,
		Author:      r.Author,
		Year:        r.Year,
		ISBN:        r.ISBN,
		Description: r.Description,
	}
}

// Filter holds the optional list predicates plus the limit/offset cursor.
type Filter struct {
	Title  string
	Author string
	Year   *int
	Limit  *int
	Offset *int
}

// Values serializes only the fields that are set. Empty strings and nil
// pointers never appear in the result.
func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.Title != "" {
		v.Set("title", f.Title)
	}
	if f.Author != "" {
		v.Set("author", f.Author)
	}
	if f.Year != nil {
		v.Set("year", strconv.Itoa(*f.Year))
	}
	if f.Limit != nil {
		v.Set("limit", strconv.Itoa(*f.Limit))
	}
	if f.Offset != nil {
		v.Set("offset", strconv.Itoa(*f.Offset))
	}
	return v
}

// LimitOr returns the configured limit, or def when none is set.
func (f Filter) LimitOr(def int) int {
	if f.Limit == nil || *f.Limit <= 0 {
		return def
	}
	return *f.Limit
}

// OffsetOr returns the configured offset, or def when none is set.
func (f Filter) OffsetOr(def int) int {
	if f.Offset == nil || *f.Offset < 0 {
		return def
	}
	return *f.Offset
}

// Clone returns a copy that shares no pointers with f.
func (f Filter) Clone() Filter {
	out := Filter{Title: f.Title, Author: f.Author}
	if f.Year != nil {
		out.Year = Ptr(*f.Year)
	}
	if f.Limit != nil {
		out.Limit = Ptr(*f.Limit)
	}
	if f.Offset != nil {
		out.Offset = Ptr(*f.Offset)
	}
	return out
}

// ParseFilter reads a Filter from list query parameters.
func ParseFilter(q url.Values) (Filter, error) {
	f := Filter{
		Title:  q.Get("title"),
		Author: q.Get("author"),
	}
	for _, field := range []struct {
		key string
		dst **int
	}{
		{"year", &f.Year},
		{"limit", &f.Limit},
		{"offset", &f.Offset},
	} {
		raw := q.Get(field.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Filter{}, &InvalidParamError{Param: field.key, Value: raw}
		}
		*field.dst = Ptr(n)
	}
	return f, nil
}

// InvalidParamError reports a query parameter that could not be parsed.
type InvalidParamError struct {
	Param string
	Value string
}

func (e *InvalidParamError) Error() string {
	return "invalid value for " + e.Param + ": " + strconv.Quote(e.Value)
}

// ListResponse is the envelope returned by list and search.
type ListResponse struct {
	Success bool   `json:"success"`
	Data    []Book `json:"data"`
	Total   int    `json:"total"`
	Page    int    `json:"page,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// ItemResponse is the envelope returned for a single book.
type ItemResponse struct {
	Success bool   `json:"success"`
	Data    Book   `json:"data"`
	Message string `json:"message,omitempty"`
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
