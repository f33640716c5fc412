package validation_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"bookshelf/internal/book"
	"bookshelf/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreate() book.CreateRequest {
	return book.CreateRequest{
		Title:  "Dune",
		Author: "Frank Herbert",
		Year:   1965,
		ISBN:   "9780441013593",
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs), "expected validation.Errors, got %v", err)
	return verrs.Fields()
}

func TestValidate_ValidInput(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Validate(validCreate()))
}

func TestValidate_RequiredFields(t *testing.T) {
	v := validation.New()

	fields := fieldErrors(t, v.Validate(book.CreateRequest{Year: 2000}))

	assert.Equal(t, "Title is required", fields["title"])
	assert.Equal(t, "Author is required", fields["author"])
	assert.NotContains(t, fields, "year")
}

func TestValidate_MaxLength(t *testing.T) {
	v := validation.New()

	req := validCreate()
	req.Title = strings.Repeat("a", 255)
	assert.NoError(t, v.Validate(req))

	req.Title = strings.Repeat("a", 256)
	req.Author = strings.Repeat("b", 256)
	fields := fieldErrors(t, v.Validate(req))
	assert.Equal(t, "Title is too long", fields["title"])
	assert.Equal(t, "Author is too long", fields["author"])
}

func TestValidate_YearBoundaries(t *testing.T) {
	current := time.Now().Year()
	v := validation.New()

	testCases := []struct {
		year  int
		valid bool
	}{
		{999, false},
		{1000, true},
		{current, true},
		{current + 1, false},
		{0, false},
	}

	for _, tc := range testCases {
		req := validCreate()
		req.Year = tc.year

		err := v.Validate(req)
		if tc.valid {
			assert.NoError(t, err, "year %d should be accepted", tc.year)
			continue
		}
		fields := fieldErrors(t, err)
		assert.Contains(t, fields, "year", "year %d should be rejected", tc.year)
	}
}

func TestValidate_YearMessages(t *testing.T) {
	v := validation.NewWithClock(func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) })

	req := validCreate()
	req.Year = 2025
	assert.Equal(t, "Year cannot be in the future", fieldErrors(t, v.Validate(req))["year"])

	req.Year = 999
	assert.Equal(t, "Year must be at least 1000", fieldErrors(t, v.Validate(req))["year"])
}

func TestValidate_ISBN(t *testing.T) {
	v := validation.New()

	testCases := []struct {
		isbn  string
		valid bool
	}{
		{"", true},
		{"9780441013593", true},
		{"abcdefghijklm", true},
		{"978044101359", false},
		{"97804410135930", false},
	}

	for _, tc := range testCases {
		req := validCreate()
		req.ISBN = tc.isbn

		err := v.Validate(req)
		if tc.valid {
			assert.NoError(t, err, "ISBN %q should be accepted", tc.isbn)
			continue
		}
		assert.Equal(t, "ISBN must be 13 characters", fieldErrors(t, err)["isbn"])
	}
}

func TestValidate_UpdateRequest(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(book.UpdateRequest{}))
	assert.NoError(t, v.Validate(book.UpdateRequest{Year: book.Ptr(1965)}))

	fields := fieldErrors(t, v.Validate(book.UpdateRequest{
		Title: book.Ptr(""),
		Year:  book.Ptr(999),
		ISBN:  book.Ptr("123"),
	}))
	assert.Equal(t, "Title is required", fields["title"])
	assert.Contains(t, fields, "year")
	assert.Contains(t, fields, "isbn")
}

func TestErrors_Error(t *testing.T) {
	err := validation.Errors{{Field: "title", Message: "Title is required"}}
	assert.Equal(t, "validation failed: title: Title is required", err.Error())
}

func TestValidate_URLAndOneOf(t *testing.T) {
	type urlForm struct {
		URL       string `json:"url" validate:"required,url"`
		Operation string `json:"operation" validate:"required,oneof=redirection canonical all"`
	}
	v := validation.New()

	assert.NoError(t, v.Validate(urlForm{URL: "https://example.com/a?b=1", Operation: "all"}))

	fields := fieldErrors(t, v.Validate(urlForm{URL: "not a url", Operation: "shorten"}))
	assert.Equal(t, "URL must be absolute, e.g. https://example.com/page", fields["url"])
	assert.Equal(t, "Operation must be one of: redirection, canonical, all", fields["operation"])
}
