package book

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Values(t *testing.T) {
	tests := []struct {
		name     string
		filter   Filter
		expected string
	}{
		{name: "empty", filter: Filter{}, expected: ""},
		{name: "empty strings omitted", filter: Filter{Title: "", Author: "Tolkien"}, expected: "author=Tolkien"},
		{name: "zero offset kept", filter: Filter{Limit: Ptr(10), Offset: Ptr(0)}, expected: "limit=10&offset=0"},
		{name: "year", filter: Filter{Year: Ptr(1937)}, expected: "year=1937"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Values().Encode())
		})
	}
}

func TestFilter_Defaults(t *testing.T) {
	var f Filter
	assert.Equal(t, DefaultLimit, f.LimitOr(DefaultLimit))
	assert.Equal(t, 0, f.OffsetOr(0))

	f = Filter{Limit: Ptr(0), Offset: Ptr(-5)}
	assert.Equal(t, 7, f.LimitOr(7))
	assert.Equal(t, 0, f.OffsetOr(0))

	f = Filter{Limit: Ptr(25), Offset: Ptr(50)}
	assert.Equal(t, 25, f.LimitOr(7))
	assert.Equal(t, 50, f.OffsetOr(0))
}

func TestFilter_CloneSharesNothing(t *testing.T) {
	f := Filter{Title: "x", Year: Ptr(2000), Limit: Ptr(10), Offset: Ptr(0)}
	c := f.Clone()
	*c.Year = 1999
	*c.Limit = 1
	*c.Offset = 9

	assert.Equal(t, 2000, *f.Year)
	assert.Equal(t, 10, *f.Limit)
	assert.Equal(t, 0, *f.Offset)
	assert.Equal(t, Filter{}, Filter{}.Clone())
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(url.Values{"title": {"Dune"}, "year": {"1965"}, "limit": {"5"}})
	require.NoError(t, err)
	assert.Equal(t, Filter{Title: "Dune", Year: Ptr(1965), Limit: Ptr(5)}, f)

	_, err = ParseFilter(url.Values{"offset": {"ten"}})
	var paramErr *InvalidParamError
	require.True(t, errors.As(err, &paramErr))
	assert.Equal(t, "offset", paramErr.Param)
	assert.Equal(t, "ten", paramErr.Value)
}

func TestUpdateRequest_Apply(t *testing.T) {
	b := Book{ID: 1, Title: "Dune", Author: "Frank Herbert", Year: 1965, ISBN: "9780441013593"}

	UpdateRequest{Year: Ptr(1966), Description: Ptr("Arrakis")}.Apply(&b)

	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, 1966, b.Year)
	assert.Equal(t, "Arrakis", b.Description)
	assert.Equal(t, "9780441013593", b.ISBN)
	assert.True(t, UpdateRequest{}.Empty())
	assert.False(t, UpdateRequest{ISBN: Ptr("")}.Empty())
}

func TestCreateRequest_ToBook(t *testing.T) {
	b := CreateRequest{Title: "Dune", Author: "Frank Herbert", Year: 1965}.ToBook()
	assert.Zero(t, b.ID)
	assert.Equal(t, "Dune", b.Title)
	assert.True(t, b.CreatedAt.IsZero())
}
