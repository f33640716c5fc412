package book

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingClock advances one minute per call so creation order is visible.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

func newSeededRepo(t *testing.T) *MemoryRepo {
	t.Helper()
	repo := NewMemoryRepo(nil).WithClock(tickingClock())
	for _, b := range SampleBooks() {
		b := b
		require.NoError(t, repo.Create(context.Background(), &b))
	}
	return repo
}

func TestMemoryRepo_ListNewestFirst(t *testing.T) {
	repo := newSeededRepo(t)

	books, total, err := repo.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, books, 4)
	assert.Equal(t, "Microservices Patterns", books[0].Title)
	assert.Equal(t, "The Go Programming Language", books[3].Title)
}

func TestMemoryRepo_ListFilters(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	books, total, err := repo.List(ctx, Filter{Author: "MARTIN"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Clean Code", books[0].Title)

	books, _, err = repo.List(ctx, Filter{Title: "patterns", Year: Ptr(1994)})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Design Patterns", books[0].Title)
}

func TestMemoryRepo_ListPagination(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	books, total, err := repo.List(ctx, Filter{Limit: Ptr(3), Offset: Ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, books, 3)

	books, total, err = repo.List(ctx, Filter{Limit: Ptr(3), Offset: Ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, books, 1)

	books, total, err = repo.List(ctx, Filter{Limit: Ptr(3), Offset: Ptr(30)})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Empty(t, books)
}

func TestMemoryRepo_Search(t *testing.T) {
	repo := newSeededRepo(t)

	books, err := repo.Search(context.Background(), "craftsmanship")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Clean Code", books[0].Title)

	books, err = repo.Search(context.Background(), "nothing like this")
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestMemoryRepo_CreateAssignsFields(t *testing.T) {
	repo := NewMemoryRepo(nil)
	b := Book{Title: "Dune", Author: "Frank Herbert", Year: 1965}

	require.NoError(t, repo.Create(context.Background(), &b))

	assert.Equal(t, int64(1), b.ID)
	assert.False(t, b.CreatedAt.IsZero())
	assert.Equal(t, b.CreatedAt, b.UpdatedAt)
}

func TestMemoryRepo_DuplicateISBN(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	dup := Book{Title: "Copy", Author: "x", Year: 2000, ISBN: "9780132350884"}
	assert.True(t, errors.Is(repo.Create(ctx, &dup), ErrDuplicateISBN))

	// Books without ISBN never collide.
	a := Book{Title: "A", Author: "x", Year: 2000}
	b := Book{Title: "B", Author: "x", Year: 2000}
	require.NoError(t, repo.Create(ctx, &a))
	require.NoError(t, repo.Create(ctx, &b))

	// Keeping its own ISBN on update is fine; taking another is not.
	clean, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, &clean))
	clean.ISBN = "9780134190440"
	assert.True(t, errors.Is(repo.Update(ctx, &clean), ErrDuplicateISBN))
}

func TestMemoryRepo_UpdateKeepsCreatedAt(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	b, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	created := b.CreatedAt

	b.Title = "The Go Programming Language, 2nd ed."
	require.NoError(t, repo.Update(ctx, &b))

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, created, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(created))
	assert.Equal(t, "The Go Programming Language, 2nd ed.", got.Title)
}

func TestMemoryRepo_NotFound(t *testing.T) {
	repo := NewMemoryRepo(nil)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 99)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(repo.Update(ctx, &Book{ID: 99}), ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, 99), ErrNotFound))
}

func TestMemoryRepo_Delete(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, 2))
	_, total, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}
