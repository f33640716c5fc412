package book

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repository used when no database is configured
// and in tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	books  map[int64]Book
	nextID int64
	now    func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo and stores the seed books in order,
// assigning ids and timestamps as Create would.
func NewMemoryRepo(seed []Book) *MemoryRepo {
	r := &MemoryRepo{
		books:  make(map[int64]Book, len(seed)),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, b := range seed {
		b := b
		_ = r.Create(context.Background(), &b)
	}
	return r
}

// WithClock replaces the time source used for timestamps.
func (r *MemoryRepo) WithClock(now func() time.Time) *MemoryRepo {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
	return r
}

func (r *MemoryRepo) List(_ context.Context, f Filter) ([]Book, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	title := strings.ToLower(f.Title)
	author := strings.ToLower(f.Author)

	matched := make([]Book, 0, len(r.books))
	for _, b := range r.books {
		if title != "" && !strings.Contains(strings.ToLower(b.Title), title) {
			continue
		}
		if author != "" && !strings.Contains(strings.ToLower(b.Author), author) {
			continue
		}
		if f.Year != nil && b.Year != *f.Year {
			continue
		}
		matched = append(matched, b)
	}
	sortNewestFirst(matched)

	total := len(matched)
	offset := f.OffsetOr(0)
	if offset >= total {
		return []Book{}, total, nil
	}
	end := total
	if f.Limit != nil && *f.Limit > 0 && offset+*f.Limit < total {
		end = offset + *f.Limit
	}
	return matched[offset:end], total, nil
}

func (r *MemoryRepo) Search(_ context.Context, query string) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	out := []Book{}
	for _, b := range r.books {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) ||
			strings.Contains(strings.ToLower(b.Description), q) {
			out = append(out, b)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id int64) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return b, nil
}

func (r *MemoryRepo) Create(_ context.Context, b *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isbnTaken(b.ISBN, 0) {
		return ErrDuplicateISBN
	}
	now := r.now()
	b.ID = r.nextID
	b.CreatedAt = now
	b.UpdatedAt = now
	r.nextID++

	r.books[b.ID] = *b
	return nil
}

func (r *MemoryRepo) Update(_ context.Context, b *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.books[b.ID]
	if !ok {
		return ErrNotFound
	}
	if r.isbnTaken(b.ISBN, b.ID) {
		return ErrDuplicateISBN
	}
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = r.now()
	r.books[b.ID] = *b
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[id]; !ok {
		return ErrNotFound
	}
	delete(r.books, id)
	return nil
}

// isbnTaken must be called with r.mu held.
func (r *MemoryRepo) isbnTaken(isbn string, exceptID int64) bool {
	if isbn == "" {
		return false
	}
	for id, b := range r.books {
		if id != exceptID && b.ISBN == isbn {
			return true
		}
	}
	return false
}

func sortNewestFirst(books []Book) {
	sort.Slice(books, func(i, j int) bool {
		if books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].ID > books[j].ID
		}
		return books[i].CreatedAt.After(books[j].CreatedAt)
	})
}
