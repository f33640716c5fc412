package book

import (
	"context"
	"fmt"
	"strings"
)

// Service provides book-related business logic on the server side.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of books. Limit defaults to DefaultLimit and is capped
// at MaxLimit.
func (s *Service) List(ctx context.Context, f Filter) (ListResponse, error) {
	limit := f.LimitOr(DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset := f.OffsetOr(0)
	f.Limit = &limit
	f.Offset = &offset

	books, total, err := s.repo.List(ctx, f)
	if err != nil {
		return ListResponse{}, fmt.Errorf("list books: %w", err)
	}
	if books == nil {
		books = []Book{}
	}
	return ListResponse{
		Success: true,
		Data:    books,
		Total:   total,
		Page:    offset/limit + 1,
		Limit:   limit,
	}, nil
}

// Search matches the query against title, author and description.
func (s *Service) Search(ctx context.Context, query string) (ListResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return ListResponse{}, ErrEmptyQuery
	}
	books, err := s.repo.Search(ctx, query)
	if err != nil {
		return ListResponse{}, fmt.Errorf("search books: %w", err)
	}
	if books == nil {
		books = []Book{}
	}
	return ListResponse{Success: true, Data: books, Total: len(books)}, nil
}

// GetByID returns a book by its ID.
func (s *Service) GetByID(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a new book and returns it with server-assigned fields.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Book, error) {
	b := req.ToBook()
	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Update applies a partial update to an existing book.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, err
	}
	req.Apply(&b)
	if err := s.repo.Update(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Delete removes a book.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
