package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"bookshelf/internal/book"
)

// BookService maps catalog operations onto the REST endpoints. It performs no
// validation of its own.
type BookService struct {
	client *Client
}

func NewBookService(client *Client) *BookService {
	return &BookService{client: client}
}

// List handles GET /books with only the set filter fields as parameters.
func (s *BookService) List(ctx context.Context, f book.Filter) (book.ListResponse, error) {
	var res book.ListResponse
	if err := s.client.Do(ctx, http.MethodGet, "/books", f.Values(), nil, &res); err != nil {
		return book.ListResponse{}, err
	}
	return res, nil
}

// Get handles GET /books/{id}. A missing book yields an error for which
// IsNotFound is true.
func (s *BookService) Get(ctx context.Context, id int64) (book.ItemResponse, error) {
	var res book.ItemResponse
	if err := s.client.Do(ctx, http.MethodGet, bookPath(id), nil, nil, &res); err != nil {
		return book.ItemResponse{}, err
	}
	return res, nil
}

// Create handles POST /books.
func (s *BookService) Create(ctx context.Context, req book.CreateRequest) (book.ItemResponse, error) {
	var res book.ItemResponse
	if err := s.client.Do(ctx, http.MethodPost, "/books", nil, req, &res); err != nil {
		return book.ItemResponse{}, err
	}
	return res, nil
}

// Update handles PUT /books/{id} with a partial payload.
func (s *BookService) Update(ctx context.Context, id int64, req book.UpdateRequest) (book.ItemResponse, error) {
	var res book.ItemResponse
	if err := s.client.Do(ctx, http.MethodPut, bookPath(id), nil, req, &res); err != nil {
		return book.ItemResponse{}, err
	}
	return res, nil
}

// Delete handles DELETE /books/{id}; any response body is ignored.
func (s *BookService) Delete(ctx context.Context, id int64) error {
	return s.client.Do(ctx, http.MethodDelete, bookPath(id), nil, nil, nil)
}

// Search handles GET /books/search?q=.
func (s *BookService) Search(ctx context.Context, query string) (book.ListResponse, error) {
	var res book.ListResponse
	params := url.Values{"q": []string{query}}
	if err := s.client.Do(ctx, http.MethodGet, "/books/search", params, nil, &res); err != nil {
		return book.ListResponse{}, err
	}
	return res, nil
}

func bookPath(id int64) string {
	return "/books/" + strconv.FormatInt(id, 10)
}
