package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bookshelf/internal/apiclient"
	"bookshelf/internal/book"

	"go.uber.org/zap"
)

// catalog is satisfied by the book repositories.
type catalog interface {
	Create(ctx context.Context, b *book.Book) error
	List(ctx context.Context, f book.Filter) ([]book.Book, int, error)
}

type bookAPI interface {
	Create(ctx context.Context, req book.CreateRequest) (book.ItemResponse, error)
	List(ctx context.Context, f book.Filter) (book.ListResponse, error)
}

// apiCatalog seeds through the REST API.
type apiCatalog struct {
	books bookAPI
}

func (a apiCatalog) Create(ctx context.Context, b *book.Book) error {
	res, err := a.books.Create(ctx, book.CreateRequest{
		Title:       b.Title,
		Author:      b.Author,
		Year:        b.Year,
		ISBN:        b.ISBN,
		Description: b.Description,
	})
	if err != nil {
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
			return book.ErrDuplicateISBN
		}
		return err
	}
	*b = res.Data
	return nil
}

func (a apiCatalog) List(ctx context.Context, f book.Filter) ([]book.Book, int, error) {
	res, err := a.books.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return res.Data, res.Total, nil
}

type result struct {
	inserted int
	skipped  int
}

// seed inserts books in order and can be re-run. A book is skipped when its
// ISBN is taken or, lacking an ISBN, when the same title and author exist.
func seed(ctx context.Context, dst catalog, books []book.Book, logger *zap.Logger) (result, error) {
	var res result
	for i := range books {
		b := books[i]

		if b.ISBN == "" {
			present, err := hasBook(ctx, dst, b)
			if err != nil {
				return res, fmt.Errorf("look up %q: %w", b.Title, err)
			}
			if present {
				logger.Debug("book already present", zap.String("title", b.Title))
				res.skipped++
				continue
			}
		}

		err := dst.Create(ctx, &b)
		switch {
		case errors.Is(err, book.ErrDuplicateISBN):
			logger.Debug("book already present", zap.String("isbn", b.ISBN))
			res.skipped++
		case err != nil:
			return res, fmt.Errorf("insert %q: %w", b.Title, err)
		default:
			logger.Debug("book inserted", zap.Int64("id", b.ID), zap.String("title", b.Title))
			res.inserted++
		}
	}
	return res, nil
}

// hasBook reports whether a book with the same title and author exists.
// The list filters match substrings, so candidates are compared exactly.
func hasBook(ctx context.Context, dst catalog, b book.Book) (bool, error) {
	found, _, err := dst.List(ctx, book.Filter{
		Title:  b.Title,
		Author: b.Author,
		Limit:  book.Ptr(book.MaxLimit),
		Offset: book.Ptr(0),
	})
	if err != nil {
		return false, err
	}
	for _, c := range found {
		if strings.EqualFold(c.Title, b.Title) && strings.EqualFold(c.Author, b.Author) {
			return true, nil
		}
	}
	return false, nil
}
