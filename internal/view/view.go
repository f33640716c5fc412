// Package view renders store state for the terminal. Views hold no state of
// their own; everything they print comes from a store.State snapshot.
package view

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"bookshelf/internal/book"
	"bookshelf/internal/store"
	"bookshelf/internal/validation"
)

const (
	notFound   = "Book not found"
	noBooks    = "No books found"
	loadingMsg = "Loading..."
	dateLayout = "Jan 2, 2006"
)

// List renders the dashboard: an optional error banner, the book table and a
// pagination footer.
func List(w io.Writer, s store.State) error {
	if s.Loading {
		_, err := fmt.Fprintln(w, loadingMsg)
		return err
	}
	if s.Error != "" {
		if _, err := fmt.Fprintf(w, "Error: %s\n\n", s.Error); err != nil {
			return err
		}
	}
	if len(s.Books) == 0 {
		_, err := fmt.Fprintln(w, noBooks)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tYEAR\tISBN")
	for _, b := range s.Books {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", b.ID, truncate(b.Title, 40), truncate(b.Author, 30), b.Year, dash(b.ISBN))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nPage %d of %d (%d %s)\n", s.Page, s.TotalPages(), s.Total, plural(s.Total, "book", "books"))
	return err
}

// Detail renders CurrentBook, or "Book not found" when there is none.
func Detail(w io.Writer, s store.State) error {
	if s.Loading {
		_, err := fmt.Fprintln(w, loadingMsg)
		return err
	}
	if s.CurrentBook == nil {
		_, err := fmt.Fprintln(w, notFound)
		return err
	}
	return Book(w, *s.CurrentBook)
}

// Book prints every field of b.
func Book(w io.Writer, b book.Book) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", b.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", b.Title)
	fmt.Fprintf(tw, "Author:\t%s\n", b.Author)
	fmt.Fprintf(tw, "Year:\t%d\n", b.Year)
	fmt.Fprintf(tw, "ISBN:\t%s\n", dash(b.ISBN))
	if b.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", b.Description)
	}
	if !b.CreatedAt.IsZero() {
		fmt.Fprintf(tw, "Added:\t%s\n", b.CreatedAt.Format(dateLayout))
	}
	if !b.UpdatedAt.IsZero() && !b.UpdatedAt.Equal(b.CreatedAt) {
		fmt.Fprintf(tw, "Updated:\t%s\n", b.UpdatedAt.Format(dateLayout))
	}
	return tw.Flush()
}

// FieldErrors prints one line per invalid form field.
func FieldErrors(w io.Writer, errs validation.Errors) error {
	for _, fe := range errs {
		if _, err := fmt.Fprintf(w, "  %s: %s\n", fe.Field, fe.Message); err != nil {
			return err
		}
	}
	return nil
}

// Confirm asks a yes/no question on out and reads the answer from in. Only
// "y" and "yes" count as consent.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s [y/N] ", question); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
