package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"bookshelf/internal/book"
	"bookshelf/internal/store"
	"bookshelf/internal/validation"
	"bookshelf/internal/view"
)

// parseArgs parses fs allowing flags before and after positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid book id %q", raw)
	}
	return id, nil
}

func (a *app) singleID(fs *flag.FlagSet, args []string) (int64, bool) {
	positional, err := parseArgs(fs, args)
	if err != nil {
		return 0, false
	}
	if len(positional) != 1 {
		fmt.Fprintf(a.errOut, "usage: bookctl %s <id>\n", fs.Name())
		return 0, false
	}
	id, err := parseID(positional[0])
	if err != nil {
		fmt.Fprintln(a.errOut, err)
		return 0, false
	}
	return id, true
}

func (a *app) list(ctx context.Context, args []string) int {
	fs := a.newFlagSet("list")
	title := fs.String("title", "", "filter by title substring")
	author := fs.String("author", "", "filter by author substring")
	year := fs.Int("year", 0, "filter by publication year")
	page := fs.Int("page", 1, "page number, starting at 1")
	limit := fs.Int("limit", book.DefaultLimit, "books per page")
	if _, err := parseArgs(fs, args); err != nil {
		return exitUsage
	}

	f := a.store.State().Filters
	f.Title = strings.TrimSpace(*title)
	f.Author = strings.TrimSpace(*author)
	f.Year = nil
	if *year != 0 {
		f.Year = book.Ptr(*year)
	}
	if *limit > 0 {
		f.Limit = book.Ptr(*limit)
	}
	// SetPage performs the only fetch, with these filters and the page offset.
	a.store.Dispatch(store.SetFilters{Filters: f})
	a.store.SetPage(ctx, *page)

	s := a.store.State()
	if err := view.List(a.out, s); err != nil {
		return exitFailure
	}
	if s.Error != "" {
		return exitFailure
	}
	return exitOK
}

func (a *app) show(ctx context.Context, args []string) int {
	id, ok := a.singleID(a.newFlagSet("show"), args)
	if !ok {
		return exitUsage
	}

	a.store.FetchOne(ctx, id)
	s := a.store.State()
	if err := view.Detail(a.out, s); err != nil || s.CurrentBook == nil {
		return exitFailure
	}
	return exitOK
}

func (a *app) search(ctx context.Context, args []string) int {
	fs := a.newFlagSet("search")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return exitUsage
	}
	query := strings.TrimSpace(strings.Join(positional, " "))
	if query == "" {
		fmt.Fprintln(a.errOut, "usage: bookctl search <query>")
		return exitUsage
	}

	a.store.Search(ctx, query)
	s := a.store.State()
	if err := view.List(a.out, s); err != nil || s.Error != "" {
		return exitFailure
	}
	return exitOK
}

// formFlags are the book form fields shared by create and update.
type formFlags struct {
	title, author, isbn, description *string
	year                             *int
}

func bindForm(fs *flag.FlagSet) formFlags {
	return formFlags{
		title:       fs.String("title", "", "book title"),
		author:      fs.String("author", "", "book author"),
		year:        fs.Int("year", 0, "publication year"),
		isbn:        fs.String("isbn", "", "13-character ISBN"),
		description: fs.String("description", "", "short description"),
	}
}

// validate runs the form rules and prints any field errors.
func (a *app) validate(req any) bool {
	err := validation.New().Validate(req)
	if err == nil {
		return true
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fmt.Fprintln(a.errOut, "Please fix the following errors:")
		_ = view.FieldErrors(a.errOut, verrs)
		return false
	}
	fmt.Fprintln(a.errOut, err)
	return false
}

func (a *app) create(ctx context.Context, args []string) int {
	fs := a.newFlagSet("create")
	form := bindForm(fs)
	if _, err := parseArgs(fs, args); err != nil {
		return exitUsage
	}

	req := book.CreateRequest{
		Title:       strings.TrimSpace(*form.title),
		Author:      strings.TrimSpace(*form.author),
		Year:        *form.year,
		ISBN:        strings.TrimSpace(*form.isbn),
		Description: strings.TrimSpace(*form.description),
	}
	if !a.validate(req) {
		return exitUsage
	}
	if !a.store.Create(ctx, req) {
		return exitFailure
	}
	if err := view.Book(a.out, a.store.State().Books[0]); err != nil {
		return exitFailure
	}
	return exitOK
}

func (a *app) update(ctx context.Context, args []string) int {
	fs := a.newFlagSet("update")
	form := bindForm(fs)
	id, ok := a.singleID(fs, args)
	if !ok {
		return exitUsage
	}

	var req book.UpdateRequest
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			req.Title = book.Ptr(strings.TrimSpace(*form.title))
		case "author":
			req.Author = book.Ptr(strings.TrimSpace(*form.author))
		case "year":
			req.Year = book.Ptr(*form.year)
		case "isbn":
			req.ISBN = book.Ptr(strings.TrimSpace(*form.isbn))
		case "description":
			req.Description = book.Ptr(strings.TrimSpace(*form.description))
		}
	})
	if req.Empty() {
		fmt.Fprintln(a.errOut, "nothing to update: pass at least one of --title, --author, --year, --isbn, --description")
		return exitUsage
	}
	if !a.validate(req) {
		return exitUsage
	}

	a.store.FetchOne(ctx, id)
	if a.store.State().CurrentBook == nil {
		_ = view.Detail(a.out, a.store.State())
		return exitFailure
	}
	if !a.store.Update(ctx, id, req) {
		return exitFailure
	}
	if err := view.Detail(a.out, a.store.State()); err != nil {
		return exitFailure
	}
	return exitOK
}

func (a *app) delete(ctx context.Context, args []string) int {
	fs := a.newFlagSet("delete")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	id, ok := a.singleID(fs, args)
	if !ok {
		return exitUsage
	}

	a.store.FetchOne(ctx, id)
	s := a.store.State()
	if s.CurrentBook == nil {
		_ = view.Detail(a.out, s)
		return exitFailure
	}

	if !*yes {
		_ = view.Book(a.out, *s.CurrentBook)
		confirmed, err := view.Confirm(a.in, a.out, "Are you sure you want to delete this book?")
		if err != nil {
			fmt.Fprintln(a.errOut, err)
			return exitFailure
		}
		if !confirmed {
			fmt.Fprintln(a.out, "Cancelled")
			return exitOK
		}
	}

	if !a.store.Delete(ctx, id) {
		return exitFailure
	}
	return exitOK
}
