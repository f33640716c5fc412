// Command bookctl is the terminal front end of the catalog: it renders the
// book list, detail and form views against the REST API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookshelf/internal/apiclient"
	"bookshelf/internal/config"
	"bookshelf/internal/logging"
	"bookshelf/internal/notify"
	"bookshelf/internal/store"
	"bookshelf/internal/version"

	"go.uber.org/zap"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const usage = `Usage: bookctl [global flags] <command> [flags] [args]

Commands:
  list                 list books (--title, --author, --year, --page, --limit)
  show <id>            show one book
  search <query>       search title, author and description
  create               add a book (--title, --author, --year, --isbn, --description)
  update <id>          change fields of a book (same flags as create)
  delete <id>          delete a book (--yes skips the confirmation)
  version              print version information

Global flags:
`

// app carries everything a command needs.
type app struct {
	store  *store.Store
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	config.LoadEnvFiles()
	cfg, err := config.Load(nil)
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return exitFailure
	}

	fs := flag.NewFlagSet("bookctl", flag.ContinueOnError)
	fs.SetOutput(errOut)
	apiURL := fs.String("api-url", cfg.APIURL, "base URL of the books API")
	timeout := fs.Duration("timeout", cfg.APITimeout, "per-request timeout")
	verbose := fs.Bool("verbose", false, "log requests and state changes to stderr")
	fs.Usage = func() {
		fmt.Fprint(errOut, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	if cmd == "version" {
		fmt.Fprintln(out, version.Info("bookctl"))
		return exitOK
	}

	a, err := newApp(*apiURL, *timeout, *verbose, in, out, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "logger: %v\n", err)
		return exitFailure
	}
	defer func() { _ = a.logger.Sync() }()

	switch cmd {
	case "list":
		return a.list(ctx, cmdArgs)
	case "show":
		return a.show(ctx, cmdArgs)
	case "search":
		return a.search(ctx, cmdArgs)
	case "create":
		return a.create(ctx, cmdArgs)
	case "update":
		return a.update(ctx, cmdArgs)
	case "delete":
		return a.delete(ctx, cmdArgs)
	default:
		fmt.Fprintf(errOut, "unknown command %q\n\n", cmd)
		fs.Usage()
		return exitUsage
	}
}

func newApp(apiURL string, timeout time.Duration, verbose bool, in io.Reader, out, errOut io.Writer) (*app, error) {
	level := "error"
	if verbose {
		level = "debug"
	}
	logger, err := logging.NewConsole(level)
	if err != nil {
		return nil, err
	}

	notifier := notify.NewWriter(errOut)
	client := apiclient.New(apiURL,
		apiclient.WithTimeout(timeout),
		apiclient.WithNotifier(notifier),
		apiclient.WithLogger(logger),
	)
	st := store.New(apiclient.NewBookService(client), notifier, logger)
	if verbose {
		st.Subscribe(func(s store.State) {
			logger.Debug("state",
				zap.Int("books", len(s.Books)),
				zap.Int("total", s.Total),
				zap.Int("page", s.Page),
				zap.Bool("loading", s.Loading),
				zap.String("error", s.Error),
			)
		})
	}

	return &app{store: st, in: in, out: out, errOut: errOut, logger: logger}, nil
}
