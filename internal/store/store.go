// Package store holds the client-side catalog state. All reads go through
// State snapshots; all writes go through Dispatch, which runs the pure reducer
// under a mutex and then notifies subscribers.
package store

import (
	"context"
	"sync"

	"bookshelf/internal/book"
	"bookshelf/internal/notify"

	"go.uber.org/zap"
)

const (
	msgFetchBooksFailed = "Failed to fetch books"
	msgFetchBookFailed  = "Failed to fetch book"
	msgSearchFailed     = "Search failed"

	msgCreated = "Book created successfully"
	msgUpdated = "Book updated successfully"
	msgDeleted = "Book deleted successfully"
)

// BookService is the remote catalog the store talks to.
type BookService interface {
	List(ctx context.Context, f book.Filter) (book.ListResponse, error)
	Get(ctx context.Context, id int64) (book.ItemResponse, error)
	Create(ctx context.Context, req book.CreateRequest) (book.ItemResponse, error)
	Update(ctx context.Context, id int64, req book.UpdateRequest) (book.ItemResponse, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string) (book.ListResponse, error)
}

// Store is the single source of truth for the views.
type Store struct {
	service  BookService
	notifier notify.Notifier
	logger   *zap.Logger

	mu    sync.Mutex
	state State
	// listSeq and detailSeq identify the latest issued fetch; responses of
	// older fetches are dropped.
	listSeq   uint64
	detailSeq uint64
	subs      map[int]func(State)
	nextSub   int
}

// New returns a Store in its initial state. Nil notifier and logger are
// replaced with no-ops.
func New(service BookService, notifier notify.Notifier, logger *zap.Logger) *Store {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		service:  service,
		notifier: notifier,
		logger:   logger,
		state:    InitialState(),
		subs:     make(map[int]func(State)),
	}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to be called with a snapshot after every dispatch.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Dispatch applies actions in order and notifies subscribers once.
func (s *Store) Dispatch(actions ...Action) {
	s.mu.Lock()
	s.apply(actions)
	snapshot, subs := s.publishLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

func (s *Store) apply(actions []Action) {
	for _, a := range actions {
		s.logger.Debug("dispatch", zap.String("action", a.Type()))
		s.state = Reduce(s.state, a)
	}
}

func (s *Store) publishLocked() (State, []func(State)) {
	if len(s.subs) == 0 {
		return State{}, nil
	}
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return s.state.clone(), subs
}

// begin bumps seq and marks the store as loading. The returned value is the
// ticket of this fetch.
func (s *Store) begin(seq *uint64) uint64 {
	s.mu.Lock()
	*seq++
	ticket := *seq
	s.apply([]Action{SetLoading{Loading: true}})
	snapshot, subs := s.publishLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
	return ticket
}

// commit applies actions only if ticket is still the latest fetch.
func (s *Store) commit(seq *uint64, ticket uint64, actions ...Action) bool {
	s.mu.Lock()
	if *seq != ticket {
		s.mu.Unlock()
		s.logger.Debug("dropping stale response", zap.Uint64("ticket", ticket))
		return false
	}
	s.apply(actions)
	snapshot, subs := s.publishLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
	return true
}

// FetchList loads the page described by the current filters.
func (s *Store) FetchList(ctx context.Context) {
	filters := s.State().Filters
	ticket := s.begin(&s.listSeq)

	res, err := s.service.List(ctx, filters)
	if err != nil {
		s.logger.Warn("fetch books failed", zap.Error(err))
		s.commit(&s.listSeq, ticket, SetError{Message: msgFetchBooksFailed})
		return
	}
	s.commit(&s.listSeq, ticket, SetBooks{Books: res.Data, Total: res.Total})
}

// FetchOne loads a single book into CurrentBook. On failure CurrentBook is
// cleared so the detail view never shows a different book.
func (s *Store) FetchOne(ctx context.Context, id int64) {
	ticket := s.begin(&s.detailSeq)

	res, err := s.service.Get(ctx, id)
	if err != nil {
		s.logger.Warn("fetch book failed", zap.Int64("id", id), zap.Error(err))
		s.commit(&s.detailSeq, ticket, SetCurrentBook{}, SetError{Message: msgFetchBookFailed})
		return
	}
	b := res.Data
	s.commit(&s.detailSeq, ticket, SetCurrentBook{Book: &b}, SetLoading{Loading: false})
}

// Search replaces the list with the matches for query. Filters are left as
// they are.
func (s *Store) Search(ctx context.Context, query string) {
	ticket := s.begin(&s.listSeq)

	res, err := s.service.Search(ctx, query)
	if err != nil {
		s.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
		s.commit(&s.listSeq, ticket, SetError{Message: msgSearchFailed})
		return
	}
	s.commit(&s.listSeq, ticket, SetBooks{Books: res.Data, Total: res.Total})
}

// Create submits req and prepends the created book to the list.
func (s *Store) Create(ctx context.Context, req book.CreateRequest) bool {
	res, err := s.service.Create(ctx, req)
	if err != nil {
		s.logger.Warn("create book failed", zap.Error(err))
		return false
	}
	s.Dispatch(AddBook{Book: res.Data})
	s.notifier.Success(msgCreated)
	return true
}

// Update submits req and patches the list and CurrentBook with the result.
func (s *Store) Update(ctx context.Context, id int64, req book.UpdateRequest) bool {
	res, err := s.service.Update(ctx, id, req)
	if err != nil {
		s.logger.Warn("update book failed", zap.Int64("id", id), zap.Error(err))
		return false
	}
	s.Dispatch(UpdateBook{Book: res.Data})
	s.notifier.Success(msgUpdated)
	return true
}

// Delete removes the book once the server has confirmed it.
func (s *Store) Delete(ctx context.Context, id int64) bool {
	if err := s.service.Delete(ctx, id); err != nil {
		s.logger.Warn("delete book failed", zap.Int64("id", id), zap.Error(err))
		return false
	}
	s.Dispatch(DeleteBook{ID: id})
	s.notifier.Success(msgDeleted)
	return true
}

// SetFilters replaces the filters and refetches the list.
func (s *Store) SetFilters(ctx context.Context, f book.Filter) {
	s.Dispatch(SetFilters{Filters: f})
	s.FetchList(ctx)
}

// SetPage moves to page n, keeping offset equal to (n-1)*limit. Pages below 1
// are treated as 1.
func (s *Store) SetPage(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}
	f := s.State().Filters
	limit := f.LimitOr(book.DefaultLimit)
	f.Limit = book.Ptr(limit)
	f.Offset = book.Ptr((n - 1) * limit)

	s.Dispatch(SetPage{Page: n})
	s.SetFilters(ctx, f)
}

// ClearCurrentBook drops the selected book.
func (s *Store) ClearCurrentBook() {
	s.Dispatch(SetCurrentBook{})
}
