// Package library owns the canonical view state of the book collection and
// sequences catalog calls so that the visible list follows the backend.
//
// Fetches are tagged with a sequence number when issued. A response is
// applied only if no later-issued fetch has been applied before it, so a
// slow stale response never overwrites a newer one. Mutations never patch
// the record set; on success they re-fetch with the active search term.
package library

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/view"
)

// Status of the collection view.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// User facing error messages.
const (
	MessageLoadFailed   = "Failed to load books. Please try again."
	MessageCreateFailed = "Failed to add book"
	MessageUpdateFailed = "Failed to update book"
	MessageDeleteFailed = "Failed to delete book"
	MessageToggleFailed = "Failed to toggle availability"
)

var (
	ErrNotConfirmed = errors.New("delete not confirmed")
	ErrBookNotFound = errors.New("book not found")
	ErrUnknownGenre = errors.New("unknown genre")
)

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithBuilder sets the view builder used for sorting.
func WithBuilder(b *view.Builder) Option {
	return func(l *Library) {
		if b != nil {
			l.builder = b
		}
	}
}

// WithSort sets the initial sort option.
func WithSort(option view.SortOption) Option {
	return func(l *Library) {
		l.sort = option
	}
}

// Library is the view-state orchestrator. It is safe for concurrent use.
type Library struct {
	catalog   Catalog
	bookmarks Bookmarks
	builder   *view.Builder
	logger    *zap.Logger

	mu       sync.Mutex
	outcome  Status
	errMsg   string
	term     string
	genre    string
	sort     view.SortOption
	tab      view.Tab
	books    []entities.Book
	baseline []entities.Book
	stats    Stats
	editing  *entities.Book
	selected *entities.Book

	issued   uint64
	applied  uint64
	inFlight int

	listenersMu sync.RWMutex
	listeners   []func(Snapshot)
}

// New creates an idle library. Nothing is fetched until Refresh or Search.
func New(catalog Catalog, bookmarks Bookmarks, opts ...Option) *Library {
	l := &Library{
		catalog:   catalog,
		bookmarks: bookmarks,
		builder:   view.NewBuilder("en"),
		logger:    zap.NewNop(),
		outcome:   StatusIdle,
		genre:     view.AllGenres,
		sort:      view.SortTitleAsc,
		tab:       view.TabAll,
		books:     []entities.Book{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OnChange registers fn to receive a snapshot after every state change.
// fn runs on the goroutine that made the change.
func (l *Library) OnChange(fn func(Snapshot)) {
	l.listenersMu.Lock()
	defer l.listenersMu.Unlock()
	l.listeners = append(l.listeners, fn)
}

func (l *Library) notify() {
	l.listenersMu.RLock()
	listeners := slices.Clone(l.listeners)
	l.listenersMu.RUnlock()

	if len(listeners) == 0 {
		return
	}
	snap := l.Snapshot()
	for _, fn := range listeners {
		fn(snap)
	}
}

// Search makes term the active search term and fetches with it.
func (l *Library) Search(ctx context.Context, term string) error {
	l.mu.Lock()
	l.term = term
	seq := l.issue()
	l.mu.Unlock()

	return l.fetch(ctx, seq, term)
}

// Refresh fetches with the active search term.
func (l *Library) Refresh(ctx context.Context) error {
	l.mu.Lock()
	term := l.term
	seq := l.issue()
	l.mu.Unlock()

	return l.fetch(ctx, seq, term)
}

// issue allocates the next request sequence number. The caller holds mu
// and reads or sets the term in the same critical section, so issue
// order and term order always agree.
func (l *Library) issue() uint64 {
	l.issued++
	l.inFlight++
	return l.issued
}

func (l *Library) fetch(ctx context.Context, seq uint64, term string) error {
	l.notify()

	books, err := l.catalog.List(ctx, term)

	l.mu.Lock()
	l.inFlight--
	if seq < l.applied {
		l.mu.Unlock()
		l.logger.Debug("discarding stale response",
			zap.Uint64("seq", seq),
			zap.String("search", term))
		l.notify()
		return nil
	}
	l.applied = seq

	if err != nil {
		l.outcome = StatusError
		l.errMsg = MessageLoadFailed
		l.mu.Unlock()
		l.logger.Error("failed to load books", zap.Error(err), zap.String("search", term))
		l.notify()
		return fmt.Errorf("list books: %w", err)
	}

	l.books = books
	if term == "" {
		l.baseline = books
	}
	l.stats = computeStats(books)
	l.outcome = StatusReady
	l.errMsg = ""
	if l.selected != nil {
		if b, ok := findBook(books, l.selected.ID); ok {
			l.selected = &b
		}
	}
	l.mu.Unlock()

	l.logger.Debug("books loaded", zap.Int("count", len(books)), zap.String("search", term))
	l.notify()
	return nil
}

func computeStats(books []entities.Book) Stats {
	s := Stats{Total: len(books)}
	for _, b := range books {
		if b.Available {
			s.Available++
		}
	}
	return s
}

// Create adds a book and re-fetches on success.
func (l *Library) Create(ctx context.Context, input entities.BookInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	if err := l.catalog.Create(ctx, input); err != nil {
		l.fail(MessageCreateFailed, "failed to create book", err)
		return fmt.Errorf("create book: %w", err)
	}
	l.logger.Info("book created", zap.String("title", input.Title))
	return l.Refresh(ctx)
}

// Update replaces a book, clears the edit target and re-fetches on success.
func (l *Library) Update(ctx context.Context, id entities.BookID, input entities.BookInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	if err := l.catalog.Update(ctx, id, input); err != nil {
		l.fail(MessageUpdateFailed, "failed to update book", err, zap.Stringer("book_id", id))
		return fmt.Errorf("update book %s: %w", id, err)
	}

	l.mu.Lock()
	l.editing = nil
	l.mu.Unlock()

	l.logger.Info("book updated", zap.Stringer("book_id", id))
	return l.Refresh(ctx)
}

// Delete removes a book once confirm approves it. A nil or declining
// confirm returns ErrNotConfirmed without touching anything.
func (l *Library) Delete(ctx context.Context, id entities.BookID, confirm ConfirmFunc) error {
	if confirm == nil || !confirm(id) {
		return ErrNotConfirmed
	}
	if err := l.catalog.Remove(ctx, id); err != nil {
		l.fail(MessageDeleteFailed, "failed to delete book", err, zap.Stringer("book_id", id))
		return fmt.Errorf("delete book %s: %w", id, err)
	}

	l.mu.Lock()
	if l.editing != nil && l.editing.ID == id {
		l.editing = nil
	}
	if l.selected != nil && l.selected.ID == id {
		l.selected = nil
	}
	l.mu.Unlock()

	l.logger.Info("book deleted", zap.Stringer("book_id", id))
	return l.Refresh(ctx)
}

// ToggleAvailability flips a book's availability and re-fetches on success.
func (l *Library) ToggleAvailability(ctx context.Context, id entities.BookID) error {
	if err := l.catalog.ToggleAvailability(ctx, id); err != nil {
		l.fail(MessageToggleFailed, "failed to toggle availability", err, zap.Stringer("book_id", id))
		return fmt.Errorf("toggle availability %s: %w", id, err)
	}
	return l.Refresh(ctx)
}

func (l *Library) fail(message, logMsg string, err error, fields ...zap.Field) {
	l.mu.Lock()
	l.errMsg = message
	l.outcome = StatusError
	l.mu.Unlock()

	l.logger.Error(logMsg, append(fields, zap.Error(err))...)
	l.notify()
}

// ToggleBookmark flips reading list membership and reports the new state.
func (l *Library) ToggleBookmark(ctx context.Context, id entities.BookID) bool {
	bookmarked := l.bookmarks.Toggle(ctx, id)
	l.notify()
	return bookmarked
}

// SelectGenre restricts the visible list to genre. An empty genre selects
// every genre.
func (l *Library) SelectGenre(genre string) error {
	if genre == "" {
		genre = view.AllGenres
	}

	l.mu.Lock()
	if !slices.Contains(view.Genres(l.baseline, l.books), genre) {
		l.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownGenre, genre)
	}
	l.genre = genre
	l.mu.Unlock()

	l.notify()
	return nil
}

// SetSort changes the ordering of the visible list.
func (l *Library) SetSort(option view.SortOption) {
	l.mu.Lock()
	l.sort = option
	l.mu.Unlock()
	l.notify()
}

// SetTab switches between the whole collection and the reading list.
func (l *Library) SetTab(tab view.Tab) {
	l.mu.Lock()
	l.tab = tab
	l.mu.Unlock()
	l.notify()
}

// Edit makes the book with id the edit target.
func (l *Library) Edit(id entities.BookID) error {
	return l.pick(id, func(b *entities.Book) { l.editing = b })
}

// CancelEdit clears the edit target.
func (l *Library) CancelEdit() {
	l.mu.Lock()
	l.editing = nil
	l.mu.Unlock()
	l.notify()
}

// Select opens the detail view for the book with id.
func (l *Library) Select(id entities.BookID) error {
	return l.pick(id, func(b *entities.Book) { l.selected = b })
}

// CloseDetail closes the detail view.
func (l *Library) CloseDetail() {
	l.mu.Lock()
	l.selected = nil
	l.mu.Unlock()
	l.notify()
}

func (l *Library) pick(id entities.BookID, set func(*entities.Book)) error {
	l.mu.Lock()
	b, ok := findBook(l.books, id)
	if !ok {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}
	set(&b)
	l.mu.Unlock()

	l.notify()
	return nil
}

func findBook(books []entities.Book, id entities.BookID) (entities.Book, bool) {
	for _, b := range books {
		if b.ID == id {
			return b, true
		}
	}
	return entities.Book{}, false
}
