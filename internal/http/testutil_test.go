package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/bookmarks"
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/library"
	"github.com/mrlokans/bookshelf/internal/search"
	"github.com/mrlokans/bookshelf/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeBackend is an in-memory books API.
type fakeBackend struct {
	mu      sync.Mutex
	books   []entities.Book
	nextID  int
	failing bool
	calls   []string
}

func newFakeBackend(t *testing.T, books ...entities.Book) (*fakeBackend, *httptest.Server) {
	t.Helper()
	b := &fakeBackend{books: books, nextID: len(books) + 1}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/books", b.list)
	mux.HandleFunc("POST /api/books", b.create)
	mux.HandleFunc("PUT /api/books/{id}", b.update)
	mux.HandleFunc("DELETE /api/books/{id}", b.remove)
	mux.HandleFunc("PATCH /api/books/{id}/toggle-availability", b.toggle)

	srv := httptest.NewServer(b.record(mux))
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *fakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, r.Method+" "+r.URL.RequestURI())
		failing := b.failing
		b.mu.Unlock()

		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *fakeBackend) setFailing(failing bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failing = failing
}

func (b *fakeBackend) recorded() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *fakeBackend) list(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	term := strings.ToLower(r.URL.Query().Get("search"))
	out := []entities.Book{}
	for _, book := range b.books {
		if term == "" || strings.Contains(strings.ToLower(book.Title), term) {
			out = append(out, book)
		}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"books": out})
}

func (b *fakeBackend) create(w http.ResponseWriter, r *http.Request) {
	var in entities.BookInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	book := entities.Book{
		ID:        entities.BookID(strconv.Itoa(b.nextID)),
		Title:     in.Title,
		Author:    in.Author,
		Genre:     in.Genre,
		Year:      in.Year,
		Available: in.Available,
	}
	b.nextID++
	b.books = append(b.books, book)
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(book)
}

func (b *fakeBackend) index(id string) int {
	for i, book := range b.books {
		if book.ID.String() == id {
			return i
		}
	}
	return -1
}

func (b *fakeBackend) update(w http.ResponseWriter, r *http.Request) {
	var in entities.BookInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.index(r.PathValue("id"))
	if i < 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	b.books[i].Title = in.Title
	b.books[i].Author = in.Author
	w.WriteHeader(http.StatusOK)
}

func (b *fakeBackend) remove(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.index(r.PathValue("id"))
	if i < 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	b.books = append(b.books[:i], b.books[i+1:]...)
	w.WriteHeader(http.StatusOK)
}

func (b *fakeBackend) toggle(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.index(r.PathValue("id"))
	if i < 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	b.books[i].Available = !b.books[i].Available
	w.WriteHeader(http.StatusOK)
}

type testApp struct {
	router  *gin.Engine
	backend *fakeBackend
	lib     *library.Library
	slot    *storage.MemorySlot
}

func setupTestApp(t *testing.T, books ...entities.Book) *testApp {
	t.Helper()

	backend, srv := newFakeBackend(t, books...)
	slot := storage.NewMemorySlot(nil)
	store := bookmarks.NewStore(slot, nil)
	store.Load(context.Background())

	lib := library.New(catalog.NewClient(srv.URL), store)
	input := search.NewController(func(term string) {
		_ = lib.Search(context.Background(), term)
	}, search.WithDelay(20*time.Millisecond))
	t.Cleanup(input.Close)

	router := NewRouter(RouterConfig{
		Library:            lib,
		Search:             input,
		ReadingListBackend: storage.BackendMemory,
		Version:            "test",
	})

	require.NoError(t, lib.Refresh(context.Background()))
	return &testApp{router: router, backend: backend, lib: lib, slot: slot}
}

func (a *testApp) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) library.Snapshot {
	t.Helper()
	var snap library.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

func twoBooks() []entities.Book {
	return []entities.Book{
		{ID: "1", Title: "B", Author: "X", Available: true},
		{ID: "2", Title: "A", Author: "Y", Available: false},
	}
}

func titles(books []entities.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}
