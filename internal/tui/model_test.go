package tui

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/bookmarks"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/library"
	"github.com/mrlokans/bookshelf/internal/storage"
	"github.com/mrlokans/bookshelf/internal/view"
)

type fakeCatalog struct {
	mu      sync.Mutex
	books   []entities.Book
	created []entities.BookInput
	updated map[entities.BookID]entities.BookInput
	removed []entities.BookID
	err     error
}

func (f *fakeCatalog) List(context.Context, string) ([]entities.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return slices.Clone(f.books), nil
}

func (f *fakeCatalog) Create(_ context.Context, in entities.BookInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	f.books = append(f.books, entities.Book{
		ID:     entities.BookID(strconv.Itoa(len(f.books) + 10)),
		Title:  in.Title,
		Author: in.Author,
		Genre:  in.Genre,
		Year:   in.Year,
	})
	return nil
}

func (f *fakeCatalog) Update(_ context.Context, id entities.BookID, in entities.BookInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = map[entities.BookID]entities.BookInput{}
	}
	f.updated[id] = in
	return nil
}

func (f *fakeCatalog) Remove(_ context.Context, id entities.BookID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	f.books = slices.DeleteFunc(f.books, func(b entities.Book) bool { return b.ID == id })
	return nil
}

func (f *fakeCatalog) ToggleAvailability(_ context.Context, id entities.BookID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.books {
		if f.books[i].ID == id {
			f.books[i].Available = !f.books[i].Available
		}
	}
	return nil
}

type recordingSearch struct {
	mu        sync.Mutex
	inputs    []string
	submitted []string
}

func (r *recordingSearch) Input(value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = append(r.inputs, value)
}

func (r *recordingSearch) Submit(value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submitted = append(r.submitted, value)
}

func (r *recordingSearch) submissions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.submitted)
}

func newTestModel(t *testing.T) (Model, *fakeCatalog, *recordingSearch) {
	t.Helper()

	catalog := &fakeCatalog{books: []entities.Book{
		{ID: "1", Title: "Dune", Author: "Herbert", Genre: "Sci-Fi", Year: 1965, Available: true},
		{ID: "2", Title: "Emma", Author: "Austen", Genre: "Classic", Year: 1815},
	}}
	store := bookmarks.NewStore(storage.NewMemorySlot(nil), nil)
	lib := library.New(catalog, store)
	search := &recordingSearch{}

	m := New(context.Background(), lib, search)
	m = execute(t, m, m.Init())
	require.Len(t, m.snap.Visible, 2)
	return m, catalog, search
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func execute(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func TestModel_InitialLoad(t *testing.T) {
	m, _, _ := newTestModel(t)

	assert.Equal(t, ModeBrowse, m.Mode())
	assert.Equal(t, "Dune", m.snap.Visible[0].Title)
	assert.Contains(t, m.View(), "2 books, 1 available")
}

func TestModel_CursorStaysInRange(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, "k")
	assert.Equal(t, 0, m.Cursor())

	m, _ = press(t, m, "j", "j", "j")
	assert.Equal(t, 1, m.Cursor())
}

func TestModel_SearchFeedsController(t *testing.T) {
	m, _, search := newTestModel(t)

	m, _ = press(t, m, "/")
	assert.Equal(t, ModeSearch, m.Mode())

	m, _ = press(t, m, "d", "u")
	assert.Equal(t, []string{"d", "du"}, search.inputs)

	m, cmd := press(t, m, "enter")
	assert.Equal(t, ModeBrowse, m.Mode())
	assert.Empty(t, search.submissions(), "submit runs as a command")

	execute(t, m, cmd)
	assert.Equal(t, []string{"du"}, search.submissions())
}

func TestModel_DeleteNeedsConfirmation(t *testing.T) {
	m, catalog, _ := newTestModel(t)

	m, cmd := press(t, m, "d", "n")
	assert.Nil(t, cmd)
	assert.Equal(t, ModeBrowse, m.Mode())
	assert.Empty(t, catalog.removed)

	m, _ = press(t, m, "d")
	assert.Equal(t, ModeConfirm, m.Mode())
	assert.Contains(t, m.View(), `Delete "Dune"? (y/n)`)

	m, cmd = press(t, m, "y")
	m = execute(t, m, cmd)

	assert.Equal(t, []entities.BookID{"1"}, catalog.removed)
	assert.Len(t, m.snap.Visible, 1)
}

func TestModel_NewBookForm(t *testing.T) {
	m, catalog, _ := newTestModel(t)

	m, _ = press(t, m, "n")
	require.Equal(t, ModeForm, m.Mode())

	m, cmd := press(t, m, "H", "i", "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, ModeForm, m.Mode(), "the form stays open until it is valid")
	assert.Contains(t, m.notice, "author is required")
	assert.Empty(t, catalog.created)

	m, _ = press(t, m, "tab", "M", "e", "tab", "tab", "x")
	m, _ = press(t, m, "enter")
	assert.Contains(t, m.notice, "year must be a number")
	assert.Equal(t, ModeForm, m.Mode())
	assert.Empty(t, catalog.created)
}

func TestModel_CreateBook(t *testing.T) {
	m, catalog, _ := newTestModel(t)

	m, _ = press(t, m, "n", "H", "i", "tab", "M", "e", "tab", "tab", "2", "0", "2", "4")
	m, cmd := press(t, m, "enter")
	assert.Equal(t, ModeBrowse, m.Mode())

	m = execute(t, m, cmd)
	require.Len(t, catalog.created, 1)
	assert.Equal(t, "Hi", catalog.created[0].Title)
	assert.Equal(t, "Me", catalog.created[0].Author)
	assert.Equal(t, 2024, catalog.created[0].Year)
	assert.True(t, catalog.created[0].Available)
	assert.Len(t, m.snap.Visible, 3)
}

func TestModel_EditBook(t *testing.T) {
	m, catalog, _ := newTestModel(t)

	m, _ = press(t, m, "e")
	require.Equal(t, ModeForm, m.Mode())
	require.NotNil(t, m.snap.Editing)
	assert.Equal(t, "Dune", m.form.inputs[fieldTitle].Value())
	assert.Equal(t, "1965", m.form.inputs[fieldYear].Value())

	m, _ = press(t, m, "esc")
	assert.Equal(t, ModeBrowse, m.Mode())
	assert.Nil(t, m.snap.Editing)

	m, _ = press(t, m, "e", "!")
	m, cmd := press(t, m, "enter")
	m = execute(t, m, cmd)

	require.Contains(t, catalog.updated, entities.BookID("1"))
	assert.Equal(t, "Dune!", catalog.updated["1"].Title)
	assert.True(t, catalog.updated["1"].Available, "fields outside the form are kept")
	assert.Nil(t, m.snap.Editing)
}

func TestModel_ViewIntents(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, "s")
	assert.Equal(t, view.SortTitleDesc, m.snap.Sort)
	assert.Equal(t, "Emma", m.snap.Visible[0].Title)

	m, _ = press(t, m, "g")
	assert.Equal(t, "Sci-Fi", m.snap.SelectedGenre)
	assert.Len(t, m.snap.Visible, 1)

	m, _ = press(t, m, "g", "g")
	assert.Equal(t, view.AllGenres, m.snap.SelectedGenre)

	m, cmd := press(t, m, "b")
	m = execute(t, m, cmd)
	assert.Equal(t, []entities.BookID{"2"}, m.snap.ReadingList)

	m, _ = press(t, m, "tab")
	assert.Equal(t, view.TabReading, m.snap.Tab)
	assert.Equal(t, []string{"Emma"}, []string{m.snap.Visible[0].Title})
	assert.Contains(t, m.View(), "Reading List (1)")
}

func TestModel_ToggleAvailability(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, cmd := press(t, m, "a")
	m = execute(t, m, cmd)

	assert.Equal(t, library.Stats{Total: 2, Available: 0}, m.snap.Stats)
}

func TestModel_DetailPane(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, "j", "enter")
	require.Equal(t, ModeDetail, m.Mode())
	require.NotNil(t, m.snap.Selected)
	assert.Contains(t, m.View(), "Publisher: Unknown")

	m, _ = press(t, m, "esc")
	assert.Equal(t, ModeBrowse, m.Mode())
	assert.Nil(t, m.snap.Selected)
}

func TestModel_ErrorBanner(t *testing.T) {
	m, catalog, _ := newTestModel(t)
	catalog.err = errors.New("connection refused")

	m, cmd := press(t, m, "r")
	m = execute(t, m, cmd)

	assert.Contains(t, m.View(), library.MessageLoadFailed)
	assert.Len(t, m.snap.Visible, 2, "previous books stay visible")
}

func TestModel_SnapshotMsgClampsCursor(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, "j")

	next, _ := m.Update(SnapshotMsg(library.Snapshot{}))
	m = next.(Model)

	assert.Equal(t, 0, m.Cursor())
	assert.Contains(t, m.View(), "No books found.")
}

func TestModel_ChangedMsgRereadsLibrary(t *testing.T) {
	m, catalog, _ := newTestModel(t)
	catalog.mu.Lock()
	catalog.books = catalog.books[:1]
	catalog.mu.Unlock()
	require.NoError(t, m.lib.Refresh(context.Background()))
	require.Len(t, m.snap.Visible, 2)

	next, _ := m.Update(changedMsg{})
	m = next.(Model)

	assert.Len(t, m.snap.Visible, 1)
}

func TestModel_Quit(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
