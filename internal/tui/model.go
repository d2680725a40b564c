// Package tui is the terminal front end of the collection browser.
package tui

import (
	"context"
	"errors"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/library"
	"github.com/mrlokans/bookshelf/internal/view"
)

// Library is the view state the browser drives. *library.Library satisfies it.
type Library interface {
	Snapshot() library.Snapshot
	Refresh(ctx context.Context) error
	Create(ctx context.Context, input entities.BookInput) error
	Update(ctx context.Context, id entities.BookID, input entities.BookInput) error
	Delete(ctx context.Context, id entities.BookID, confirm library.ConfirmFunc) error
	ToggleAvailability(ctx context.Context, id entities.BookID) error
	ToggleBookmark(ctx context.Context, id entities.BookID) bool
	SelectGenre(genre string) error
	SetSort(option view.SortOption)
	SetTab(tab view.Tab)
	Edit(id entities.BookID) error
	CancelEdit()
	Select(id entities.BookID) error
	CloseDetail()
}

// SearchInput receives the raw contents of the search box. Submit may
// fetch before it returns, so the browser calls it from a command.
type SearchInput interface {
	Input(value string)
	Submit(value string)
}

// Mode is the current interaction mode.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeSearch
	ModeForm
	ModeConfirm
	ModeDetail
)

// SnapshotMsg delivers a new view state to the program.
type SnapshotMsg library.Snapshot

// resultMsg reports the end of an asynchronous intent.
type resultMsg struct {
	err error
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx    context.Context
	lib    Library
	search SearchInput
	keys   KeyMap
	styles Styles

	snap   library.Snapshot
	cursor int
	mode   Mode

	searchBox textinput.Model
	form      bookForm
	pending   entities.BookID
	notice    string

	width  int
	height int
}

// New creates the browser model.
func New(ctx context.Context, lib Library, search SearchInput) Model {
	if ctx == nil {
		ctx = context.Background()
	}

	box := textinput.New()
	box.Placeholder = "Search by title, author or genre"
	box.Prompt = "/ "
	box.CharLimit = 120
	box.Width = 40

	return Model{
		ctx:       ctx,
		lib:       lib,
		search:    search,
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		snap:      lib.Snapshot(),
		searchBox: box,
		width:     80,
		height:    24,
	}
}

// Mode returns the current interaction mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Cursor returns the index of the highlighted book.
func (m Model) Cursor() int {
	return m.cursor
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.run(func(ctx context.Context) error { return m.lib.Refresh(ctx) })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SnapshotMsg:
		m.setSnapshot(library.Snapshot(msg))
		return m, nil

	case changedMsg:
		m.setSnapshot(m.lib.Snapshot())
		return m, nil

	case resultMsg:
		m.setSnapshot(m.lib.Snapshot())
		if errors.Is(msg.err, entities.ErrInvalidBook) {
			m.notice = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeSearch:
			return m.updateSearch(msg)
		case ModeForm:
			return m.updateForm(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		case ModeDetail:
			return m.updateDetail(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snap.Visible)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Search):
		m.mode = ModeSearch
		return m, m.searchBox.Focus()

	case key.Matches(msg, m.keys.Genre):
		if err := m.lib.SelectGenre(next(m.snap.Genres, m.snap.SelectedGenre)); err != nil {
			m.notice = err.Error()
		}
		m.setSnapshot(m.lib.Snapshot())

	case key.Matches(msg, m.keys.Sort):
		m.lib.SetSort(next(view.SortOptions, m.snap.Sort))
		m.setSnapshot(m.lib.Snapshot())

	case key.Matches(msg, m.keys.Tab):
		tab := view.TabReading
		if m.snap.Tab == view.TabReading {
			tab = view.TabAll
		}
		m.lib.SetTab(tab)
		m.cursor = 0
		m.setSnapshot(m.lib.Snapshot())

	case key.Matches(msg, m.keys.Refresh):
		return m, m.run(func(ctx context.Context) error { return m.lib.Refresh(ctx) })

	case key.Matches(msg, m.keys.New):
		return m.openForm(nil)
	}

	book, ok := m.current()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Bookmark):
		return m, m.run(func(ctx context.Context) error {
			m.lib.ToggleBookmark(ctx, book.ID)
			return nil
		})

	case key.Matches(msg, m.keys.Toggle):
		return m, m.run(func(ctx context.Context) error { return m.lib.ToggleAvailability(ctx, book.ID) })

	case key.Matches(msg, m.keys.Delete):
		m.pending = book.ID
		m.mode = ModeConfirm

	case key.Matches(msg, m.keys.Edit):
		return m.openForm(&book)

	case key.Matches(msg, m.keys.Detail):
		if err := m.lib.Select(book.ID); err == nil {
			m.mode = ModeDetail
		}
		m.setSnapshot(m.lib.Snapshot())
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searchBox.Blur()
		m.mode = ModeBrowse
		return m, nil

	case tea.KeyEnter:
		m.searchBox.Blur()
		m.mode = ModeBrowse
		m.cursor = 0
		value := m.searchBox.Value()
		return m, m.run(func(context.Context) error {
			m.search.Submit(value)
			return nil
		})
	}

	before := m.searchBox.Value()
	var cmd tea.Cmd
	m.searchBox, cmd = m.searchBox.Update(msg)
	if value := m.searchBox.Value(); value != before {
		m.cursor = 0
		m.search.Input(value)
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pending
	m.pending = ""
	m.mode = ModeBrowse

	if !key.Matches(msg, m.keys.Confirm) {
		return m, nil
	}
	return m, m.run(func(ctx context.Context) error {
		return m.lib.Delete(ctx, id, func(entities.BookID) bool { return true })
	})
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Detail):
		m.lib.CloseDetail()
		m.mode = ModeBrowse
		m.setSnapshot(m.lib.Snapshot())

	case key.Matches(msg, m.keys.Edit):
		if m.snap.Selected != nil {
			book := *m.snap.Selected
			m.lib.CloseDetail()
			return m.openForm(&book)
		}
	}
	return m, nil
}

func (m Model) openForm(book *entities.Book) (tea.Model, tea.Cmd) {
	if book != nil {
		if err := m.lib.Edit(book.ID); err != nil {
			m.notice = err.Error()
			return m, nil
		}
	}
	m.form = newBookForm(book)
	m.mode = ModeForm
	m.notice = ""
	m.setSnapshot(m.lib.Snapshot())
	return m, m.form.focusCmd()
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.form.editing() {
			m.lib.CancelEdit()
		}
		m.mode = ModeBrowse
		m.notice = ""
		m.setSnapshot(m.lib.Snapshot())
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		return m, m.form.move(1)

	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.form.move(-1)

	case tea.KeyEnter:
		return m.submitForm()
	}

	return m, m.form.update(msg)
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	input, err := m.form.input()
	if err == nil {
		err = input.Validate()
	}
	if err != nil {
		m.notice = err.Error()
		return m, nil
	}

	m.mode = ModeBrowse
	m.notice = ""
	if id := m.form.editID; id != "" {
		return m, m.run(func(ctx context.Context) error { return m.lib.Update(ctx, id, input) })
	}
	return m, m.run(func(ctx context.Context) error { return m.lib.Create(ctx, input) })
}

// run executes an intent off the update loop.
func (m Model) run(fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return resultMsg{err: fn(ctx)}
	}
}

func (m *Model) setSnapshot(snap library.Snapshot) {
	m.snap = snap
	if m.cursor >= len(snap.Visible) {
		m.cursor = len(snap.Visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) current() (entities.Book, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Visible) {
		return entities.Book{}, false
	}
	return m.snap.Visible[m.cursor], true
}

// next returns the element after current, wrapping around.
func next[T comparable](items []T, current T) T {
	if len(items) == 0 {
		return current
	}
	i := slices.Index(items, current)
	return items[(i+1)%len(items)]
}
