package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	fieldTitle = iota
	fieldAuthor
	fieldGenre
	fieldYear
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Author", "Genre", "Year"}

// bookForm edits the fields of a new or existing book. Fields it does not
// show are carried over from the edited record unchanged.
type bookForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	editID entities.BookID
	base   entities.BookInput
}

func newBookForm(book *entities.Book) bookForm {
	f := bookForm{base: entities.BookInput{Available: true}}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = fieldLabels[i]
		in.Prompt = ""
		in.CharLimit = 200
		in.Width = 40
		f.inputs[i] = in
	}
	f.inputs[fieldYear].CharLimit = 4

	if book != nil {
		f.editID = book.ID
		f.base = book.Input()
		f.inputs[fieldTitle].SetValue(book.Title)
		f.inputs[fieldAuthor].SetValue(book.Author)
		f.inputs[fieldGenre].SetValue(book.Genre)
		if book.Year != 0 {
			f.inputs[fieldYear].SetValue(strconv.Itoa(book.Year))
		}
	}
	return f
}

func (f *bookForm) editing() bool {
	return f.editID != ""
}

func (f *bookForm) focusCmd() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *bookForm) move(delta int) tea.Cmd {
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.focusCmd()
}

func (f *bookForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *bookForm) value(field int) string {
	return strings.TrimSpace(f.inputs[field].Value())
}

// input builds the payload from the form fields.
func (f *bookForm) input() (entities.BookInput, error) {
	in := f.base
	in.Title = f.value(fieldTitle)
	in.Author = f.value(fieldAuthor)
	in.Genre = f.value(fieldGenre)
	in.Year = 0

	if raw := f.value(fieldYear); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return in, fmt.Errorf("%w: year must be a number", entities.ErrInvalidBook)
		}
		in.Year = year
	}
	return in, nil
}
