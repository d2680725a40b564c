package library

import (
	"slices"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/view"
)

// Snapshot is an immutable copy of the view state handed to front ends.
type Snapshot struct {
	Status        Status            `json:"status"`
	Loading       bool              `json:"loading"`
	Error         string            `json:"error,omitempty"`
	SearchTerm    string            `json:"searchTerm"`
	SelectedGenre string            `json:"selectedGenre"`
	Sort          view.SortOption   `json:"sort"`
	Tab           view.Tab          `json:"tab"`
	Stats         Stats             `json:"stats"`
	Genres        []string          `json:"genres"`
	Books         []entities.Book   `json:"books"`
	Visible       []entities.Book   `json:"visible"`
	ReadingList   []entities.BookID `json:"readingList"`
	Editing       *entities.Book    `json:"editing,omitempty"`
	Selected      *entities.Book    `json:"selected,omitempty"`
}

// Bookmarked reports whether id is on the reading list.
func (s Snapshot) Bookmarked(id entities.BookID) bool {
	return slices.Contains(s.ReadingList, id)
}

// Snapshot returns the current state with the derived view computed.
func (l *Library) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	status := l.outcome
	if l.inFlight > 0 {
		status = StatusLoading
	}

	books := slices.Clone(l.books)
	if books == nil {
		books = []entities.Book{}
	}
	visible := l.builder.Build(l.books, view.Params{
		Genre:        l.genre,
		Tab:          l.tab,
		Sort:         l.sort,
		IsBookmarked: l.bookmarks.Contains,
	})

	return Snapshot{
		Status:        status,
		Loading:       l.inFlight > 0,
		Error:         l.errMsg,
		SearchTerm:    l.term,
		SelectedGenre: l.genre,
		Sort:          l.sort,
		Tab:           l.tab,
		Stats:         l.stats,
		Genres:        view.Genres(l.baseline, l.books),
		Books:         books,
		Visible:       visible,
		ReadingList:   l.bookmarks.IDs(),
		Editing:       cloneBook(l.editing),
		Selected:      cloneBook(l.selected),
	}
}

func cloneBook(b *entities.Book) *entities.Book {
	if b == nil {
		return nil
	}
	c := *b
	if b.Publisher != nil {
		p := *b.Publisher
		c.Publisher = &p
	}
	return &c
}
