package http

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/library"
	"github.com/mrlokans/bookshelf/internal/view"
)

// This file consolidates the interfaces used by HTTP controllers.
// Each controller depends only on the intents it reports; *library.Library
// satisfies all of them.

// SnapshotReader exposes the current view state.
type SnapshotReader interface {
	Snapshot() library.Snapshot
}

// ViewState accepts search, filter and selection intents.
type ViewState interface {
	SnapshotReader
	Refresh(ctx context.Context) error
	SelectGenre(genre string) error
	SetSort(option view.SortOption)
	SetTab(tab view.Tab)
	Select(id entities.BookID) error
	CloseDetail()
	Edit(id entities.BookID) error
	CancelEdit()
}

// BookManager performs catalog mutations.
type BookManager interface {
	SnapshotReader
	Create(ctx context.Context, input entities.BookInput) error
	Update(ctx context.Context, id entities.BookID, input entities.BookInput) error
	Delete(ctx context.Context, id entities.BookID, confirm library.ConfirmFunc) error
	ToggleAvailability(ctx context.Context, id entities.BookID) error
}

// ReadingList toggles bookmarks.
type ReadingList interface {
	SnapshotReader
	ToggleBookmark(ctx context.Context, id entities.BookID) bool
}

// SearchInput receives raw search text. Input is debounced, Submit is not.
type SearchInput interface {
	Input(value string)
	Submit(value string)
}
