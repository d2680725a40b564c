package library

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Catalog is the remote books resource.
// Every call is a single round trip; failures come back as errors.
type Catalog interface {
	List(ctx context.Context, search string) ([]entities.Book, error)
	Create(ctx context.Context, input entities.BookInput) error
	Update(ctx context.Context, id entities.BookID, input entities.BookInput) error
	Remove(ctx context.Context, id entities.BookID) error
	ToggleAvailability(ctx context.Context, id entities.BookID) error
}

// Bookmarks is the persisted reading list.
type Bookmarks interface {
	Toggle(ctx context.Context, id entities.BookID) bool
	Contains(id entities.BookID) bool
	IDs() []entities.BookID
}

// ConfirmFunc asks the user to confirm deleting a book.
type ConfirmFunc func(id entities.BookID) bool

// Stats summarises the canonical record set.
type Stats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
}
