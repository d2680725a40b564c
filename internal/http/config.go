package http

import (
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/library"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Library *library.Library
	Search  SearchInput

	// Settings database, only present for the sqlite reading list backend
	Database *database.Database

	// Reading list backend name, reported by the health check
	ReadingListBackend string

	// Application info
	Version string

	Logger *zap.Logger
}
