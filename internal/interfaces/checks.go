package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookshelf/internal/bookmarks"
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/database/settings"
	"github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/library"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/search"
	"github.com/mrlokans/bookshelf/internal/storage"
	"github.com/mrlokans/bookshelf/internal/storage/providers/badgerkv"
	"github.com/mrlokans/bookshelf/internal/storage/providers/rediskv"
	"github.com/mrlokans/bookshelf/internal/tui"
)

// =============================================================================
// Remote Catalog
// =============================================================================

var _ library.Catalog = (*catalog.Client)(nil)

// =============================================================================
// Slot Storage
// =============================================================================

var _ storage.Slot = (*storage.MemorySlot)(nil)
var _ storage.Slot = (*settings.Slot)(nil)
var _ storage.Slot = (*badgerkv.Slot)(nil)
var _ storage.Slot = (*rediskv.Slot)(nil)

var _ library.Bookmarks = (*bookmarks.Store)(nil)

// =============================================================================
// Front Ends
// =============================================================================

// Controller dependencies
var _ http.ViewState = (*library.Library)(nil)
var _ http.BookManager = (*library.Library)(nil)
var _ http.ReadingList = (*library.Library)(nil)
var _ http.SearchInput = (*search.Controller)(nil)

// Terminal UI dependencies
var _ tui.Library = (*library.Library)(nil)
var _ tui.SearchInput = (*search.Controller)(nil)

// Scheduled refresh
var _ scheduler.Refresher = (*library.Library)(nil)
