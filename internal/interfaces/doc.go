// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Remote Catalog
//
//   - Catalog: the books CRUD resource (internal/library/interfaces.go),
//     implemented by catalog.Client
//
// ## Slot Storage
//
//   - Slot: one named blob (internal/storage/client.go), implemented by
//     settings.Slot (sqlite), badgerkv.Slot, rediskv.Slot and storage.MemorySlot
//   - Bookmarks: the reading list (internal/library/interfaces.go),
//     implemented by bookmarks.Store on top of a Slot
//
// ## Front End Dependencies
//
//   - ViewState, BookManager, ReadingList, SearchInput: HTTP controllers
//     (internal/http/stores.go)
//   - Library, SearchInput: terminal UI (internal/tui/model.go)
//   - Refresher: scheduled refresh (internal/scheduler/refresh.go)
//
// *library.Library satisfies every front end interface; *search.Controller
// is the debounced SearchInput.
//
// # Adding a New Slot Backend
//
//  1. Create a provider under internal/storage/providers/:
//
//     type Slot struct { client *etcd.Client; key string }
//
//     func (s *Slot) Read(ctx context.Context) ([]byte, error)
//     func (s *Slot) Write(ctx context.Context, data []byte) error
//
//  2. Add the backend name to storage.Backends
//
//  3. Open it in App.openSlot in internal/entrypoint/entrypoint.go
//
//  4. Add compile-time check:
//
//     var _ storage.Slot = (*etcdkv.Slot)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
