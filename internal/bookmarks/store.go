// Package bookmarks keeps the reading list: a set of book IDs persisted as a
// JSON array in a single storage slot.
//
// The set is loaded once at startup and rewritten as a whole after every
// change. Storage failures are logged and never surface to callers; the
// in-memory set stays authoritative.
package bookmarks

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/storage"
)

// Toggle returns a new slice with id removed when present or appended when
// absent. The input slice is not modified.
func Toggle(ids []entities.BookID, id entities.BookID) []entities.BookID {
	if i := slices.Index(ids, id); i >= 0 {
		out := make([]entities.BookID, 0, len(ids)-1)
		out = append(out, ids[:i]...)
		return append(out, ids[i+1:]...)
	}
	out := make([]entities.BookID, 0, len(ids)+1)
	out = append(out, ids...)
	return append(out, id)
}

// Store is the in-memory reading list bound to a slot.
type Store struct {
	mu     sync.RWMutex
	ids    []entities.BookID
	slot   storage.Slot
	logger *zap.Logger

	// writeMu serialises slot writes so the last write carries the latest set
	writeMu sync.Mutex
}

// NewStore creates an empty store bound to slot.
func NewStore(slot storage.Slot, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		ids:    []entities.BookID{},
		slot:   slot,
		logger: logger,
	}
}

// Load replaces the in-memory set with the persisted one. On any failure
// the set starts empty.
func (s *Store) Load(ctx context.Context) {
	ids := s.read(ctx)

	s.mu.Lock()
	s.ids = ids
	s.mu.Unlock()

	s.logger.Debug("reading list loaded", zap.Int("count", len(ids)))
}

func (s *Store) read(ctx context.Context) []entities.BookID {
	data, err := s.slot.Read(ctx)
	if err != nil {
		s.logger.Error("failed to load reading list", zap.Error(err))
		return []entities.BookID{}
	}
	if len(data) == 0 {
		return []entities.BookID{}
	}

	var stored []entities.BookID
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Error("failed to parse reading list", zap.Error(err))
		return []entities.BookID{}
	}

	ids := make([]entities.BookID, 0, len(stored))
	for _, id := range stored {
		if id == "" || slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Toggle flips membership of id, persists the whole set and reports whether
// id is now bookmarked.
func (s *Store) Toggle(ctx context.Context, id entities.BookID) bool {
	s.mu.Lock()
	s.ids = Toggle(s.ids, id)
	bookmarked := slices.Contains(s.ids, id)
	s.mu.Unlock()

	s.persist(ctx)
	return bookmarked
}

// persist writes the current set. The snapshot is taken after acquiring
// writeMu, so overlapping calls converge on the latest in-memory value.
func (s *Store) persist(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ids := s.IDs()
	data, err := json.Marshal(ids)
	if err != nil {
		s.logger.Error("failed to encode reading list", zap.Error(err))
		return
	}

	if err := s.slot.Write(ctx, data); err != nil {
		s.logger.Error("failed to save reading list", zap.Error(err), zap.Int("count", len(ids)))
	}
}

// Contains reports whether id is bookmarked.
func (s *Store) Contains(id entities.BookID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.ids, id)
}

// IDs returns a copy of the bookmarked IDs in insertion order.
func (s *Store) IDs() []entities.BookID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ids)
}

// Len returns the number of bookmarked IDs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}
