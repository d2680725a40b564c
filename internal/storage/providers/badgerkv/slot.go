// Package badgerkv stores a slot under a single key of a badger database.
package badgerkv

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Slot is a storage.Slot backed by one badger key.
type Slot struct {
	db  *badger.DB
	key []byte
}

// Open opens (or creates) the badger database at path. An empty path opens
// an in-memory database.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	return db, nil
}

// NewSlot binds a slot to key in db.
func NewSlot(db *badger.DB, key string) *Slot {
	return &Slot{db: db, key: []byte(key)}
}

func (s *Slot) Read(_ context.Context) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", s.key, err)
	}
	return data, nil
}

func (s *Slot) Write(_ context.Context, data []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key, data)
	})
	if err != nil {
		return fmt.Errorf("write slot %q: %w", s.key, err)
	}
	return nil
}
