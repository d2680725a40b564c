package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrUnknownBackend is returned for a slot backend name that is not supported.
var ErrUnknownBackend = errors.New("unknown slot backend")

// Supported slot backends
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Backends lists the supported backend names.
var Backends = []string{BackendSQLite, BackendBadger, BackendRedis, BackendMemory}

// Slot is a single named location holding one blob.
type Slot interface {
	// Read returns the stored blob, or nil when nothing was written yet
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored blob as a whole
	Write(ctx context.Context, data []byte) error
}

// MemorySlot keeps the blob in process memory.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte

	// ReadErr and WriteErr, when set, are returned instead of touching data
	ReadErr  error
	WriteErr error
}

// NewMemorySlot creates a slot, optionally pre-filled with data.
func NewMemorySlot(initial []byte) *MemorySlot {
	s := &MemorySlot{}
	if initial != nil {
		s.data = append([]byte(nil), initial...)
	}
	return s
}

func (s *MemorySlot) Read(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	if s.data == nil {
		return nil, nil
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemorySlot) Write(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.data = append([]byte(nil), data...)
	return nil
}

// SetErrors changes the injected failures under the slot lock.
func (s *MemorySlot) SetErrors(readErr, writeErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ReadErr = readErr
	s.WriteErr = writeErr
}

// Contents returns the raw stored blob.
func (s *MemorySlot) Contents() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}
