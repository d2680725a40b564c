// Package rediskv stores a slot under a single redis key.
package rediskv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Options describe how to reach the redis server.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient creates a redis client and verifies the connection.
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis at %s: %w", opts.Addr, err)
	}
	return rdb, nil
}

// Slot is a storage.Slot backed by one redis key without expiry.
type Slot struct {
	rdb redis.Cmdable
	key string
}

// NewSlot binds a slot to key.
func NewSlot(rdb redis.Cmdable, key string) *Slot {
	return &Slot{rdb: rdb, key: key}
}

func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", s.key, err)
	}
	return data, nil
}

// Write replaces the key with a single SET, which redis applies atomically.
func (s *Slot) Write(ctx context.Context, data []byte) error {
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("write slot %q: %w", s.key, err)
	}
	return nil
}
