// Package localstore stores structured per-installation records on top of an opaque
// key-value capability.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/classdash/core/internal/infrastructure/logger"
	"github.com/classdash/core/internal/ports"
)

// Store serializes records as JSON text
type Store struct {
	kv     ports.KeyValueStore
	logger *logger.Logger
}

// New wraps kv
func New(kv ports.KeyValueStore, log *logger.Logger) *Store {
	return &Store{kv: kv, logger: log.WithComponent("localstore")}
}

// Set replaces the record stored under key
func (s *Store) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// Remove deletes the record stored under key
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.kv.Remove(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Get decodes the record under key into a T. A missing, unreadable or corrupt record
// yields def.
func Get[T any](ctx context.Context, s *Store, key string, def T) T {
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warnw("Local record unreadable, using default", "key", key, "error", err)
		return def
	}
	if !found || raw == "" || raw == "null" {
		return def
	}

	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		s.logger.Debugw("Local record corrupt, using default", "key", key, "error", err)
		return def
	}
	return out
}
