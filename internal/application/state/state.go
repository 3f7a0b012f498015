// Package state owns the dashboard's mutable data: the shared dataset and the user
// settings. Components read and write it only through the accessors, which copy in and out.
package state

import (
	"sync"

	"github.com/classdash/core/internal/domain/entities"
)

// Store holds the current dataset and user settings
type Store struct {
	mu       sync.RWMutex
	dataset  *entities.Dataset
	settings entities.UserSettings
	version  uint64

	subMu  sync.Mutex
	nextID int
	subs   map[int]chan struct{}
}

// New creates a store primed with the embedded dataset and default settings
func New() *Store {
	return &Store{
		dataset:  entities.DefaultDataset(),
		settings: entities.DefaultUserSettings(),
		subs:     make(map[int]chan struct{}),
	}
}

// Dataset returns a copy of the current dataset
func (s *Store) Dataset() *entities.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset.Clone()
}

// SetDataset replaces the dataset with a copy of ds
func (s *Store) SetDataset(ds *entities.Dataset) {
	s.mu.Lock()
	s.dataset = ds.Clone()
	s.version++
	s.mu.Unlock()
	s.notify()
}

// UpdateDataset applies fn to a copy of the dataset and keeps the result only when fn succeeds
func (s *Store) UpdateDataset(fn func(ds *entities.Dataset) error) (*entities.Dataset, error) {
	s.mu.Lock()
	working := s.dataset.Clone()
	if err := fn(working); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.dataset = working
	s.version++
	out := working.Clone()
	s.mu.Unlock()

	s.notify()
	return out, nil
}

// Settings returns the current user settings
func (s *Store) Settings() entities.UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetSettings replaces the user settings
func (s *Store) SetSettings(settings entities.UserSettings) {
	s.mu.Lock()
	s.settings = settings
	s.version++
	s.mu.Unlock()
	s.notify()
}

// Snapshot returns dataset and settings read under one lock
func (s *Store) Snapshot() (*entities.Dataset, entities.UserSettings) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset.Clone(), s.settings
}

// Version increases on every change
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe returns a channel signalled after each change, and a function that ends the
// subscription. Signals coalesce: a slow reader sees at least one pending signal.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
