package snapshot

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Store.Load when no snapshot exists under the
// requested name.
var ErrNotFound = errors.New("snapshot: not found")

// Store persists encoded model snapshots by name.
type Store interface {
	// Save writes data under name, replacing any previous snapshot.
	Save(ctx context.Context, name string, data []byte) error

	// Load returns the snapshot saved under name, or ErrNotFound.
	Load(ctx context.Context, name string) ([]byte, error)
}

// MemoryStore is an in-process Store, useful for tests and ephemeral
// tooling.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[name] = append([]byte(nil), data...)
	return nil
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[name]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}
