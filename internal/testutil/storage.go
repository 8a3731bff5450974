package testutil

import (
	"context"
	"errors"
	"sync"

	"docstore/internal/storage"
)

// ErrStoreFailure is returned by FailingStore when a failure is armed.
var ErrStoreFailure = errors.New("store failure")

// FailingStore wraps a MemoryStore and fails Get or Set on demand.
// It also counts writes per key.
type FailingStore struct {
	*storage.MemoryStore

	mu      sync.Mutex
	failGet bool
	failSet bool
	writes  map[string]int
}

// NewFailingStore creates a FailingStore over an empty MemoryStore.
func NewFailingStore() *FailingStore {
	return &FailingStore{MemoryStore: storage.NewMemory(), writes: make(map[string]int)}
}

func (s *FailingStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	fail := s.failGet
	s.mu.Unlock()
	if fail {
		return "", false, ErrStoreFailure
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *FailingStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	fail := s.failSet
	if !fail {
		s.writes[key]++
	}
	s.mu.Unlock()
	if fail {
		return ErrStoreFailure
	}
	return s.MemoryStore.Set(ctx, key, value)
}

// SetFailures arms or disarms Get and Set failures.
func (s *FailingStore) SetFailures(get, set bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGet = get
	s.failSet = set
}

// Writes returns how many successful Set calls hit key.
func (s *FailingStore) Writes(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[key]
}

var _ storage.Store = (*FailingStore)(nil)
