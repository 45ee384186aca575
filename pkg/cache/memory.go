package cache

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is the in-process fast tier: a mutex-guarded map of entries.
// Entries are cloned on the way in and out so callers cannot mutate stored
// payloads.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	bytes   map[string]int64
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*Entry),
		bytes:   make(map[string]int64),
	}
}

// Get returns the entry for key, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return entry.clone(), nil
}

// Set stores the entry under key.
func (s *MemoryStore) Set(_ context.Context, key string, entry *Entry) error {
	if entry == nil {
		return ErrInvalidEntry
	}

	// Size is approximate; marshalling failures just leave it at zero.
	var size int64
	if data, err := json.Marshal(entry); err == nil {
		size = int64(len(data))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry.clone()
	s.bytes[key] = size
	return nil
}

// Delete removes the entry for key. Missing keys are a no-op.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	delete(s.bytes, key)
	return nil
}

// Clear removes all entries.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*Entry)
	s.bytes = make(map[string]int64)
	return nil
}

// Stats returns entry count and approximate size in bytes.
func (s *MemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, size := range s.bytes {
		total += size
	}
	return Stats{Entries: len(s.entries), SizeBytes: total}, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
