package localstore

import (
	"encoding/json"
	"sync"
)

// memoryStore implements Store using an in-memory map.
// Useful for testing.
type memoryStore struct {
	values map[string][]byte
	mu     sync.RWMutex
}

// NewMemory creates an in-memory store.
func NewMemory() Store {
	return &memoryStore{values: make(map[string][]byte)}
}

func (s *memoryStore) Get(keys ...string) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		if data, ok := s.values[k]; ok {
			out[k] = append(json.RawMessage(nil), data...)
		}
	}
	return out, nil
}

func (s *memoryStore) Set(values map[string]any) error {
	encoded, err := encodeAll(values)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, data := range encoded {
		s.values[k] = data
	}
	return nil
}

func (s *memoryStore) Remove(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func (s *memoryStore) Close() error { return nil }
