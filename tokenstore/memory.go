package tokenstore

import (
	"context"
	"sync"
)

type memoryStore struct {
	items map[string]string
	mutex sync.RWMutex
}

// NewMemory builds a store that lives for the process lifetime only.
func NewMemory() Store {
	return &memoryStore{
		items: make(map[string]string),
	}
}

func (s *memoryStore) GetItem(_ context.Context, key string) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	value, ok := s.items[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *memoryStore) SetItem(_ context.Context, key, value string) error {
	s.mutex.Lock()
	s.items[key] = value
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) RemoveItem(_ context.Context, key string) error {
	s.mutex.Lock()
	delete(s.items, key)
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) MultiGet(_ context.Context, keys ...string) (map[string]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		if value, ok := s.items[key]; ok {
			values[key] = value
		}
	}
	return values, nil
}

func (s *memoryStore) MultiSet(_ context.Context, items map[string]string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for key, value := range items {
		s.items[key] = value
	}
	return nil
}

func (s *memoryStore) MultiRemove(_ context.Context, keys ...string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, key := range keys {
		delete(s.items, key)
	}
	return nil
}

func (s *memoryStore) Close(context.Context) error {
	return nil
}
