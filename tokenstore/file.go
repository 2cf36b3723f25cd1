package tokenstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	apperrors "github.com/jrsteele09/go-nightlife-client/internal/errors"
)

type fileStore struct {
	path   string
	items  map[string]string
	mutex  sync.RWMutex
	closed bool
}

// NewFile opens a JSON backed store at path, creating the parent directory on
// first write. The file is written with owner-only permissions since it holds
// bearer credentials.
func NewFile(path string) (Store, error) {
	s := &fileStore{
		path:  path,
		items: make(map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *fileStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("[tokenstore NewFile] reading %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(data, &s.items); err != nil {
		return fmt.Errorf("[tokenstore NewFile] decoding %s: %w", s.path, err)
	}
	return nil
}

// save must be called with the write lock held. The previous file is only
// replaced once the new contents are fully written.
func (s *fileStore) save(items map[string]string) error {
	data, err := sonic.ConfigStd.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// mutate applies fn to a copy of the items and swaps it in only when the copy
// was persisted.
func (s *fileStore) mutate(fn func(items map[string]string)) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return apperrors.ErrStoreClosed
	}

	next := make(map[string]string, len(s.items)+1)
	for k, v := range s.items {
		next[k] = v
	}
	fn(next)

	if err := s.save(next); err != nil {
		return fmt.Errorf("[tokenstore file] writing %s: %w", s.path, err)
	}
	s.items = next
	return nil
}

func (s *fileStore) GetItem(_ context.Context, key string) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return "", apperrors.ErrStoreClosed
	}
	value, ok := s.items[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *fileStore) SetItem(_ context.Context, key, value string) error {
	return s.mutate(func(items map[string]string) {
		items[key] = value
	})
}

func (s *fileStore) RemoveItem(_ context.Context, key string) error {
	return s.mutate(func(items map[string]string) {
		delete(items, key)
	})
}

func (s *fileStore) MultiGet(_ context.Context, keys ...string) (map[string]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return nil, apperrors.ErrStoreClosed
	}
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		if value, ok := s.items[key]; ok {
			values[key] = value
		}
	}
	return values, nil
}

func (s *fileStore) MultiSet(_ context.Context, items map[string]string) error {
	return s.mutate(func(current map[string]string) {
		for key, value := range items {
			current[key] = value
		}
	})
}

func (s *fileStore) MultiRemove(_ context.Context, keys ...string) error {
	return s.mutate(func(items map[string]string) {
		for _, key := range keys {
			delete(items, key)
		}
	})
}

func (s *fileStore) Close(context.Context) error {
	s.mutex.Lock()
	s.closed = true
	s.mutex.Unlock()
	return nil
}
