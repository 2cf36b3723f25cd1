package storefake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-nightlife-client/tokenstore"
)

var _ tokenstore.Store = (*FakeStore)(nil)

// FakeStore is an in-memory store whose reads and writes can be made to fail.
type FakeStore struct {
	items  map[string]string
	writes int
	lock   sync.RWMutex

	// GetErr fails GetItem and MultiGet when set.
	GetErr error
	// SetErr fails SetItem and MultiSet when set.
	SetErr error
	// RemoveErr fails RemoveItem and MultiRemove when set.
	RemoveErr error
}

func NewFakeStore(items map[string]string) *FakeStore {
	fs := &FakeStore{
		items: make(map[string]string, len(items)),
	}
	for k, v := range items {
		fs.items[k] = v
	}
	return fs
}

func (fs *FakeStore) GetItem(_ context.Context, key string) (string, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	if fs.GetErr != nil {
		return "", fs.GetErr
	}
	value, ok := fs.items[key]
	if !ok {
		return "", tokenstore.ErrNotFound
	}
	return value, nil
}

func (fs *FakeStore) SetItem(_ context.Context, key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if fs.SetErr != nil {
		return fs.SetErr
	}
	fs.items[key] = value
	fs.writes++
	return nil
}

func (fs *FakeStore) RemoveItem(_ context.Context, key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if fs.RemoveErr != nil {
		return fs.RemoveErr
	}
	delete(fs.items, key)
	return nil
}

func (fs *FakeStore) MultiGet(_ context.Context, keys ...string) (map[string]string, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	if fs.GetErr != nil {
		return nil, fs.GetErr
	}
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		if value, ok := fs.items[key]; ok {
			values[key] = value
		}
	}
	return values, nil
}

func (fs *FakeStore) MultiSet(_ context.Context, items map[string]string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if fs.SetErr != nil {
		return fs.SetErr
	}
	for key, value := range items {
		fs.items[key] = value
	}
	fs.writes++
	return nil
}

func (fs *FakeStore) MultiRemove(_ context.Context, keys ...string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if fs.RemoveErr != nil {
		return fs.RemoveErr
	}
	for _, key := range keys {
		delete(fs.items, key)
	}
	return nil
}

func (fs *FakeStore) Close(context.Context) error {
	return nil
}

// Value returns the stored value for key and whether it exists.
func (fs *FakeStore) Value(key string) (string, bool) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	value, ok := fs.items[key]
	return value, ok
}

// Writes counts successful SetItem and MultiSet calls.
func (fs *FakeStore) Writes() int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.writes
}

// FailWrites toggles SetErr under the store lock.
func (fs *FakeStore) FailWrites(err error) {
	fs.lock.Lock()
	fs.SetErr = err
	fs.lock.Unlock()
}

// FailReads toggles GetErr under the store lock.
func (fs *FakeStore) FailReads(err error) {
	fs.lock.Lock()
	fs.GetErr = err
	fs.lock.Unlock()
}
