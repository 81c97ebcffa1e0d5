// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite and to simulate unavailable storage

package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu      sync.RWMutex
	items   map[string]Item // keyed by "origin\x00key"
	failGet error
	failSet error
	sets    int
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		items: make(map[string]Item),
	}
}

func itemKey(origin, key string) string {
	return origin + "\x00" + key
}

// FailReads makes every subsequent GetItem and ListItems return err.
// Pass nil to restore normal behaviour.
func (m *MockStore) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failGet = err
}

// FailWrites makes every subsequent SetItem and RemoveItem return err.
func (m *MockStore) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSet = err
}

// SetCount reports how many successful SetItem calls were made.
func (m *MockStore) SetCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sets
}

// GetItem returns the stored value or ErrNotFound.
func (m *MockStore) GetItem(ctx context.Context, origin, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failGet != nil {
		return "", m.failGet
	}
	item, ok := m.items[itemKey(origin, key)]
	if !ok {
		return "", ErrNotFound
	}
	return item.Value, nil
}

// SetItem stores value under origin/key.
func (m *MockStore) SetItem(ctx context.Context, origin, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failSet != nil {
		return m.failSet
	}
	m.items[itemKey(origin, key)] = Item{
		Origin:    origin,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	m.sets++
	return nil
}

// RemoveItem deletes origin/key.
func (m *MockStore) RemoveItem(ctx context.Context, origin, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failSet != nil {
		return m.failSet
	}
	delete(m.items, itemKey(origin, key))
	return nil
}

// ListItems returns items for origin sorted by key.
func (m *MockStore) ListItems(ctx context.Context, origin string) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failGet != nil {
		return nil, m.failGet
	}
	var items []Item
	for _, item := range m.items {
		if item.Origin == origin {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Key < items[j].Key
	})
	return items, nil
}

// Close is a no-op.
func (m *MockStore) Close() error {
	return nil
}
