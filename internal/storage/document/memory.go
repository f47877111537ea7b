// Package document provides strategy document store backends.
package document

import (
	"context"
	"sync"

	"github.com/sigco3111/core-quant/internal/core"
	"github.com/sigco3111/core-quant/internal/strategy"
)

// MemoryStore is an in-memory strategy store, used in tests and as the
// default backend when no persistence is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]strategy.Strategy
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]strategy.Strategy),
	}
}

// Put inserts or replaces the document.
func (m *MemoryStore) Put(ctx context.Context, s strategy.Strategy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[s.ID] = s
	return nil
}

// Get retrieves a strategy by id.
func (m *MemoryStore) Get(ctx context.Context, id string) (strategy.Strategy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.docs[id]
	if !ok {
		return strategy.Strategy{}, core.ErrNotFound
	}
	return s, nil
}

// Delete removes the document.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

// List returns a page of strategies matching the filter.
func (m *MemoryStore) List(ctx context.Context, filter strategy.ListFilter) (strategy.Page, error) {
	m.mu.RLock()
	matched := make([]strategy.Strategy, 0, len(m.docs))
	for _, s := range m.docs {
		if filter.Matches(s) {
			matched = append(matched, s)
		}
	}
	m.mu.RUnlock()

	return strategy.SortAndPage(matched, filter), nil
}
