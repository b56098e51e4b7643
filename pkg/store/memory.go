package store

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/treescape/pkg/tree"
)

// MemoryStore keeps encoded documents in a map.
type MemoryStore struct {
	mu    sync.RWMutex
	trees map[string][]byte
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trees: make(map[string][]byte)}
}

func (m *MemoryStore) Create(_ context.Context, s tree.Snapshot) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trees[s.RootID]; ok {
		return ErrExists
	}
	m.trees[s.RootID] = data
	return nil
}

func (m *MemoryStore) Get(_ context.Context, root string) (tree.Snapshot, error) {
	m.mu.RLock()
	data, ok := m.trees[root]
	m.mu.RUnlock()
	if !ok {
		return tree.Snapshot{}, ErrNotFound
	}
	return decode(root, data)
}

func (m *MemoryStore) Put(_ context.Context, s tree.Snapshot) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.trees[s.RootID] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, root string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trees[root]; !ok {
		return ErrNotFound
	}
	delete(m.trees, root)
	return nil
}

func (m *MemoryStore) List(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	roots := make([]string, 0, len(m.trees))
	for r := range m.trees {
		roots = append(roots, r)
	}
	slices.Sort(roots)
	return roots, nil
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
