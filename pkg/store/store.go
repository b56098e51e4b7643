// Package store persists tree snapshots.
//
// A [Store] keeps one document per tree, keyed by root ID. Documents are
// stored in the [scene.Tree] format, positions included, so a stored tree
// reopens without recomputing any placement.
//
// Backends:
//
//   - [MemoryStore]: process-local, for tests and one-shot runs
//   - [SQLiteStore]: a single local database file (pure Go driver)
//   - [MongoStore]: a shared MongoDB collection for server deployments
//
// Stores are safe for concurrent use. They do not serialize read-modify-write
// cycles of one tree; callers that mutate trees concurrently must hold their
// own per-tree lock.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/matzehuels/treescape/pkg/scene"
	"github.com/matzehuels/treescape/pkg/tree"
)

// Sentinel errors.
var (
	// ErrNotFound is returned when no tree has the requested root.
	ErrNotFound = errors.New("tree not found")

	// ErrExists is returned by Create when the root is already stored.
	ErrExists = errors.New("tree already exists")

	// ErrUnknownBackend is returned by [Open] for an unrecognized backend.
	ErrUnknownBackend = errors.New("unknown store backend")
)

// Store persists snapshots by root ID.
type Store interface {
	// Create stores a new tree. It fails with ErrExists if the root is taken.
	Create(ctx context.Context, s tree.Snapshot) error
	// Get loads a tree. It fails with ErrNotFound for unknown roots.
	Get(ctx context.Context, root string) (tree.Snapshot, error)
	// Put creates or replaces a tree.
	Put(ctx context.Context, s tree.Snapshot) error
	// Delete removes a tree. It fails with ErrNotFound for unknown roots.
	Delete(ctx context.Context, root string) error
	// List returns every stored root ID in ascending order.
	List(ctx context.Context) ([]string, error)
	// Close releases backend resources.
	Close() error
}

func encode(s tree.Snapshot) ([]byte, error) {
	if s.IsEmpty() {
		return nil, fmt.Errorf("encode: %w", tree.ErrMissingRoot)
	}
	data, err := json.Marshal(scene.FromSnapshot(s))
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", s.RootID, err)
	}
	return data, nil
}

func decode(root string, data []byte) (tree.Snapshot, error) {
	var doc scene.Tree
	if err := json.Unmarshal(data, &doc); err != nil {
		return tree.Snapshot{}, fmt.Errorf("decode %q: %w", root, err)
	}
	s, err := scene.ToSnapshot(doc)
	if err != nil {
		return tree.Snapshot{}, fmt.Errorf("decode %q: %w", root, err)
	}
	return s, nil
}
