package starfield

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/matzehuels/treescape/pkg/placement"
	"github.com/matzehuels/treescape/pkg/tree"
)

// Field is a concurrency-safe starfield.
type Field struct {
	mu     sync.RWMutex
	tree   *tree.Tree
	placer *placement.Placer
}

// New creates a field holding only the root at anchor. A nil placer uses
// the default profiles without diagnostics.
func New(rootID string, anchor v3.Vec, placer *placement.Placer) (*Field, error) {
	t, err := tree.New(rootID, anchor)
	if err != nil {
		return nil, err
	}
	return &Field{tree: t, placer: orDefault(placer)}, nil
}

// Open wraps an already placed snapshot. Stored positions are kept as is.
func Open(s tree.Snapshot, placer *placement.Placer) (*Field, error) {
	t, err := tree.FromSnapshot(s)
	if err != nil {
		return nil, err
	}
	return &Field{tree: t, placer: orDefault(placer)}, nil
}

func orDefault(p *placement.Placer) *placement.Placer {
	if p == nil {
		return placement.New(placement.DefaultProfiles(), nil)
	}
	return p
}

// Add creates id under parentID and places it.
func (f *Field) Add(parentID, id string, kind tree.Kind) (tree.Node, error) {
	return f.Insert(tree.Insert{Parent: parentID, ID: id, Kind: kind, Sibling: tree.AutoSibling})
}

// Insert is [Field.Add] with full control over the inserted node.
func (f *Field) Insert(req tree.Insert) (tree.Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, err := f.tree.Insert(req, f.placer.PlaceFunc())
	if err != nil {
		return tree.Node{}, err
	}
	return copyNode(n), nil
}

// Remove deletes id and its subtree and returns the removed IDs.
func (f *Field) Remove(id string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tree.Remove(id)
}

// Root returns the root ID.
func (f *Field) Root() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.tree.Root()
}

// Len returns the number of nodes, root included.
func (f *Field) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.tree.Len()
}

// Node returns a copy of the node.
func (f *Field) Node(id string) (tree.Node, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n, ok := f.tree.Node(id)
	if !ok {
		return tree.Node{}, false
	}
	return copyNode(n), true
}

// Position returns the memoized position of id.
func (f *Field) Position(id string) (v3.Vec, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n, ok := f.tree.Node(id)
	if !ok {
		return v3.Vec{}, false
	}
	return n.Position, true
}

// Positions returns every position keyed by node ID.
func (f *Field) Positions() map[string]v3.Vec {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.tree.Positions()
}

// Snapshot returns an immutable copy of the field.
func (f *Field) Snapshot() tree.Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.tree.Snapshot()
}

func copyNode(n *tree.Node) tree.Node {
	c := *n
	c.Children = slices.Clone(n.Children)
	return c
}

// Replay builds a fresh field from s, computing every position. Nodes are
// added in creation order, ties broken by pre-order position, and a node
// whose parent is not yet placed waits for it. Stored sibling indices are
// honored when they do not collide; stored positions are ignored.
func Replay(s tree.Snapshot, placer *placement.Placer) (*Field, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.IsEmpty() {
		return nil, tree.ErrMissingRoot
	}
	f, err := New(s.RootID, s.Anchor, placer)
	if err != nil {
		return nil, err
	}

	rank := make(map[string]int, s.Len())
	pending := make([]string, 0, s.Len()-1)
	for i, id := range tree.PreOrder(s, s.RootID) {
		rank[id] = i
		if id != s.RootID {
			pending = append(pending, id)
		}
	}
	slices.SortStableFunc(pending, func(a, b string) int {
		return cmp.Or(
			cmp.Compare(s.Entries[a].Order, s.Entries[b].Order),
			cmp.Compare(rank[a], rank[b]),
		)
	})

	for len(pending) > 0 {
		var deferred []string
		for _, id := range pending {
			e := s.Entries[id]
			if !f.tree.Has(e.Parent) {
				deferred = append(deferred, id)
				continue
			}
			if err := f.replayOne(id, e); err != nil {
				return nil, fmt.Errorf("replay %q: %w", id, err)
			}
		}
		if len(deferred) == len(pending) {
			return nil, fmt.Errorf("replay %q: %w", deferred[0], tree.ErrUnreachable)
		}
		pending = deferred
	}

	for id, e := range s.Entries {
		f.tree.Reserve(id, e.Spawned)
	}
	return f, nil
}

func (f *Field) replayOne(id string, e tree.Entry) error {
	req := tree.Insert{
		Parent:  e.Parent,
		ID:      id,
		Kind:    e.Kind,
		Text:    e.Text,
		Sibling: e.Sibling,
		Order:   e.Order,
	}
	_, err := f.Insert(req)
	if errors.Is(err, tree.ErrSiblingTaken) {
		req.Sibling = tree.AutoSibling
		_, err = f.Insert(req)
	}
	return err
}
