package tree

import (
	"errors"
	"fmt"
	"slices"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrUnplaced is returned by [FromSnapshot] when an entry has no stored position.
var ErrUnplaced = errors.New("entry has no position")

// Entry is one node of a [Snapshot].
type Entry struct {
	Parent   string   // "" for the root
	Children []string // creation order
	Order    int      // global creation order
	Sibling  int      // fixed sibling index, or AutoSibling when unknown
	Spawned  int      // children ever created under this node (0 = derive)
	Kind     Kind
	Text     string

	Position v3.Vec
	Placed   bool // Position is meaningful
}

// Snapshot is an immutable tree value: root identity plus a flat map of
// entries. It is the input format of the engine and the unit of persistence.
type Snapshot struct {
	RootID  string
	Anchor  v3.Vec
	Entries map[string]Entry
}

// Root returns the root identity.
func (s Snapshot) Root() string { return s.RootID }

// Has reports whether the entry exists.
func (s Snapshot) Has(id string) bool {
	_, ok := s.Entries[id]
	return ok
}

// Parent returns the parent ID of a non-root entry.
func (s Snapshot) Parent(id string) (string, bool) {
	e, ok := s.Entries[id]
	if !ok || e.Parent == "" {
		return "", false
	}
	return e.Parent, true
}

// Children returns child IDs in creation order.
func (s Snapshot) Children(id string) []string { return s.Entries[id].Children }

// Len returns the number of entries.
func (s Snapshot) Len() int { return len(s.Entries) }

// IsEmpty reports whether the snapshot has no root.
func (s Snapshot) IsEmpty() bool { return s.RootID == "" || len(s.Entries) == 0 }

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{RootID: s.RootID, Anchor: s.Anchor, Entries: make(map[string]Entry, len(s.Entries))}
	for id, e := range s.Entries {
		e.Children = slices.Clone(e.Children)
		out.Entries[id] = e
	}
	return out
}

// Validate checks structural integrity and returns nil if valid:
//
//  1. The root entry exists and has no parent
//  2. Every child list entry exists and names its lister as parent
//  3. Every non-root parent reference is mirrored in the parent's child list
//  4. Every entry is reachable from the root (no cycles, no orphans)
//
// An empty snapshot (no root, no entries) is valid.
func (s Snapshot) Validate() error {
	if s.IsEmpty() {
		if len(s.Entries) > 0 {
			return ErrMissingRoot
		}
		return nil
	}
	root, ok := s.Entries[s.RootID]
	if !ok {
		return ErrMissingRoot
	}
	if root.Parent != "" {
		return ErrRootHasParent
	}

	for id, e := range s.Entries {
		if id == "" {
			return ErrInvalidNodeID
		}
		for _, c := range e.Children {
			child, ok := s.Entries[c]
			if !ok {
				return fmt.Errorf("%w: %q lists missing child %q", ErrUnknownNode, id, c)
			}
			if child.Parent != id {
				return fmt.Errorf("%w: %q lists %q", ErrParentMismatch, id, c)
			}
		}
		if id == s.RootID {
			continue
		}
		parent, ok := s.Entries[e.Parent]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownParent, e.Parent)
		}
		if n := count(parent.Children, id); n != 1 {
			return fmt.Errorf("%w: %q appears %d times under %q", ErrParentMismatch, id, n, e.Parent)
		}
	}

	if reached := len(PreOrder(s, s.RootID)); reached != len(s.Entries) {
		return fmt.Errorf("%w: %d of %d entries", ErrUnreachable, len(s.Entries)-reached, len(s.Entries))
	}
	return nil
}

// spawnedFloor is the smallest sibling counter consistent with the
// children currently present.
func (s Snapshot) spawnedFloor(id string) int {
	kids := s.Entries[id].Children
	floor := len(kids)
	for _, c := range kids {
		floor = max(floor, s.Entries[c].Sibling+1)
	}
	return floor
}

func count(ids []string, id string) int {
	n := 0
	for _, x := range ids {
		if x == id {
			n++
		}
	}
	return n
}
