package tree

import (
	"errors"
	"slices"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	// ErrInvalidNodeID is returned when a node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Tree.Insert] when a node with the
	// same ID already exists in the tree.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned when an operation references a node that
	// does not exist.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownParent is returned by [Tree.Insert] when the parent does not exist.
	ErrUnknownParent = errors.New("unknown parent node")

	// ErrRemoveRoot is returned by [Tree.Remove] for the root node.
	ErrRemoveRoot = errors.New("cannot remove the root node")

	// ErrSiblingTaken is returned by [Tree.Insert] when an explicit sibling
	// index is already held by a live sibling.
	ErrSiblingTaken = errors.New("sibling index already in use")

	// ErrMissingRoot is returned by [Snapshot.Validate] when the root entry is absent.
	ErrMissingRoot = errors.New("root node missing")

	// ErrRootHasParent is returned by [Snapshot.Validate] when the root names a parent.
	ErrRootHasParent = errors.New("root node must not have a parent")

	// ErrParentMismatch is returned by [Snapshot.Validate] when a parent's
	// child list and a child's parent reference disagree.
	ErrParentMismatch = errors.New("parent and child references disagree")

	// ErrInvalidKind is returned by [Tree.Insert] for an unrecognized node kind.
	ErrInvalidKind = errors.New("invalid node kind")

	// ErrUnreachable is returned by [Snapshot.Validate] when a node cannot be
	// reached from the root, which includes nodes on a cycle.
	ErrUnreachable = errors.New("node not reachable from root")
)

// Kind distinguishes regular replies from wide-aggregation nodes, whose
// children are laid out with the aggregation ring profile.
type Kind string

const (
	// KindRegular is an ordinary entry.
	KindRegular Kind = ""
	// KindAggregate marks a node that gathers many children around itself.
	KindAggregate Kind = "aggregate"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k == KindRegular || k == KindAggregate }

// AutoSibling asks [Tree.Insert] to assign the next sibling index.
const AutoSibling = -1

// Model is the read-only view of a tree used by the engine.
type Model interface {
	// Root returns the root identity, or "" for an empty model.
	Root() string
	// Has reports whether the node exists.
	Has(id string) bool
	// Parent returns the parent ID; ok is false for the root and unknown nodes.
	Parent(id string) (parent string, ok bool)
	// Children returns child IDs in creation order. Callers must not modify it.
	Children(id string) []string
}

// Node is a placed tree entry.
type Node struct {
	ID       string
	Parent   string   // "" for the root
	Children []string // creation order
	Order    int      // global creation order, root = 0
	Sibling  int      // fixed sibling index, root = 0
	Kind     Kind
	Text     string

	// Position is assigned once at insertion and never recomputed.
	Position v3.Vec
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.Parent == "" }

// IsAggregate reports whether the node uses the aggregation profile for its children.
func (n *Node) IsAggregate() bool { return n.Kind == KindAggregate }

// Insert describes a node to add with [Tree.Insert].
type Insert struct {
	Parent  string
	ID      string
	Kind    Kind
	Text    string
	Sibling int // AutoSibling to assign the next free index
	Order   int // 0 to assign the next creation order
}

// PlaceFunc computes the position of a node being inserted. parent and
// root are the live nodes; sibling is the index already fixed for the new node.
type PlaceFunc func(id string, sibling int, parent, root *Node) v3.Vec

// Tree is a mutable, append-only tree whose nodes carry memoized positions.
//
// The zero value is not usable - use [New] or [FromSnapshot].
type Tree struct {
	root      string
	nodes     map[string]*Node
	spawned   map[string]int // parent ID -> children ever created
	nextOrder int
}

// New creates a tree containing only the root, positioned at anchor.
func New(rootID string, anchor v3.Vec) (*Tree, error) {
	if rootID == "" {
		return nil, ErrInvalidNodeID
	}
	t := &Tree{
		root:      rootID,
		nodes:     make(map[string]*Node),
		spawned:   make(map[string]int),
		nextOrder: 1,
	}
	t.nodes[rootID] = &Node{ID: rootID, Position: anchor}
	return t, nil
}

// Root returns the root node ID.
func (t *Tree) Root() string { return t.root }

// Has reports whether the node exists.
func (t *Tree) Has(id string) bool {
	_, ok := t.nodes[id]
	return ok
}

// Parent returns the parent ID of a non-root node.
func (t *Tree) Parent(id string) (string, bool) {
	n, ok := t.nodes[id]
	if !ok || n.Parent == "" {
		return "", false
	}
	return n.Parent, true
}

// Children returns child IDs in creation order.
func (t *Tree) Children(id string) []string {
	if n, ok := t.nodes[id]; ok {
		return n.Children
	}
	return nil
}

// Node returns the node with the given ID and true, or nil and false if not
// found. The returned pointer refers to the live node; callers must not
// change its position.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Len returns the number of nodes, root included.
func (t *Tree) Len() int { return len(t.nodes) }

// NextSibling returns the sibling index the next child of parent would get.
func (t *Tree) NextSibling(parent string) int { return t.spawned[parent] }

// Insert adds a node under an existing parent and stores the position
// returned by place. The sibling index is fixed before place is called.
//
// Returns ErrInvalidNodeID, ErrDuplicateNodeID, ErrInvalidKind,
// ErrUnknownParent or ErrSiblingTaken; the tree is unchanged on error.
func (t *Tree) Insert(req Insert, place PlaceFunc) (*Node, error) {
	if req.ID == "" {
		return nil, ErrInvalidNodeID
	}
	if _, exists := t.nodes[req.ID]; exists {
		return nil, ErrDuplicateNodeID
	}
	if !req.Kind.Valid() {
		return nil, ErrInvalidKind
	}
	parent, ok := t.nodes[req.Parent]
	if !ok {
		return nil, ErrUnknownParent
	}

	sibling := req.Sibling
	if sibling < 0 {
		sibling = t.spawned[req.Parent]
	} else if t.siblingTaken(parent, sibling) {
		return nil, ErrSiblingTaken
	}

	order := req.Order
	if order <= 0 {
		order = t.nextOrder
	}

	n := &Node{
		ID:      req.ID,
		Parent:  req.Parent,
		Order:   order,
		Sibling: sibling,
		Kind:    req.Kind,
		Text:    req.Text,
	}
	n.Position = place(n.ID, sibling, parent, t.nodes[t.root])

	t.nodes[n.ID] = n
	parent.Children = append(parent.Children, n.ID)
	t.spawned[req.Parent] = max(t.spawned[req.Parent], sibling+1)
	t.nextOrder = max(t.nextOrder, order+1)
	return n, nil
}

// Reserve raises the sibling counter of parent to at least n, so indices
// below n are never handed out again. Unknown parents are ignored.
func (t *Tree) Reserve(parent string, n int) {
	if _, ok := t.nodes[parent]; ok {
		t.spawned[parent] = max(t.spawned[parent], n)
	}
}

func (t *Tree) siblingTaken(parent *Node, sibling int) bool {
	for _, c := range parent.Children {
		if t.nodes[c].Sibling == sibling {
			return true
		}
	}
	return false
}

// Remove deletes a node and its whole subtree and returns the removed IDs
// in pre-order. Remaining nodes keep their positions and sibling indices;
// the parent's sibling counter is not rewound.
func (t *Tree) Remove(id string) ([]string, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, ErrUnknownNode
	}
	if n.IsRoot() {
		return nil, ErrRemoveRoot
	}

	removed := PreOrder(t, id)
	for _, rid := range removed {
		delete(t.nodes, rid)
		delete(t.spawned, rid)
	}
	parent := t.nodes[n.Parent]
	parent.Children = slices.DeleteFunc(parent.Children, func(c string) bool { return c == id })
	return removed, nil
}

// Positions returns a copy of every node's position keyed by ID.
func (t *Tree) Positions() map[string]v3.Vec {
	out := make(map[string]v3.Vec, len(t.nodes))
	for id, n := range t.nodes {
		out[id] = n.Position
	}
	return out
}

// Snapshot returns an immutable copy of the tree, positions included.
func (t *Tree) Snapshot() Snapshot {
	s := Snapshot{
		RootID:  t.root,
		Entries: make(map[string]Entry, len(t.nodes)),
	}
	for id, n := range t.nodes {
		s.Entries[id] = Entry{
			Parent:   n.Parent,
			Children: slices.Clone(n.Children),
			Order:    n.Order,
			Sibling:  n.Sibling,
			Spawned:  t.spawned[id],
			Kind:     n.Kind,
			Text:     n.Text,
			Position: n.Position,
			Placed:   true,
		}
	}
	if root, ok := t.nodes[t.root]; ok {
		s.Anchor = root.Position
	}
	return s
}

// FromSnapshot rebuilds a tree from a validated snapshot whose entries are
// all placed. Positions are taken as stored; nothing is recomputed.
func FromSnapshot(s Snapshot) (*Tree, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.IsEmpty() {
		return nil, ErrMissingRoot
	}
	t := &Tree{
		root:      s.RootID,
		nodes:     make(map[string]*Node, len(s.Entries)),
		spawned:   make(map[string]int, len(s.Entries)),
		nextOrder: 1,
	}
	for id, e := range s.Entries {
		if !e.Placed {
			return nil, ErrUnplaced
		}
		t.nodes[id] = &Node{
			ID:       id,
			Parent:   e.Parent,
			Children: slices.Clone(e.Children),
			Order:    e.Order,
			Sibling:  max(e.Sibling, 0),
			Kind:     e.Kind,
			Text:     e.Text,
			Position: e.Position,
		}
		t.nextOrder = max(t.nextOrder, e.Order+1)
	}
	for id, e := range s.Entries {
		t.spawned[id] = max(e.Spawned, s.spawnedFloor(id))
	}
	return t, nil
}

// PreOrder lists start and its descendants in depth-first pre-order,
// children in creation order. Each node appears once even if m is
// malformed; an unknown start yields nil.
func PreOrder(m Model, start string) []string {
	var out []string
	seen := make(map[string]bool)
	stack := []string{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] || !m.Has(cur) {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		kids := m.Children(cur)
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out
}
