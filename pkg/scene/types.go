package scene

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/matzehuels/treescape/pkg/tree"
	"github.com/matzehuels/treescape/pkg/walkthrough"
)

// =============================================================================
// Vec
// =============================================================================

// Vec is a 3D point encoded as [x, y, z].
type Vec [3]float64

// VecOf converts an engine vector.
func VecOf(v v3.Vec) Vec { return Vec{v.X, v.Y, v.Z} }

// V3 converts back to an engine vector.
func (v Vec) V3() v3.Vec { return v3.Vec{X: v[0], Y: v[1], Z: v[2]} }

// Finite reports whether every component is a real number.
func (v Vec) Finite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// =============================================================================
// Tree - Snapshot Serialization
// =============================================================================

// Tree is the serialization format of a tree snapshot. It is also the
// storage format of the tree stores.
type Tree struct {
	Root   string          `json:"root" bson:"root"`
	Anchor Vec             `json:"anchor" bson:"anchor"`
	Nodes  map[string]Node `json:"nodes" bson:"nodes"`
}

// Node is one entry of a [Tree].
type Node struct {
	Parent   string   `json:"parent" bson:"parent"`
	Children []string `json:"children" bson:"children"`
	Order    int      `json:"order" bson:"order"`
	Kind     string   `json:"kind,omitempty" bson:"kind,omitempty"`
	Sibling  *int     `json:"sibling,omitempty" bson:"sibling,omitempty"` // absent: assign on replay
	Spawned  int      `json:"spawned,omitempty" bson:"spawned,omitempty"`
	Text     string   `json:"text,omitempty" bson:"text,omitempty"`
	Position *Vec     `json:"position,omitempty" bson:"position,omitempty"` // absent: compute on replay
}

// FromSnapshot converts a snapshot to its document form.
func FromSnapshot(s tree.Snapshot) Tree {
	out := Tree{
		Root:   s.RootID,
		Anchor: VecOf(s.Anchor),
		Nodes:  make(map[string]Node, len(s.Entries)),
	}
	for id, e := range s.Entries {
		n := Node{
			Parent:   e.Parent,
			Children: append([]string{}, e.Children...),
			Order:    e.Order,
			Kind:     string(e.Kind),
			Spawned:  e.Spawned,
			Text:     e.Text,
		}
		if e.Sibling >= 0 && id != s.RootID {
			sib := e.Sibling
			n.Sibling = &sib
		}
		if e.Placed {
			pos := VecOf(e.Position)
			n.Position = &pos
		}
		out.Nodes[id] = n
	}
	return out
}

// ToSnapshot converts a document to a validated snapshot.
func ToSnapshot(t Tree) (tree.Snapshot, error) {
	if !t.Anchor.Finite() {
		return tree.Snapshot{}, fmt.Errorf("anchor: %w", ErrNonFinite)
	}
	s := tree.Snapshot{
		RootID:  t.Root,
		Anchor:  t.Anchor.V3(),
		Entries: make(map[string]tree.Entry, len(t.Nodes)),
	}
	for id, n := range t.Nodes {
		kind := tree.Kind(n.Kind)
		if !kind.Valid() {
			return tree.Snapshot{}, fmt.Errorf("node %q: %w: %q", id, tree.ErrInvalidKind, n.Kind)
		}
		e := tree.Entry{
			Parent:   n.Parent,
			Children: append([]string(nil), n.Children...),
			Order:    n.Order,
			Sibling:  tree.AutoSibling,
			Spawned:  n.Spawned,
			Kind:     kind,
			Text:     n.Text,
		}
		if n.Sibling != nil {
			e.Sibling = *n.Sibling
		}
		if n.Position != nil {
			if !n.Position.Finite() {
				return tree.Snapshot{}, fmt.Errorf("node %q position: %w", id, ErrNonFinite)
			}
			e.Position = n.Position.V3()
			e.Placed = true
		}
		s.Entries[id] = e
	}
	if err := s.Validate(); err != nil {
		return tree.Snapshot{}, err
	}
	return s, nil
}

// Placed reports whether every node carries a position.
func (t Tree) Placed() bool {
	for _, n := range t.Nodes {
		if n.Position == nil {
			return false
		}
	}
	return len(t.Nodes) > 0
}

// =============================================================================
// Placements
// =============================================================================

// Placements maps node IDs to positions.
type Placements struct {
	Root      string         `json:"root"`
	Positions map[string]Vec `json:"positions"`
}

// PlacementsOf converts engine positions.
func PlacementsOf(root string, pos map[string]v3.Vec) Placements {
	out := Placements{Root: root, Positions: make(map[string]Vec, len(pos))}
	for id, p := range pos {
		out.Positions[id] = VecOf(p)
	}
	return out
}

// =============================================================================
// Walkthrough
// =============================================================================

// Walkthrough is the serialization format of a walkthrough result.
type Walkthrough struct {
	Rooms           []Room  `json:"rooms"`
	Walls           []Wall  `json:"walls"`
	TypicalRoomSize float64 `json:"typical_room_size"`
	Seed            int64   `json:"seed"`
	LCGVersion      int     `json:"lcg_version"`
}

// Room is a placed room.
type Room struct {
	ID            string `json:"id"`
	Center        Vec    `json:"center"`
	SequenceIndex int    `json:"sequence_index"`
}

// Wall is a wall segment.
type Wall struct {
	Start              Vec    `json:"start"`
	End                Vec    `json:"end"`
	OwnerSequenceIndex int    `json:"owner_sequence_index"`
	Color              string `json:"color"`
}

// WalkthroughOf converts a walkthrough result. Empty results encode as
// empty arrays, never null.
func WalkthroughOf(res walkthrough.Result) Walkthrough {
	out := Walkthrough{
		Rooms:           make([]Room, len(res.Rooms)),
		Walls:           make([]Wall, len(res.Walls)),
		TypicalRoomSize: res.TypicalRoomSize,
		Seed:            res.Seed,
		LCGVersion:      walkthrough.LCGVersion,
	}
	for i, r := range res.Rooms {
		out.Rooms[i] = Room{ID: r.ID, Center: VecOf(r.Center), SequenceIndex: r.SequenceIndex}
	}
	for i, w := range res.Walls {
		out.Walls[i] = Wall{
			Start:              VecOf(w.Start),
			End:                VecOf(w.End),
			OwnerSequenceIndex: w.OwnerSequenceIndex,
			Color:              w.Color,
		}
	}
	return out
}
