package starfield

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/treescape/pkg/tree"
)

// grow builds hub -> {a -> {c}, b} and removes nothing.
func grow(t *testing.T) *Field {
	t.Helper()
	f := newField(t)
	for _, step := range [][2]string{{"hub", "a"}, {"hub", "b"}, {"a", "c"}, {"b", "d"}} {
		_, err := f.Add(step[0], step[1], tree.KindRegular)
		require.NoError(t, err)
	}
	return f
}

func TestReplayReproducesPositions(t *testing.T) {
	f := grow(t)
	want := f.Positions()

	s := f.Snapshot()
	for id, e := range s.Entries {
		e.Placed = false
		e.Position = v3.Vec{}
		s.Entries[id] = e
	}

	replayed, err := Replay(s, nil)
	require.NoError(t, err)
	assert.Equal(t, want, replayed.Positions())
}

func TestReplayHonorsStoredSiblingsAfterRemoval(t *testing.T) {
	f := grow(t)
	_, err := f.Remove("a")
	require.NoError(t, err)
	_, err = f.Add("hub", "e", tree.KindRegular)
	require.NoError(t, err)
	want := f.Positions()

	replayed, err := Replay(f.Snapshot(), nil)
	require.NoError(t, err)
	assert.Equal(t, want, replayed.Positions())

	next, err := replayed.Add("hub", "f", tree.KindRegular)
	require.NoError(t, err)
	assert.Equal(t, 3, next.Sibling, "sibling counter survives replay")
}

func TestReplayOrderAndTies(t *testing.T) {
	// No creation order recorded: pre-order decides.
	s := tree.Snapshot{
		RootID: "hub",
		Entries: map[string]tree.Entry{
			"hub": {Children: []string{"x", "y"}},
			"x":   {Parent: "hub", Sibling: tree.AutoSibling},
			"y":   {Parent: "hub", Sibling: tree.AutoSibling},
		},
	}
	f, err := Replay(s, nil)
	require.NoError(t, err)

	x, _ := f.Node("x")
	y, _ := f.Node("y")
	assert.Equal(t, 0, x.Sibling)
	assert.Equal(t, 1, y.Sibling)
	assert.Less(t, x.Order, y.Order)
}

func TestReplayDefersChildrenOfLaterParents(t *testing.T) {
	// Child recorded with an earlier order than its parent.
	s := tree.Snapshot{
		RootID: "hub",
		Entries: map[string]tree.Entry{
			"hub": {Children: []string{"p"}},
			"p":   {Parent: "hub", Children: []string{"c"}, Order: 5, Sibling: tree.AutoSibling},
			"c":   {Parent: "p", Order: 2, Sibling: tree.AutoSibling},
		},
	}
	f, err := Replay(s, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Len())
}

func TestReplayRejectsInvalid(t *testing.T) {
	_, err := Replay(tree.Snapshot{}, nil)
	assert.Error(t, err)

	s := tree.Snapshot{
		RootID: "hub",
		Entries: map[string]tree.Entry{
			"hub":    {},
			"orphan": {Parent: "ghost"},
		},
	}
	_, err = Replay(s, nil)
	assert.Error(t, err)
}

func TestOpenKeepsStoredPositions(t *testing.T) {
	s := tree.Snapshot{
		RootID: "hub",
		Entries: map[string]tree.Entry{
			"hub": {Children: []string{"a"}, Placed: true},
			"a":   {Parent: "hub", Order: 1, Position: v3.Vec{X: 42}, Placed: true},
		},
	}
	f, err := Open(s, nil)
	require.NoError(t, err)
	pos, _ := f.Position("a")
	assert.Equal(t, v3.Vec{X: 42}, pos)
}
