package scene

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/treescape/pkg/starfield"
	"github.com/matzehuels/treescape/pkg/tree"
	"github.com/matzehuels/treescape/pkg/walkthrough"
)

const sampleDoc = `{
  "root": "hub",
  "anchor": [1, 2, 3],
  "nodes": {
    "hub":   {"parent": "", "children": ["idea", "pile"], "order": 0},
    "idea":  {"parent": "hub", "children": ["reply"], "order": 1, "text": "first"},
    "pile":  {"parent": "hub", "children": [], "order": 2, "kind": "aggregate", "sibling": 4},
    "reply": {"parent": "idea", "children": [], "order": 3}
  }
}`

func TestReadTree(t *testing.T) {
	s, err := ReadTree(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, "hub", s.RootID)
	assert.Equal(t, v3.Vec{X: 1, Y: 2, Z: 3}, s.Anchor)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, tree.KindAggregate, s.Entries["pile"].Kind)
	assert.Equal(t, 4, s.Entries["pile"].Sibling)
	assert.Equal(t, tree.AutoSibling, s.Entries["idea"].Sibling)
	assert.Equal(t, "first", s.Entries["idea"].Text)
	assert.False(t, s.Entries["idea"].Placed)
}

func TestReadTreeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"syntax", `{"root":`},
		{"missing root", `{"root": "hub", "nodes": {"a": {"parent": ""}}}`},
		{"bad kind", `{"root": "hub", "nodes": {"hub": {"kind": "wide"}}}`},
		{"orphan", `{"root": "hub", "nodes": {"hub": {}, "a": {"parent": "ghost"}}}`},
		{"cycle", `{"root": "hub", "nodes": {"hub": {}, "a": {"parent": "b", "children": ["b"]}, "b": {"parent": "a", "children": ["a"]}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadTree(strings.NewReader(tt.doc)); err == nil {
				t.Error("ReadTree() error = nil, want error")
			}
		})
	}
}

func TestToSnapshotRejectsNonFinite(t *testing.T) {
	pos := Vec{math.NaN(), 0, 0}
	doc := Tree{Root: "hub", Nodes: map[string]Node{"hub": {Position: &pos}}}
	_, err := ToSnapshot(doc)
	assert.ErrorIs(t, err, ErrNonFinite)

	doc = Tree{Root: "hub", Anchor: Vec{0, math.Inf(1), 0}, Nodes: map[string]Node{"hub": {}}}
	_, err = ToSnapshot(doc)
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestTreeRoundTrip(t *testing.T) {
	f, err := starfield.New("hub", v3.Vec{}, nil)
	require.NoError(t, err)
	for _, step := range [][2]string{{"hub", "a"}, {"hub", "b"}, {"a", "c"}} {
		_, err := f.Add(step[0], step[1], tree.KindRegular)
		require.NoError(t, err)
	}
	_, err = f.Remove("b")
	require.NoError(t, err)
	want := f.Snapshot()

	data, err := MarshalTree(want)
	require.NoError(t, err)
	got, err := ReadTree(bytes.NewReader(data))
	require.NoError(t, err)

	// The root has no stored sibling; everything else survives.
	root := want.Entries["hub"]
	root.Sibling = tree.AutoSibling
	want.Entries["hub"] = root
	assert.Equal(t, want, got)

	doc := FromSnapshot(got)
	assert.True(t, doc.Placed())
	assert.Equal(t, 2, doc.Nodes["hub"].Spawned)
}

func TestTreeFileRoundTrip(t *testing.T) {
	s, err := ReadTree(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, WriteTreeFile(s, path))
	back, err := ReadTreeFile(path)
	require.NoError(t, err)
	assert.Equal(t, s, back)

	_, err = ReadTreeFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestWalkthroughOfEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWalkthrough(WalkthroughOf(walkthrough.Result{}), &buf))
	out := buf.String()
	assert.Contains(t, out, `"rooms": []`)
	assert.Contains(t, out, `"walls": []`)
	assert.Contains(t, out, `"typical_room_size": 0`)
}

func TestWalkthroughDocument(t *testing.T) {
	s, err := ReadTree(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	res := walkthrough.Build(s, "", walkthrough.DefaultConfig())
	doc := WalkthroughOf(res)

	require.Len(t, doc.Rooms, 4)
	assert.Equal(t, "hub", doc.Rooms[0].ID)
	assert.Equal(t, VecOf(res.Rooms[2].Center), doc.Rooms[2].Center)
	assert.Len(t, doc.Walls, len(res.Walls))
	assert.Equal(t, walkthrough.LCGVersion, doc.LCGVersion)

	data, err := MarshalWalkthrough(doc)
	require.NoError(t, err)
	back, err := UnmarshalWalkthrough(data)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

func TestPlacementsDocument(t *testing.T) {
	p := PlacementsOf("hub", map[string]v3.Vec{"hub": {}, "a": {X: -6}})
	data, err := MarshalPlacements(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"root":"hub","positions":{"a":[-6,0,0],"hub":[0,0,0]}}`, string(data))

	back, err := UnmarshalPlacements(data)
	require.NoError(t, err)
	assert.Equal(t, p, back)
}
