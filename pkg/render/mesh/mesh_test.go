package mesh

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/treescape/pkg/tree"
	"github.com/matzehuels/treescape/pkg/walkthrough"
)

func sample() walkthrough.Result {
	s := tree.Snapshot{
		RootID: "hub",
		Entries: map[string]tree.Entry{
			"hub": {Children: []string{"a"}},
			"a":   {Parent: "hub"},
		},
	}
	return walkthrough.Build(s, "", walkthrough.DefaultConfig())
}

func TestWallBox(t *testing.T) {
	tests := []struct {
		name   string
		wall   walkthrough.Wall
		lo, hi v3.Vec
	}{
		{
			name: "along x",
			wall: walkthrough.Wall{Start: v3.Vec{X: 0, Z: 5}, End: v3.Vec{X: 4, Z: 5}},
			lo:   v3.Vec{X: 0, Y: 0, Z: 4.9},
			hi:   v3.Vec{X: 4, Y: 3, Z: 5.1},
		},
		{
			name: "along z reversed",
			wall: walkthrough.Wall{Start: v3.Vec{X: 2, Z: 6}, End: v3.Vec{X: 2, Z: 1}},
			lo:   v3.Vec{X: 1.9, Y: 0, Z: 1},
			hi:   v3.Vec{X: 2.1, Y: 3, Z: 6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := wallBox(tt.wall, 3, 0.2)
			assert.InDelta(t, tt.lo.X, b.lo.X, 1e-12)
			assert.InDelta(t, tt.lo.Y, b.lo.Y, 1e-12)
			assert.InDelta(t, tt.lo.Z, b.lo.Z, 1e-12)
			assert.InDelta(t, tt.hi.X, b.hi.X, 1e-12)
			assert.InDelta(t, tt.hi.Y, b.hi.Y, 1e-12)
			assert.InDelta(t, tt.hi.Z, b.hi.Z, 1e-12)
		})
	}
}

func TestBoxes(t *testing.T) {
	res := sample()
	m := Boxes(res, Options{})

	require.Equal(t, 12*len(res.Walls), m.Triangles())
	require.Len(t, m.Vertices, 8*len(res.Walls))

	// Every face normal points away from its box center.
	for i, f := range m.Faces {
		base := (f[0] / 8) * 8
		var center v3.Vec
		for k := range 8 {
			center = center.Add(m.Vertices[base+k])
		}
		center = center.MulScalar(1.0 / 8)

		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).MulScalar(1.0 / 3)
		if n.Dot(centroid.Sub(center)) <= 0 {
			t.Fatalf("face %d points inward", i)
		}
	}

	lo, hi := m.Bounds()
	assert.Equal(t, 0.0, lo.Y)
	assert.Equal(t, DefaultHeight, hi.Y)
}

func TestBoxesFloor(t *testing.T) {
	res := sample()
	m := Boxes(res, Options{Floor: true, Height: 2})

	assert.Equal(t, 12*(len(res.Walls)+len(res.Layout)), m.Triangles())
	lo, hi := m.Bounds()
	assert.Equal(t, -floorThickness, lo.Y)
	assert.Equal(t, 2.0, hi.Y)
}

func TestSolidEmpty(t *testing.T) {
	_, err := Solid(walkthrough.Result{}, Options{})
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("Solid(empty) error = %v, want ErrEmpty", err)
	}
	if _, err := Build(walkthrough.Result{}, Options{}); !errors.Is(err, ErrEmpty) {
		t.Errorf("Build(empty) error = %v, want ErrEmpty", err)
	}
}

func TestSolidBounds(t *testing.T) {
	res := sample()
	s, err := Solid(res, Options{})
	require.NoError(t, err)

	exact := Boxes(res, Options{})
	lo, hi := exact.Bounds()
	bb := s.BoundingBox()
	assert.InDelta(t, lo.X, bb.Min.X, 1e-9)
	assert.InDelta(t, lo.Z, bb.Min.Z, 1e-9)
	assert.InDelta(t, hi.X, bb.Max.X, 1e-9)
	assert.InDelta(t, hi.Y, bb.Max.Y, 1e-9)
}

func TestTessellate(t *testing.T) {
	res := walkthrough.Result{
		Walls: []walkthrough.Wall{{Start: v3.Vec{X: 0, Z: 0}, End: v3.Vec{X: 4, Z: 0}}},
	}
	m, err := Build(res, Options{Cells: 24, Thickness: 1, Height: 2})
	require.NoError(t, err)
	require.NotZero(t, m.Triangles())

	lo, hi := m.Bounds()
	const slack = 0.5
	assert.GreaterOrEqual(t, lo.X, -slack)
	assert.LessOrEqual(t, hi.X, 4+slack)
	assert.GreaterOrEqual(t, lo.Y, -slack)
	assert.LessOrEqual(t, hi.Y, 2+slack)
}

func TestWriteOBJ(t *testing.T) {
	m := Boxes(walkthrough.Result{
		Walls: []walkthrough.Wall{{Start: v3.Vec{X: 0, Z: 0}, End: v3.Vec{X: 1.5, Z: 0}}},
	}, Options{Height: 1, Thickness: 0.5})

	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, "room", m))
	out := buf.String()

	assert.Contains(t, out, "o room\n")
	assert.Contains(t, out, "v 1.5 1 0.25\n")
	assert.Equal(t, 8, strings.Count(out, "\nv "))
	assert.Equal(t, 12, strings.Count(out, "\nf "))
	assert.Contains(t, out, "f 1 4 2\n")
}

func TestWriteOBJBadIndex(t *testing.T) {
	m := Mesh{Vertices: []v3.Vec{{}}, Faces: [][3]int{{0, 0, 3}}}
	if err := WriteOBJ(&bytes.Buffer{}, "", m); err == nil {
		t.Error("WriteOBJ() error = nil, want range error")
	}
}
