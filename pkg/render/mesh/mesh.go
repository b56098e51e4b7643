// Package mesh turns walkthrough walls into 3D solids and triangle meshes.
//
// Two paths are offered. [Boxes] emits one exact axis-aligned box per wall
// segment, which is small and lossless. [Solid] builds a single sdfx
// signed-distance solid (walls plus optional floor slabs) that [Tessellate]
// turns into triangles with marching cubes. Either mesh can be written as
// Wavefront OBJ with [WriteOBJ].
package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/matzehuels/treescape/pkg/walkthrough"
)

// Defaults.
const (
	DefaultHeight    = 3.0
	DefaultThickness = 0.2
	DefaultCells     = 200
	floorThickness   = 0.1
)

// ErrEmpty is returned by [Solid] when there is nothing to build.
var ErrEmpty = errors.New("no walls to build")

// Options controls wall extrusion.
type Options struct {
	Height    float64 // wall height along +y
	Thickness float64 // wall thickness across the segment
	Cells     int     // marching cubes resolution along the longest axis
	Floor     bool    // add a floor slab under every room
}

func (o Options) withDefaults() Options {
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Thickness <= 0 {
		o.Thickness = DefaultThickness
	}
	if o.Cells <= 0 {
		o.Cells = DefaultCells
	}
	return o
}

// Mesh is an indexed triangle mesh. Faces index into Vertices and wind
// counter-clockwise seen from outside.
type Mesh struct {
	Vertices []v3.Vec
	Faces    [][3]int
}

// Triangles returns the face count.
func (m Mesh) Triangles() int { return len(m.Faces) }

// Bounds returns the axis-aligned bounds of all vertices.
func (m Mesh) Bounds() (lo, hi v3.Vec) {
	if len(m.Vertices) == 0 {
		return v3.Vec{}, v3.Vec{}
	}
	lo = v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi = v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, v := range m.Vertices {
		lo = v3.Vec{X: min(lo.X, v.X), Y: min(lo.Y, v.Y), Z: min(lo.Z, v.Z)}
		hi = v3.Vec{X: max(hi.X, v.X), Y: max(hi.Y, v.Y), Z: max(hi.Z, v.Z)}
	}
	return lo, hi
}

// box is an axis-aligned solid given by opposite corners.
type box struct{ lo, hi v3.Vec }

func (b box) size() v3.Vec { return b.hi.Sub(b.lo) }

// wallBox extrudes a floor-plane segment into a box of the given height
// and thickness centered on the segment.
func wallBox(w walkthrough.Wall, height, thickness float64) box {
	half := thickness / 2
	x0, x1 := min(w.Start.X, w.End.X), max(w.Start.X, w.End.X)
	z0, z1 := min(w.Start.Z, w.End.Z), max(w.Start.Z, w.End.Z)
	if x1-x0 >= z1-z0 {
		z0, z1 = z0-half, z1+half
	} else {
		x0, x1 = x0-half, x1+half
	}
	return box{lo: v3.Vec{X: x0, Y: 0, Z: z0}, hi: v3.Vec{X: x1, Y: height, Z: z1}}
}

func floorBox(r walkthrough.Room) box {
	return box{
		lo: v3.Vec{X: r.Min.X, Y: -floorThickness, Z: r.Min.Z},
		hi: v3.Vec{X: r.Max.X, Y: 0, Z: r.Max.Z},
	}
}

func boxes(res walkthrough.Result, opts Options) []box {
	out := make([]box, 0, len(res.Walls)+len(res.Layout))
	for _, w := range res.Walls {
		out = append(out, wallBox(w, opts.Height, opts.Thickness))
	}
	if opts.Floor {
		for _, r := range res.Layout {
			out = append(out, floorBox(r))
		}
	}
	return out
}

// boxFaces lists the 12 outward-facing triangles of a box whose corners
// are numbered by bit: 1 = +x, 2 = +y, 4 = +z.
var boxFaces = [12][3]int{
	{0, 3, 1}, {0, 2, 3}, // -z
	{4, 5, 7}, {4, 7, 6}, // +z
	{0, 1, 5}, {0, 5, 4}, // -y
	{2, 6, 7}, {2, 7, 3}, // +y
	{0, 4, 6}, {0, 6, 2}, // -x
	{1, 3, 7}, {1, 7, 5}, // +x
}

// Boxes returns an exact mesh with one box per wall segment, plus one
// slab per room when opts.Floor is set.
func Boxes(res walkthrough.Result, opts Options) Mesh {
	opts = opts.withDefaults()
	bs := boxes(res, opts)
	m := Mesh{
		Vertices: make([]v3.Vec, 0, len(bs)*8),
		Faces:    make([][3]int, 0, len(bs)*12),
	}
	for _, b := range bs {
		base := len(m.Vertices)
		for i := range 8 {
			v := b.lo
			if i&1 != 0 {
				v.X = b.hi.X
			}
			if i&2 != 0 {
				v.Y = b.hi.Y
			}
			if i&4 != 0 {
				v.Z = b.hi.Z
			}
			m.Vertices = append(m.Vertices, v)
		}
		for _, f := range boxFaces {
			m.Faces = append(m.Faces, [3]int{base + f[0], base + f[1], base + f[2]})
		}
	}
	return m
}

// Solid unions all wall boxes (and floor slabs) into one sdfx solid.
func Solid(res walkthrough.Result, opts Options) (sdf.SDF3, error) {
	opts = opts.withDefaults()
	bs := boxes(res, opts)
	if len(bs) == 0 {
		return nil, ErrEmpty
	}

	parts := make([]sdf.SDF3, 0, len(bs))
	for _, b := range bs {
		// sdf.Box3D is centered on the origin.
		s, err := sdf.Box3D(b.size(), 0)
		if err != nil {
			return nil, fmt.Errorf("wall box: %w", err)
		}
		center := b.lo.Add(b.size().MulScalar(0.5))
		parts = append(parts, sdf.Transform3D(s, sdf.Translate3d(center)))
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return sdf.Union3D(parts...), nil
}

// Tessellate converts a solid to a triangle mesh with marching cubes.
// Vertices are shared only within a triangle.
func Tessellate(s sdf.SDF3, cells int) Mesh {
	if cells <= 0 {
		cells = DefaultCells
	}
	tris := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	m := Mesh{
		Vertices: make([]v3.Vec, 0, len(tris)*3),
		Faces:    make([][3]int, 0, len(tris)),
	}
	for _, tri := range tris {
		base := len(m.Vertices)
		for j := 0; j < 3; j++ {
			m.Vertices = append(m.Vertices, tri[j])
		}
		m.Faces = append(m.Faces, [3]int{base, base + 1, base + 2})
	}
	return m
}

// Build is [Solid] followed by [Tessellate] at opts.Cells.
func Build(res walkthrough.Result, opts Options) (Mesh, error) {
	opts = opts.withDefaults()
	s, err := Solid(res, opts)
	if err != nil {
		return Mesh{}, err
	}
	return Tessellate(s, opts.Cells), nil
}
