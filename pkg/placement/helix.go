package placement

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Epsilon is the length below which a vector counts as degenerate.
const Epsilon = 1e-9

// Degeneracy identifies a fallback taken while placing a node.
type Degeneracy string

const (
	// ParentAtRoot means the parent coincides with the root, so there is
	// no outward direction. The fixed fallback offset is used.
	ParentAtRoot Degeneracy = "parent_at_root"
	// ParallelUp means the outward direction is vertical. The helix frame
	// uses the x axis as its right vector.
	ParallelUp Degeneracy = "parallel_up"
	// NonFinite means a coordinate came out NaN or infinite. The fixed
	// fallback offset is used.
	NonFinite Degeneracy = "non_finite"
)

var (
	// FallbackOffset is added to the parent position when no helix can be built.
	FallbackOffset = v3.Vec{X: 2, Y: 1, Z: 2}

	worldUp    = v3.Vec{Y: 1}
	worldRight = v3.Vec{X: 1}
)

// HelixProfile holds the constants of the helix primitive.
type HelixProfile struct {
	BaseDistance      float64 `toml:"base_distance" json:"base_distance"`
	DistanceIncrement float64 `toml:"distance_increment" json:"distance_increment"`
	TurnsPerNode      float64 `toml:"turns_per_node" json:"turns_per_node"`
	HelixRadius       float64 `toml:"helix_radius" json:"helix_radius"`
}

// DefaultHelix is the helix profile used for nested replies.
var DefaultHelix = HelixProfile{
	BaseDistance:      4,
	DistanceIncrement: 0.6,
	TurnsPerNode:      0.15,
	HelixRadius:       1.2,
}

// HelixResult is the outcome of [Helix].
type HelixResult struct {
	Position     v3.Vec
	Degeneracies []Degeneracy
}

// Helix returns the position of sibling i of a node at parent, in a tree
// whose root is at root. Children step outward along root→parent and wind
// around that axis.
func Helix(p HelixProfile, i int, parent, root v3.Vec) HelixResult {
	var res HelixResult

	toParent := parent.Sub(root)
	if !finite(toParent) {
		res.Position = fallback(parent, root)
		res.Degeneracies = append(res.Degeneracies, NonFinite)
		return res
	}
	l := toParent.Length()
	if l < Epsilon {
		res.Position = fallback(parent, root)
		res.Degeneracies = append(res.Degeneracies, ParentAtRoot)
		return res
	}
	dir := toParent.MulScalar(1 / l)

	distance := p.BaseDistance + float64(i)*p.DistanceIncrement
	angle := float64(i) * p.TurnsPerNode * 2 * math.Pi

	right := dir.Cross(worldUp)
	if rl := right.Length(); rl < Epsilon {
		right = worldRight
		res.Degeneracies = append(res.Degeneracies, ParallelUp)
	} else {
		right = right.MulScalar(1 / rl)
	}
	up2 := dir.Cross(right)

	offset := right.MulScalar(math.Cos(angle)).Add(up2.MulScalar(math.Sin(angle))).MulScalar(p.HelixRadius)
	pos := parent.Add(dir.MulScalar(distance)).Add(offset)

	if !finite(pos) {
		pos = fallback(parent, root)
		res.Degeneracies = append(res.Degeneracies, NonFinite)
	}
	res.Position = pos
	return res
}

// fallback is parent+FallbackOffset, or the first finite of root+offset
// and the bare offset when the parent itself is not finite.
func fallback(parent, root v3.Vec) v3.Vec {
	for _, base := range [2]v3.Vec{parent, root} {
		if p := base.Add(FallbackOffset); finite(p) {
			return p
		}
	}
	return FallbackOffset
}

func finite(v v3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
