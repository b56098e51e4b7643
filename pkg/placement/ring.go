package placement

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// GoldenAngle is π(3−√5) radians, about 137.5°.
var GoldenAngle = math.Pi * (3 - math.Sqrt(5))

// RingProfile holds the constants of the ring primitive.
type RingProfile struct {
	Name            string  `toml:"name" json:"name"`
	BaseRadius      float64 `toml:"base_radius" json:"base_radius"`
	RadiusIncrement float64 `toml:"radius_increment" json:"radius_increment"`
	NodesPerRing    int     `toml:"nodes_per_ring" json:"nodes_per_ring"`
	RingHeight      float64 `toml:"ring_height" json:"ring_height"`

	// Stacked lifts ring r to r*RingHeight instead of alternating above
	// and below the anchor plane.
	Stacked bool `toml:"stacked" json:"stacked"`
}

// HubProfile lays out the root's direct children.
var HubProfile = RingProfile{
	Name:            "hub",
	BaseRadius:      6,
	RadiusIncrement: 0.4,
	NodesPerRing:    6,
	RingHeight:      1.5,
}

// AggregationProfile lays out the children of aggregation nodes: slower
// radius growth, taller steps, rings stacked upward.
var AggregationProfile = RingProfile{
	Name:            "aggregation",
	BaseRadius:      4,
	RadiusIncrement: 0.15,
	NodesPerRing:    8,
	RingHeight:      3,
	Stacked:         true,
}

// RingSlot splits a sibling index into its ring and its slot on that ring.
func (p RingProfile) RingSlot(i int) (ring, slot int) {
	n := max(p.NodesPerRing, 1)
	return i / n, i % n
}

// Angle returns the angle in radians of sibling i around the anchor.
func (p RingProfile) Angle(i int) float64 {
	ring, slot := p.RingSlot(i)
	n := max(p.NodesPerRing, 1)
	return float64(slot)*(2*math.Pi/float64(n)) + float64(ring)*GoldenAngle
}

// Radius returns the horizontal distance of sibling i from the anchor.
func (p RingProfile) Radius(i int) float64 {
	return p.BaseRadius + float64(i)*p.RadiusIncrement
}

// Height returns the vertical offset of sibling i from the anchor.
func (p RingProfile) Height(i int) float64 {
	ring, _ := p.RingSlot(i)
	if ring == 0 {
		return 0
	}
	if p.Stacked {
		return float64(ring) * p.RingHeight
	}
	step := (ring + 1) / 2 // ceil(ring/2)
	sign := -1.0
	if ring%2 == 1 {
		sign = 1
	}
	return float64(step) * p.RingHeight * sign
}

// Ring returns the position of sibling i around anchor.
//
// The radius grows strictly with i, so two siblings never share a point.
func Ring(p RingProfile, i int, anchor v3.Vec) v3.Vec {
	r := p.Radius(i)
	a := p.Angle(i)
	return anchor.Add(v3.Vec{
		X: -r * math.Cos(a),
		Y: p.Height(i),
		Z: r * math.Sin(a),
	})
}
