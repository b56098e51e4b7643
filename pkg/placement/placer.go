package placement

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/matzehuels/treescape/pkg/observability"
	"github.com/matzehuels/treescape/pkg/tree"
)

// Profiles groups the constants of every placement mode.
type Profiles struct {
	Hub         RingProfile  `toml:"hub" json:"hub"`
	Aggregation RingProfile  `toml:"aggregation" json:"aggregation"`
	Helix       HelixProfile `toml:"helix" json:"helix"`
}

// DefaultProfiles returns the stock constants.
func DefaultProfiles() Profiles {
	return Profiles{
		Hub:         HubProfile,
		Aggregation: AggregationProfile,
		Helix:       DefaultHelix,
	}
}

// Request describes one node to place.
type Request struct {
	NodeID  string
	Sibling int

	ParentPos         v3.Vec
	RootPos           v3.Vec
	ParentIsRoot      bool
	ParentIsAggregate bool
}

// Placer chooses the primitive for a node and reports degeneracies.
// It holds no mutable state and is safe for concurrent use.
type Placer struct {
	profiles Profiles
	hooks    observability.PlacementHooks
}

// New creates a placer. A nil hooks value discards diagnostics.
func New(p Profiles, hooks observability.PlacementHooks) *Placer {
	if hooks == nil {
		hooks = observability.NoopPlacementHooks{}
	}
	return &Placer{profiles: p, hooks: hooks}
}

// Profiles returns the constants the placer was built with.
func (p *Placer) Profiles() Profiles { return p.profiles }

// Place returns the position of the requested node. It always returns a
// finite position.
func (p *Placer) Place(req Request) v3.Vec {
	switch {
	case req.ParentIsRoot:
		return p.ring(p.profiles.Hub, req)
	case req.ParentIsAggregate:
		return p.ring(p.profiles.Aggregation, req)
	}

	res := Helix(p.profiles.Helix, req.Sibling, req.ParentPos, req.RootPos)
	for _, d := range res.Degeneracies {
		p.hooks.OnFallback(req.NodeID, string(d))
	}
	p.hooks.OnPlaced(req.NodeID, req.Sibling, "helix")
	return res.Position
}

// PlaceFunc adapts the placer to [tree.Tree.Insert].
func (p *Placer) PlaceFunc() tree.PlaceFunc {
	return func(id string, sibling int, parent, root *tree.Node) v3.Vec {
		return p.Place(Request{
			NodeID:            id,
			Sibling:           sibling,
			ParentPos:         parent.Position,
			RootPos:           root.Position,
			ParentIsRoot:      parent.IsRoot(),
			ParentIsAggregate: parent.IsAggregate(),
		})
	}
}

func (p *Placer) ring(profile RingProfile, req Request) v3.Vec {
	pos := Ring(profile, req.Sibling, req.ParentPos)
	if !finite(pos) {
		pos = fallback(req.ParentPos, req.RootPos)
		p.hooks.OnFallback(req.NodeID, string(NonFinite))
	}
	p.hooks.OnPlaced(req.NodeID, req.Sibling, profile.Name)
	return pos
}
