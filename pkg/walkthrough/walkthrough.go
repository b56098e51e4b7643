package walkthrough

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/matzehuels/treescape/pkg/tree"
)

// RoomInfo is the public view of a placed room.
type RoomInfo struct {
	ID            string
	Center        v3.Vec
	SequenceIndex int
}

// Result is a complete walkthrough.
type Result struct {
	Rooms           []RoomInfo
	Walls           []Wall
	TypicalRoomSize float64 // mean of (width+depth)/2 over all rooms

	// Layout keeps the full room records for renderers.
	Layout []Room
	Seed   int64
}

// IsEmpty reports whether the walkthrough has no rooms.
func (r Result) IsEmpty() bool { return len(r.Rooms) == 0 }

// Build sequences the subtree at start, lays out its rooms and carves the
// walls. An empty start means the model's root. The layout seed is
// [Seed] of start. An empty or unknown start yields an empty result.
func Build(m tree.Model, start string, cfg Config) Result {
	if m == nil {
		return Result{}
	}
	if start == "" {
		start = m.Root()
	}
	seq := Sequence(m, start)
	if len(seq) == 0 {
		return Result{}
	}

	seed := Seed(start)
	rooms := LayoutRooms(seq, seed, cfg)
	res := Result{
		Rooms:  make([]RoomInfo, len(rooms)),
		Walls:  CarveWalls(rooms, cfg),
		Layout: rooms,
		Seed:   seed,
	}
	var total float64
	for i, r := range rooms {
		res.Rooms[i] = RoomInfo{ID: r.ID, Center: r.Center, SequenceIndex: r.SequenceIndex}
		total += (r.Footprint.Width + r.Footprint.Depth) / 2
	}
	res.TypicalRoomSize = total / float64(len(rooms))
	return res
}
