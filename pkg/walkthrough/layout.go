package walkthrough

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Direction is a compass move on the floor plane. Right is +x, Down is +z.
// It names both the exit of a room and the wall side a door sits on.
type Direction int

const (
	None Direction = iota
	Right
	Left
	Down
	Up
)

var directionNames = [...]string{"none", "right", "left", "down", "up"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(b []byte) error {
	for i, name := range directionNames {
		if name == string(b) {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown direction %q", b)
}

// Opposite returns the reverse direction. None is its own opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case Right:
		return Left
	case Left:
		return Right
	case Down:
		return Up
	case Up:
		return Down
	}
	return None
}

// Room is one laid-out room. Min and Max bound the footprint on the floor
// plane (y = 0). Doors are the centers of the entry and exit doorways and
// are zero when the corresponding direction is None.
type Room struct {
	ID            string
	SequenceIndex int
	Preset        int // palette index drawn for this room
	Footprint     Footprint

	Min, Max v3.Vec
	Center   v3.Vec

	Entry, Exit         Direction
	EntryDoor, ExitDoor v3.Vec
}

// IsTurn reports whether the room connects two rows.
func (r Room) IsTurn() bool { return r.Exit == Down || r.Entry == Up }

// exitFor applies the snake rule to room i of n.
func exitFor(i, n, rowLength int) Direction {
	switch {
	case i == n-1:
		return None
	case i%rowLength == rowLength-1:
		return Down
	case (i/rowLength)%2 == 0:
		return Right
	default:
		return Left
	}
}

// LayoutRooms assigns a room to every ID in seq. One footprint is drawn per
// room from an [LCG] seeded with seed. Unset config fields take their
// defaults.
func LayoutRooms(seq []string, seed int64, cfg Config) []Room {
	if len(seq) == 0 {
		return nil
	}
	cfg = cfg.withDefaults()
	rng := NewLCG(seed)
	deepest := cfg.deepest()

	rooms := make([]Room, len(seq))
	for i, id := range seq {
		preset := rng.Intn(len(cfg.Palette))
		r := Room{
			ID:            id,
			SequenceIndex: i,
			Preset:        preset,
			Footprint:     cfg.Palette[preset],
			Exit:          exitFor(i, len(seq), cfg.RowLength),
		}
		if i > 0 {
			r.Entry = rooms[i-1].Exit.Opposite()
		}
		if r.IsTurn() {
			r.Footprint.Depth = deepest
		}

		if i == 0 {
			r.Max = v3.Vec{X: r.Footprint.Width, Z: r.Footprint.Depth}
		} else {
			prev := &rooms[i-1]
			r.Min, r.Max = follow(prev, r.Footprint, cfg.RoomGap)
			connect(prev, &r)
		}
		r.Center = r.Min.Add(r.Max).MulScalar(0.5)
		rooms[i] = r
	}
	return rooms
}

// follow returns the bounds of the room after prev, offset by gap in
// prev's exit direction. Rooms in a row share their near edge; a room
// below a turn shares its left edge with the turn.
func follow(prev *Room, fp Footprint, gap float64) (lo, hi v3.Vec) {
	switch prev.Exit {
	case Left:
		hi = v3.Vec{X: prev.Min.X - gap, Z: prev.Min.Z + fp.Depth}
		lo = v3.Vec{X: hi.X - fp.Width, Z: prev.Min.Z}
		return lo, hi
	case Down:
		lo = v3.Vec{X: prev.Min.X, Z: prev.Max.Z + gap}
	default:
		lo = v3.Vec{X: prev.Max.X + gap, Z: prev.Min.Z}
	}
	return lo, v3.Vec{X: lo.X + fp.Width, Z: lo.Z + fp.Depth}
}

// connect fixes the doorway between prev and next. The door sits in the
// middle of the stretch both walls share and is copied into next, so the
// lateral coordinate is identical on both sides.
func connect(prev, next *Room) {
	switch prev.Exit {
	case Right:
		prev.ExitDoor = v3.Vec{X: prev.Max.X, Z: shared(prev.Min.Z, prev.Max.Z, next.Min.Z, next.Max.Z)}
		next.EntryDoor = prev.ExitDoor
		next.EntryDoor.X = next.Min.X
	case Left:
		prev.ExitDoor = v3.Vec{X: prev.Min.X, Z: shared(prev.Min.Z, prev.Max.Z, next.Min.Z, next.Max.Z)}
		next.EntryDoor = prev.ExitDoor
		next.EntryDoor.X = next.Max.X
	case Down:
		prev.ExitDoor = v3.Vec{X: shared(prev.Min.X, prev.Max.X, next.Min.X, next.Max.X), Z: prev.Max.Z}
		next.EntryDoor = prev.ExitDoor
		next.EntryDoor.Z = next.Min.Z
	}
}

// shared returns the midpoint of the overlap of [a0,a1] and [b0,b1].
func shared(a0, a1, b0, b1 float64) float64 {
	lo, hi := max(a0, b0), min(a1, b1)
	if hi < lo {
		return (a0 + a1) / 2
	}
	return (lo + hi) / 2
}
