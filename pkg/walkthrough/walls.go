package walkthrough

import v3 "github.com/deadsy/sdfx/vec/v3"

// Wall is one wall segment on the floor plane.
type Wall struct {
	Start, End         v3.Vec
	OwnerSequenceIndex int
	Color              string
	Side               Direction // Up is north (min z), Right is east (max x)
}

// Length returns the length of the segment.
func (w Wall) Length() float64 { return w.End.Sub(w.Start).Length() }

// wallSides lists sides in emission order: north, east, south, west.
var wallSides = [4]Direction{Up, Right, Down, Left}

// CarveWalls emits the walls of every room. A side carrying the room's
// entry or exit door is split into two segments around a gap of
// cfg.DoorWidth centered on the door; pieces of zero length are dropped.
func CarveWalls(rooms []Room, cfg Config) []Wall {
	if len(rooms) == 0 {
		return nil
	}
	cfg = cfg.withDefaults()

	walls := make([]Wall, 0, len(rooms)*6)
	for _, r := range rooms {
		color := cfg.Colors[r.SequenceIndex%len(cfg.Colors)]
		for _, side := range wallSides {
			for _, seg := range carveSide(r, side, cfg.DoorWidth) {
				walls = append(walls, Wall{
					Start:              seg[0],
					End:                seg[1],
					OwnerSequenceIndex: r.SequenceIndex,
					Color:              color,
					Side:               side,
				})
			}
		}
	}
	return walls
}

func carveSide(r Room, side Direction, doorWidth float64) [][2]v3.Vec {
	// Every side runs along one axis at a fixed coordinate.
	var (
		lo, hi, fixed float64
		alongX        bool
	)
	switch side {
	case Up:
		lo, hi, fixed, alongX = r.Min.X, r.Max.X, r.Min.Z, true
	case Down:
		lo, hi, fixed, alongX = r.Min.X, r.Max.X, r.Max.Z, true
	case Right:
		lo, hi, fixed = r.Min.Z, r.Max.Z, r.Max.X
	case Left:
		lo, hi, fixed = r.Min.Z, r.Max.Z, r.Min.X
	}
	point := func(t float64) v3.Vec {
		if alongX {
			return v3.Vec{X: t, Z: fixed}
		}
		return v3.Vec{X: fixed, Z: t}
	}

	var door v3.Vec
	switch side {
	case r.Entry:
		door = r.EntryDoor
	case r.Exit:
		door = r.ExitDoor
	default:
		return [][2]v3.Vec{{point(lo), point(hi)}}
	}

	c := door.Z
	if alongX {
		c = door.X
	}
	half := doorWidth / 2
	var segs [][2]v3.Vec
	if a, b := lo, min(c-half, hi); b > a {
		segs = append(segs, [2]v3.Vec{point(a), point(b)})
	}
	if a, b := max(c+half, lo), hi; b > a {
		segs = append(segs, [2]v3.Vec{point(a), point(b)})
	}
	return segs
}
