package walkthrough

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("r%d", i)
	}
	return out
}

func TestSnakeDirections(t *testing.T) {
	rooms := LayoutRooms(ids(10), 1, DefaultConfig())
	wantExit := []Direction{Right, Right, Right, Down, Left, Left, Left, Down, Right, None}
	wantEntry := []Direction{None, Left, Left, Left, Up, Right, Right, Right, Up, Left}

	for i, r := range rooms {
		assert.Equal(t, wantExit[i], r.Exit, "exit of room %d", i)
		assert.Equal(t, wantEntry[i], r.Entry, "entry of room %d", i)
	}
}

func TestFirstRoomAtOrigin(t *testing.T) {
	rooms := LayoutRooms(ids(3), Seed("hub"), DefaultConfig())
	require.Len(t, rooms, 3)
	r := rooms[0]
	assert.Zero(t, r.Min)
	assert.Equal(t, r.Footprint.Width, r.Max.X)
	assert.Equal(t, r.Footprint.Depth, r.Max.Z)
	assert.Equal(t, 0.0, r.Center.Y)
	assert.Equal(t, r.Footprint.Width/2, r.Center.X)
}

func TestSingleRoom(t *testing.T) {
	rooms := LayoutRooms([]string{"only"}, 7, DefaultConfig())
	require.Len(t, rooms, 1)
	assert.Equal(t, None, rooms[0].Entry)
	assert.Equal(t, None, rooms[0].Exit)
}

func TestEmptyLayout(t *testing.T) {
	assert.Empty(t, LayoutRooms(nil, 1, DefaultConfig()))
}

func TestDoorAlignment(t *testing.T) {
	for _, n := range []int{2, 4, 5, 9, 17, 40} {
		for _, seed := range []int64{0, 1, 319, 99991} {
			rooms := LayoutRooms(ids(n), seed, DefaultConfig())
			for i := 1; i < len(rooms); i++ {
				prev, cur := rooms[i-1], rooms[i]
				if prev.ExitDoor != cur.EntryDoor {
					t.Fatalf("n=%d seed=%d: room %d exit door %v != room %d entry door %v",
						n, seed, i-1, prev.ExitDoor, i, cur.EntryDoor)
				}
			}
		}
	}
}

func TestDoorAlignmentWithGap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RoomGap = 1.5
	rooms := LayoutRooms(ids(12), 42, cfg)
	for i := 1; i < len(rooms); i++ {
		prev, cur := rooms[i-1], rooms[i]
		d := cur.EntryDoor.Sub(prev.ExitDoor)
		switch prev.Exit {
		case Right:
			assert.Equal(t, 0.0, d.Z)
			assert.InDelta(t, cfg.RoomGap, d.X, 1e-12)
		case Left:
			assert.Equal(t, 0.0, d.Z)
			assert.InDelta(t, -cfg.RoomGap, d.X, 1e-12)
		case Down:
			assert.Equal(t, 0.0, d.X)
			assert.InDelta(t, cfg.RoomGap, d.Z, 1e-12)
		}
	}
}

func TestDoorsLieOnWalls(t *testing.T) {
	rooms := LayoutRooms(ids(20), 5, DefaultConfig())
	for _, r := range rooms {
		for _, c := range []struct {
			dir  Direction
			door [3]float64
		}{
			{r.Entry, [3]float64{r.EntryDoor.X, r.EntryDoor.Y, r.EntryDoor.Z}},
			{r.Exit, [3]float64{r.ExitDoor.X, r.ExitDoor.Y, r.ExitDoor.Z}},
		} {
			x, z := c.door[0], c.door[2]
			switch c.dir {
			case Right:
				assert.Equal(t, r.Max.X, x)
			case Left:
				assert.Equal(t, r.Min.X, x)
			case Down:
				assert.Equal(t, r.Max.Z, z)
			case Up:
				assert.Equal(t, r.Min.Z, z)
			}
			if c.dir != None {
				assert.True(t, x >= r.Min.X && x <= r.Max.X && z >= r.Min.Z && z <= r.Max.Z,
					"door of %s outside its room", r.ID)
			}
		}
	}
}

func TestRoomsNeverOverlap(t *testing.T) {
	for _, seed := range []int64{0, 3, 319, 1234} {
		rooms := LayoutRooms(ids(30), seed, DefaultConfig())
		for i := range rooms {
			for j := i + 1; j < len(rooms); j++ {
				a, b := rooms[i], rooms[j]
				ox := min(a.Max.X, b.Max.X) - max(a.Min.X, b.Min.X)
				oz := min(a.Max.Z, b.Max.Z) - max(a.Min.Z, b.Min.Z)
				if ox > 1e-9 && oz > 1e-9 {
					t.Fatalf("seed %d: rooms %d and %d overlap", seed, i, j)
				}
			}
		}
	}
}

func TestTurnRoomsTakeDeepestDepth(t *testing.T) {
	cfg := DefaultConfig()
	rooms := LayoutRooms(ids(12), 8, cfg)
	for _, r := range rooms {
		if r.IsTurn() {
			assert.Equal(t, 10.0, r.Footprint.Depth, "room %d", r.SequenceIndex)
			assert.Equal(t, cfg.Palette[r.Preset].Width, r.Footprint.Width)
		} else {
			assert.Equal(t, cfg.Palette[r.Preset], r.Footprint)
		}
	}
}

func TestSeedStability(t *testing.T) {
	rooms := LayoutRooms(ids(5), Seed("hub"), DefaultConfig())
	var presets []int
	for _, r := range rooms {
		presets = append(presets, r.Preset)
	}
	assert.Equal(t, []int{5, 2, 1, 1, 4}, presets)

	again := LayoutRooms(ids(5), Seed("hub"), DefaultConfig())
	assert.Equal(t, rooms, again)
}

func TestRowLengthOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RowLength = 1
	rooms := LayoutRooms(ids(4), 1, cfg)
	for i, r := range rooms[:3] {
		assert.Equal(t, Down, r.Exit, "room %d", i)
	}
	assert.Equal(t, rooms[0].Min.X, rooms[3].Min.X)
}

func TestDirectionText(t *testing.T) {
	for _, d := range []Direction{None, Right, Left, Down, Up} {
		b, err := d.MarshalText()
		require.NoError(t, err)
		var back Direction
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, d, back)
		assert.Equal(t, d, d.Opposite().Opposite())
	}
	var d Direction
	assert.Error(t, d.UnmarshalText([]byte("sideways")))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"empty palette", func(c *Config) { c.Palette = nil }, true},
		{"zero door", func(c *Config) { c.DoorWidth = 0 }, true},
		{"narrow room", func(c *Config) { c.Palette = []Footprint{{Width: 1, Depth: 8}} }, true},
		{"negative gap", func(c *Config) { c.RoomGap = -1 }, true},
		{"zero row", func(c *Config) { c.RowLength = 0 }, true},
		{"no colors", func(c *Config) { c.Colors = nil }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}
