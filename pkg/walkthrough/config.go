package walkthrough

import (
	"errors"
	"fmt"
)

// Footprint is the floor size of a room.
type Footprint struct {
	Width float64 `toml:"width" json:"width"`
	Depth float64 `toml:"depth" json:"depth"`
}

// Config holds the layout constants.
type Config struct {
	Palette   []Footprint `toml:"palette" json:"palette"`
	DoorWidth float64     `toml:"door_width" json:"door_width"`
	RoomGap   float64     `toml:"room_gap" json:"room_gap"`
	RowLength int         `toml:"row_length" json:"row_length"`
	Colors    []string    `toml:"colors" json:"colors"`
}

// Defaults.
const (
	DefaultDoorWidth = 2.0
	DefaultRoomGap   = 0.0
	DefaultRowLength = 4
)

// DefaultPalette lists the stock room footprints.
var DefaultPalette = []Footprint{
	{Width: 8, Depth: 6},
	{Width: 10, Depth: 8},
	{Width: 6, Depth: 6},
	{Width: 12, Depth: 8},
	{Width: 8, Depth: 10},
	{Width: 10, Depth: 10},
}

// DefaultColors lists the stock landmark colors.
var DefaultColors = []string{
	"#e07a5f",
	"#3d405b",
	"#81b29a",
	"#f2cc8f",
	"#6d597a",
	"#4ea8de",
}

// DefaultConfig returns the stock layout constants.
func DefaultConfig() Config {
	return Config{
		Palette:   append([]Footprint(nil), DefaultPalette...),
		DoorWidth: DefaultDoorWidth,
		RoomGap:   DefaultRoomGap,
		RowLength: DefaultRowLength,
		Colors:    append([]string(nil), DefaultColors...),
	}
}

// withDefaults fills unset fields. RoomGap keeps its value since zero is
// the default.
func (c Config) withDefaults() Config {
	if len(c.Palette) == 0 {
		c.Palette = DefaultPalette
	}
	if c.DoorWidth <= 0 {
		c.DoorWidth = DefaultDoorWidth
	}
	if c.RowLength <= 0 {
		c.RowLength = DefaultRowLength
	}
	if len(c.Colors) == 0 {
		c.Colors = DefaultColors
	}
	return c
}

// ErrInvalidConfig is wrapped by [Config.Validate] failures.
var ErrInvalidConfig = errors.New("invalid walkthrough config")

// Validate reports constants that cannot produce a walkable layout.
func (c Config) Validate() error {
	if len(c.Palette) == 0 {
		return fmt.Errorf("%w: empty palette", ErrInvalidConfig)
	}
	if c.DoorWidth <= 0 {
		return fmt.Errorf("%w: door_width must be positive", ErrInvalidConfig)
	}
	for i, fp := range c.Palette {
		if fp.Width < c.DoorWidth || fp.Depth < c.DoorWidth {
			return fmt.Errorf("%w: palette[%d] %gx%g is narrower than the door", ErrInvalidConfig, i, fp.Width, fp.Depth)
		}
	}
	if c.RoomGap < 0 {
		return fmt.Errorf("%w: room_gap must not be negative", ErrInvalidConfig)
	}
	if c.RowLength < 1 {
		return fmt.Errorf("%w: row_length must be at least 1", ErrInvalidConfig)
	}
	if len(c.Colors) == 0 {
		return fmt.Errorf("%w: empty color list", ErrInvalidConfig)
	}
	return nil
}

func (c Config) deepest() float64 {
	d := 0.0
	for _, fp := range c.Palette {
		d = max(d, fp.Depth)
	}
	return d
}
