package floorplan

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	"github.com/matzehuels/treescape/pkg/walkthrough"
)

// Defaults.
const (
	DefaultScale     = 10.0 // pixels per world unit
	DefaultPadding   = 2.0  // world units around the plan
	DefaultWallWidth = 0.3  // world units
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale     float64
	padding   float64
	wallWidth float64
	labels    bool
	path      bool
}

// WithScale sets the pixels per world unit.
func WithScale(s float64) SVGOption { return func(r *svgRenderer) { r.scale = s } }

// WithPadding sets the margin around the plan in world units.
func WithPadding(p float64) SVGOption { return func(r *svgRenderer) { r.padding = p } }

// WithWallWidth sets the stroke width of walls in world units.
func WithWallWidth(w float64) SVGOption { return func(r *svgRenderer) { r.wallWidth = w } }

// WithLabels prints each room's node id at its center.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithPath draws the visiting order as a polyline through room centers.
func WithPath() SVGOption { return func(r *svgRenderer) { r.path = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{scale: DefaultScale, padding: DefaultPadding, wallWidth: DefaultWallWidth}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = DefaultScale
	}
	if r.padding < 0 {
		r.padding = 0
	}
	if r.wallWidth <= 0 {
		r.wallWidth = DefaultWallWidth
	}
	return r
}

// bounds is the world-space rectangle covered by the plan.
type bounds struct {
	minX, minZ, maxX, maxZ float64
}

func (b bounds) width() float64  { return b.maxX - b.minX }
func (b bounds) height() float64 { return b.maxZ - b.minZ }

func planBounds(rooms []walkthrough.Room, pad float64) bounds {
	if len(rooms) == 0 {
		return bounds{maxX: 2 * pad, maxZ: 2 * pad}
	}
	b := bounds{minX: math.Inf(1), minZ: math.Inf(1), maxX: math.Inf(-1), maxZ: math.Inf(-1)}
	for _, r := range rooms {
		b.minX = min(b.minX, r.Min.X)
		b.minZ = min(b.minZ, r.Min.Z)
		b.maxX = max(b.maxX, r.Max.X)
		b.maxZ = max(b.maxZ, r.Max.Z)
	}
	b.minX -= pad
	b.minZ -= pad
	b.maxX += pad
	b.maxZ += pad
	return b
}

// RenderSVG draws the walkthrough. An empty walkthrough yields a small
// blank document.
func RenderSVG(res walkthrough.Result, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	b := planBounds(res.Layout, r.padding)
	w, h := b.width()*r.scale, b.height()*r.scale

	// Map world coordinates to pixels.
	px := func(x float64) float64 { return (x - b.minX) * r.scale }
	pz := func(z float64) float64 { return (z - b.minZ) * r.scale }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	buf.WriteString("  <style>.room-label { font-family: sans-serif; text-anchor: middle; dominant-baseline: middle; }</style>\n")

	buf.WriteString(`  <g class="rooms">` + "\n")
	colors := roomColors(res.Walls)
	for _, room := range res.Layout {
		fmt.Fprintf(&buf, `    <rect id="room-%d" class="room" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="0.18"/>`+"\n",
			room.SequenceIndex, px(room.Min.X), pz(room.Min.Z),
			(room.Max.X-room.Min.X)*r.scale, (room.Max.Z-room.Min.Z)*r.scale,
			escapeXML(colorOf(colors, room.SequenceIndex)))
	}
	buf.WriteString("  </g>\n")

	if r.path && len(res.Layout) > 1 {
		buf.WriteString(`  <polyline class="path" fill="none" stroke="#999" stroke-dasharray="4 4" points="`)
		for i, room := range res.Layout {
			if i > 0 {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(&buf, "%.2f,%.2f", px(room.Center.X), pz(room.Center.Z))
		}
		buf.WriteString(`"/>` + "\n")
	}

	buf.WriteString(`  <g class="walls" stroke-linecap="square">` + "\n")
	for _, wall := range res.Walls {
		fmt.Fprintf(&buf, `    <line class="wall wall-%s" data-room="%d" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>`+"\n",
			wall.Side, wall.OwnerSequenceIndex,
			px(wall.Start.X), pz(wall.Start.Z), px(wall.End.X), pz(wall.End.Z),
			escapeXML(wall.Color), r.wallWidth*r.scale)
	}
	buf.WriteString("  </g>\n")

	if r.labels {
		fontSize := max(10, r.scale*1.2)
		buf.WriteString(`  <g class="labels">` + "\n")
		for _, room := range res.Layout {
			fmt.Fprintf(&buf, `    <text class="room-label" x="%.2f" y="%.2f" font-size="%.1f">%s</text>`+"\n",
				px(room.Center.X), pz(room.Center.Z), fontSize, escapeXML(room.ID))
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// roomColors recovers each room's landmark color from its walls.
func roomColors(walls []walkthrough.Wall) map[int]string {
	colors := make(map[int]string)
	for _, w := range walls {
		if _, ok := colors[w.OwnerSequenceIndex]; !ok {
			colors[w.OwnerSequenceIndex] = w.Color
		}
	}
	return colors
}

func colorOf(colors map[int]string, idx int) string {
	if c, ok := colors[idx]; ok {
		return c
	}
	return "#cccccc"
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
