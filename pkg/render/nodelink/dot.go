package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treescape/pkg/render"
	"github.com/matzehuels/treescape/pkg/tree"
)

// DefaultMaxText is the label length used when Options.MaxText is zero.
const DefaultMaxText = 40

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds creation order, kind and the entry text to labels.
	// When false, only the node ID is shown.
	Detailed bool
	// MaxText truncates entry text in detailed labels.
	MaxText int
	// Start limits the diagram to the subtree under this node. Empty means the root.
	Start string
}

// ToDOT converts a tree snapshot to Graphviz DOT format. Nodes are emitted
// in pre-order and edges point from parent to child in creation order.
// Entries not reachable from the start node are left out.
//
// Aggregate nodes are rendered with dashed outlines and grey fill.
func ToDOT(s tree.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	start := opts.Start
	if start == "" {
		start = s.RootID
	}
	ids := tree.PreOrder(s, start)

	for _, id := range ids {
		e := s.Entries[id]
		label := fmtLabel(id, e, opts)
		attrs := fmtAttrs(e, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, id := range ids {
		for _, c := range s.Entries[id].Children {
			if _, ok := s.Entries[c]; ok {
				fmt.Fprintf(&buf, "  %q -> %q;\n", id, c)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(id string, e tree.Entry, opts Options) string {
	if !opts.Detailed {
		return id
	}

	parts := []string{fmt.Sprintf("order: %d", e.Order)}
	if e.Kind != tree.KindRegular {
		parts = append(parts, fmt.Sprintf("kind: %s", e.Kind))
	}
	if e.Text != "" {
		parts = append(parts, truncate(e.Text, opts.MaxText))
	}
	return id + "\n" + strings.Join(parts, "\n")
}

func truncate(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultMaxText
	}
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:max(limit-2, 1)]) + ".."
}

func fmtAttrs(e tree.Entry, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if e.Kind == tree.KindAggregate {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one
// whose origin is zero and whose pixel size matches the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion at the given scale.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
