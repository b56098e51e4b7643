// Package nodelink renders trees as traditional node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations of a tree snapshot
// using Graphviz: entries appear as boxes and every reply points down from
// its parent. It is a flat 2D companion to the starfield and walkthrough
// views, handy for checking the shape of a tree at a glance.
//
// # Usage
//
// Convert a snapshot to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(snapshot, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # Options
//
//   - Detailed: labels include creation order, kind and a truncated text
//   - MaxText: truncation limit for detailed labels
//   - Start: restrict the diagram to one subtree
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded
// box nodes. Aggregate nodes are dashed and grey.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
