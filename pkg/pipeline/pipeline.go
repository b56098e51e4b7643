// Package pipeline runs the geometry engine behind a result cache.
//
// Both the CLI and the HTTP API go through a [Runner] so caching, hooks and
// logging behave the same everywhere.
//
// # Stages
//
// The engine has two independent views of one tree:
//
//  1. Place: starfield positions for every node ([Runner.Place])
//  2. Walk: the room sequence, layout and walls of a subtree ([Runner.Walk])
//
// Exports of a walkthrough (JSON document, floor plan SVG/PNG/PDF, OBJ
// mesh, Graphviz DOT) are produced by [Runner.Render].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	placements, err := runner.Place(ctx, snapshot)
//	wt, err := runner.Walk(ctx, snapshot, "")
//	artifacts, err := runner.Render(ctx, snapshot, "", []string{"svg", "obj"})
//
// Every result is a pure function of the snapshot and [Options], which is
// what the cache keys are built from.
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/treescape/pkg/placement"
	"github.com/matzehuels/treescape/pkg/render/mesh"
	"github.com/matzehuels/treescape/pkg/walkthrough"
)

// =============================================================================
// Formats
// =============================================================================

// Format constants for exports.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatOBJ  = "obj"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatOBJ:  true,
	FormatDOT:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, svg, png, pdf, obj, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options holds the engine constants a runner applies. They are part of
// every cache key.
type Options struct {
	Placement   placement.Profiles `json:"placement"`
	Walkthrough walkthrough.Config `json:"walkthrough"`
	Mesh        MeshOptions        `json:"mesh"`

	// TTL overrides the per-kind cache TTLs when positive.
	TTL time.Duration `json:"-"`
	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"-"`
}

// MeshOptions controls OBJ export.
type MeshOptions struct {
	Height    float64 `json:"height"`
	Thickness float64 `json:"thickness"`
	Floor     bool    `json:"floor"`
	// Smooth tessellates an sdfx solid instead of emitting exact boxes.
	Smooth bool `json:"smooth"`
	Cells  int  `json:"cells"`
}

func (m MeshOptions) options() mesh.Options {
	return mesh.Options{Height: m.Height, Thickness: m.Thickness, Cells: m.Cells, Floor: m.Floor}
}

// DefaultOptions returns the stock engine constants.
func DefaultOptions() Options {
	return Options{
		Placement:   placement.DefaultProfiles(),
		Walkthrough: walkthrough.DefaultConfig(),
		Mesh: MeshOptions{
			Height:    mesh.DefaultHeight,
			Thickness: mesh.DefaultThickness,
			Cells:     mesh.DefaultCells,
		},
	}
}

func (o Options) ttl(fallback time.Duration) time.Duration {
	if o.TTL > 0 {
		return o.TTL
	}
	return fallback
}
