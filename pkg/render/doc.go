// Package render holds the exporters for trees and walkthroughs.
//
// # Overview
//
// Rendering is a consumer of engine output and never feeds back into
// placement or layout. Three exporters live in subpackages:
//
//   - [floorplan]: top-down SVG of a walkthrough (rooms, walls, doorways)
//   - [nodelink]: Graphviz node-link diagram of a tree
//   - [mesh]: solid wall geometry of a walkthrough as a triangle mesh (OBJ)
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG produced here to other formats using
// the external rsvg-convert tool (from librsvg). [Available] reports
// whether the tool is installed.
//
//	svg := floorplan.RenderSVG(result, floorplan.WithLabels())
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// [floorplan]: github.com/matzehuels/treescape/pkg/render/floorplan
// [nodelink]: github.com/matzehuels/treescape/pkg/render/nodelink
// [mesh]: github.com/matzehuels/treescape/pkg/render/mesh
package render
