// Package floorplan renders a walkthrough as a top-down SVG plan.
//
// The floor plane maps x to the SVG x axis and z to the SVG y axis, so
// "down" in the layout is down on the page. Each room is a translucent
// rectangle tinted with its landmark color, walls are drawn as stroked
// segments, and doorways show up as the gaps the wall carver left.
//
//	res := walkthrough.Build(tree, "", walkthrough.DefaultConfig())
//	svg := floorplan.RenderSVG(res, floorplan.WithLabels(), floorplan.WithScale(12))
//
// PDF and PNG output go through rsvg-convert; see [RenderPDF] and
// [RenderPNG].
package floorplan
