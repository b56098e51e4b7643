package floorplan

import (
	"context"

	"github.com/matzehuels/treescape/pkg/render"
	"github.com/matzehuels/treescape/pkg/walkthrough"
)

// RenderPDF renders the plan as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, res walkthrough.Result, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(res, opts...))
}

// RenderPNG renders the plan as PNG via SVG conversion at the given scale.
func RenderPNG(ctx context.Context, res walkthrough.Result, scale float64, opts ...SVGOption) ([]byte, error) {
	return render.ToPNG(ctx, RenderSVG(res, opts...), scale)
}
