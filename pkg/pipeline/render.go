package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/treescape/pkg/render/floorplan"
	"github.com/matzehuels/treescape/pkg/render/mesh"
	"github.com/matzehuels/treescape/pkg/render/nodelink"
	"github.com/matzehuels/treescape/pkg/scene"
	"github.com/matzehuels/treescape/pkg/tree"
	"github.com/matzehuels/treescape/pkg/walkthrough"
)

// pngScale is the resolution multiplier of PNG floor plans.
const pngScale = 2.0

// renderAll produces every requested export of one walkthrough.
func renderAll(ctx context.Context, s tree.Snapshot, start string, res walkthrough.Result, formats []string, m MeshOptions) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		if _, done := artifacts[format]; done {
			continue
		}
		data, err := renderOne(ctx, s, start, res, format, m)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderOne(ctx context.Context, s tree.Snapshot, start string, res walkthrough.Result, format string, m MeshOptions) ([]byte, error) {
	planOpts := []floorplan.SVGOption{floorplan.WithLabels(), floorplan.WithPath()}

	switch format {
	case FormatJSON:
		return marshalIndented(scene.WalkthroughOf(res))
	case FormatSVG:
		return floorplan.RenderSVG(res, planOpts...), nil
	case FormatPNG:
		return floorplan.RenderPNG(ctx, res, pngScale, planOpts...)
	case FormatPDF:
		return floorplan.RenderPDF(ctx, res, planOpts...)
	case FormatOBJ:
		return renderOBJ(res, start, m)
	case FormatDOT:
		return []byte(nodelink.ToDOT(s, nodelink.Options{Detailed: true, Start: start})), nil
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

func renderOBJ(res walkthrough.Result, name string, m MeshOptions) ([]byte, error) {
	var (
		out mesh.Mesh
		err error
	)
	if m.Smooth && !res.IsEmpty() {
		out, err = mesh.Build(res, m.options())
		if err != nil {
			return nil, err
		}
	} else {
		out = mesh.Boxes(res, m.options())
	}

	var buf bytes.Buffer
	if err := mesh.WriteOBJ(&buf, name, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
