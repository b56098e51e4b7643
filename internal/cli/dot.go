package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treescape/pkg/pipeline"
	"github.com/matzehuels/treescape/pkg/render/nodelink"
)

// dotFormats are the formats the dot command can write.
var dotFormats = map[string]bool{
	pipeline.FormatDOT: true,
	pipeline.FormatSVG: true,
	pipeline.FormatPNG: true,
	pipeline.FormatPDF: true,
}

// dotOpts holds the command-line flags for the dot command.
type dotOpts struct {
	output   string
	format   string
	start    string
	detailed bool
}

// dotCommand creates the dot command, which draws the tree itself as a
// node-link diagram.
func (c *CLI) dotCommand() *cobra.Command {
	opts := dotOpts{format: pipeline.FormatDOT}

	cmd := &cobra.Command{
		Use:   "dot <tree.json>",
		Short: "Draw the tree as a node-link diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !dotFormats[opts.format] {
				return fmt.Errorf("invalid format: %s (must be 'dot', 'svg', 'png' or 'pdf')", opts.format)
			}
			return c.runDot(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout for dot)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot (default), svg, png, pdf")
	cmd.Flags().StringVar(&opts.start, "start", "", "draw only the subtree at this node")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show order, kind and text in node labels")

	return cmd
}

func (c *CLI) runDot(ctx context.Context, input string, opts dotOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	snap, err := c.loadTree(ctx, cfg, input)
	if err != nil {
		return err
	}
	if opts.start != "" && !snap.Has(opts.start) {
		return fmt.Errorf("unknown start node %q", opts.start)
	}

	dot := nodelink.ToDOT(snap, nodelink.Options{Detailed: opts.detailed, Start: opts.start})

	var data []byte
	switch opts.format {
	case pipeline.FormatDOT:
		data = []byte(dot)
	case pipeline.FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case pipeline.FormatPNG:
		data, err = nodelink.RenderPNG(ctx, dot, 2)
	case pipeline.FormatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	}
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		if opts.format == pipeline.FormatDOT {
			_, err := stdout.Write(data)
			return err
		}
		output = basePath("", input) + "." + opts.format
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}
	printSuccess("Drew %d nodes", snap.Len())
	printFile(output)
	return nil
}
