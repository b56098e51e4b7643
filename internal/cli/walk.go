package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treescape/pkg/pipeline"
)

// walkOpts holds the command-line flags for the walk command.
type walkOpts struct {
	start   string
	formats []string
	output  string
	smooth  bool
	floor   bool
	height  float64
	refresh bool
}

// walkCommand creates the walk command, which lays out a subtree as rooms
// and exports the result.
func (c *CLI) walkCommand() *cobra.Command {
	var formatsStr string
	opts := walkOpts{height: pipeline.DefaultOptions().Mesh.Height}

	cmd := &cobra.Command{
		Use:   "walk <tree.json>",
		Short: "Lay out a subtree as a walkthrough of rooms",
		Long: `Sequence the subtree at --start (default: the root) in pre-order, give each
node a room and carve the walls between them.

Formats: json (room centers and wall segments), svg/png/pdf (floor plan),
obj (wall geometry), dot (the sequenced subtree).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runWalk(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.start, "start", "", "node to start the walkthrough at (default: root)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, obj, png, pdf, dot (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&opts.smooth, "smooth", false, "tessellate walls through an SDF instead of exact boxes (obj)")
	cmd.Flags().BoolVar(&opts.floor, "floor", false, "include floor slabs (obj)")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "wall height (obj)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runWalk(ctx context.Context, input string, opts walkOpts) error {
	prog := newProgress(loggerFromContext(ctx))

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
	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()
	runner.Options.Refresh = opts.refresh
	runner.Options.Mesh.Smooth = opts.smooth
	runner.Options.Mesh.Floor = opts.floor
	runner.Options.Mesh.Height = opts.height

	spinner := newSpinnerWithContext(ctx, "Building walkthrough...")
	spinner.Start()

	wt, _, err := runner.WalkWithCacheInfo(ctx, snap, opts.start)
	if err != nil {
		spinner.StopWithError("Walkthrough failed")
		return err
	}
	spinner.Update("Exporting " + strings.Join(opts.formats, ", ") + "...")
	artifacts, cached, err := runner.RenderWithCacheInfo(ctx, snap, opts.start, opts.formats)
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()
	if spinner.Cancelled() {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifacts, opts.formats, opts.output, input)
	if err != nil {
		return err
	}
	prog.done("walked", "rooms", len(wt.Rooms), "seed", wt.Seed, "typical_room_size", wt.TypicalRoomSize, "cached", cached)

	printSuccess("Walkthrough of %s", input)
	printStats(cached, fmt.Sprintf("%d rooms", len(wt.Rooms)), fmt.Sprintf("%d walls", len(wt.Walls)))
	for _, p := range paths {
		printFile(p)
	}
	if len(wt.Rooms) > 0 {
		printNextStep("Walk it interactively", fmt.Sprintf("%s tour %s", appName, input))
	}
	return nil
}
