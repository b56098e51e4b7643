package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treescape/pkg/scene"
)

// placeOpts holds the command-line flags for the place command.
type placeOpts struct {
	output  string // placements file, stdout when empty
	tree    string // write the fully placed tree document here
	refresh bool
}

// placeCommand creates the place command, which computes starfield
// positions for every node of a tree document.
func (c *CLI) placeCommand() *cobra.Command {
	var opts placeOpts

	cmd := &cobra.Command{
		Use:   "place <tree.json>",
		Short: "Compute starfield positions for a tree",
		Long: `Compute a 3D position for every node of a tree.

Stored positions are kept; nodes without one are placed around their parent
(hub ring for root children, aggregation ring or helix deeper down).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlace(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file for placements (default stdout)")
	cmd.Flags().StringVar(&opts.tree, "tree", "", "also write the placed tree document to this file")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runPlace(ctx context.Context, input string, opts placeOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	snap, err := c.loadTree(ctx, cfg, input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()
	runner.Options.Refresh = opts.refresh

	p, cached, err := runner.PlaceWithCacheInfo(ctx, snap)
	if err != nil {
		return err
	}
	prog.done("placed", "nodes", len(p.Positions), "cached", cached)

	if opts.tree != "" {
		f, err := runner.OpenField(snap)
		if err != nil {
			return err
		}
		if err := scene.WriteTreeFile(f.Snapshot(), opts.tree); err != nil {
			return err
		}
	}

	if opts.output == "" {
		return scene.WritePlacements(p, stdout)
	}
	out, err := os.Create(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := scene.WritePlacements(p, out); err != nil {
		return err
	}

	printSuccess("Placed %s", input)
	printStats(cached, fmt.Sprintf("%d nodes", len(p.Positions)))
	printFile(opts.output)
	if opts.tree != "" {
		printFile(opts.tree)
	}
	return nil
}
