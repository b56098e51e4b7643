package cli

import (
	"context"
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	coded "github.com/matzehuels/treescape/pkg/errors"
	"github.com/matzehuels/treescape/pkg/pipeline"
	"github.com/matzehuels/treescape/pkg/starfield"
	"github.com/matzehuels/treescape/pkg/store"
	"github.com/matzehuels/treescape/pkg/tree"
)

// growOpts holds the command-line flags for the grow command.
type growOpts struct {
	parent string
	id     string
	kind   string
	text   string
}

// growCommand creates the grow command, which adds one node to a stored
// tree and places it.
func (c *CLI) growCommand() *cobra.Command {
	var opts growOpts

	cmd := &cobra.Command{
		Use:   "grow <root>",
		Short: "Add a node to a stored tree",
		Long: `Add a node under --parent (default: the root) of the stored tree <root>.
The tree is created with an empty hub when it does not exist yet.

The new node gets the next free sibling index under its parent and is placed
immediately; positions of existing nodes never change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGrow(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.parent, "parent", "", "parent node (default: root)")
	cmd.Flags().StringVar(&opts.id, "id", "", "node id (default: random uuid)")
	cmd.Flags().StringVar(&opts.kind, "kind", "", "node kind: empty or 'aggregate'")
	cmd.Flags().StringVar(&opts.text, "text", "", "text carried by the node")

	return cmd
}

func (c *CLI) runGrow(ctx context.Context, root string, opts growOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.id == "" {
		opts.id = uuid.NewString()
	}
	if opts.parent == "" {
		opts.parent = root
	}
	for _, id := range []string{root, opts.parent, opts.id} {
		if err := coded.ValidateNodeID(id); err != nil {
			return err
		}
	}
	if err := coded.ValidateText(opts.text, cfg.Server.MaxTextSize); err != nil {
		return err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	runner.Options.Placement = cfg.Placement

	f, created, err := openOrCreate(ctx, st, runner, root)
	if err != nil {
		return err
	}
	n, err := f.Insert(tree.Insert{
		Parent:  opts.parent,
		ID:      opts.id,
		Kind:    tree.Kind(opts.kind),
		Text:    opts.text,
		Sibling: tree.AutoSibling,
	})
	if err != nil {
		return fmt.Errorf("grow %s: %w", root, err)
	}
	if err := st.Put(ctx, f.Snapshot()); err != nil {
		return err
	}

	if created {
		printInfo("Created tree %s in %s store", root, cfg.Store.Backend)
	}
	printSuccess("Added %s under %s", n.ID, n.Parent)
	printKeyValue("sibling", fmt.Sprint(n.Sibling))
	printKeyValue("order", fmt.Sprint(n.Order))
	printKeyValue("position", fmt.Sprintf("(%.3f, %.3f, %.3f)", n.Position.X, n.Position.Y, n.Position.Z))
	return nil
}

// openOrCreate opens the stored tree with the given root, creating a bare
// hub when it is missing.
func openOrCreate(ctx context.Context, st store.Store, runner *pipeline.Runner, root string) (*starfield.Field, bool, error) {
	snap, err := st.Get(ctx, root)
	if err == nil {
		f, err := runner.OpenField(snap)
		return f, false, err
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	f, err := starfield.New(root, v3.Vec{}, runner.Placer())
	if err != nil {
		return nil, false, err
	}
	if err := st.Create(ctx, f.Snapshot()); err != nil {
		return nil, false, err
	}
	return f, true, nil
}
