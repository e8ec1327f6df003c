package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/opptree/pkg/core/path"
	"github.com/matzehuels/opptree/pkg/errors"
)

// pathCommand creates the path command, which prints the active path of a
// focus node: its ancestors and all of its descendants.
func (c *CLI) pathCommand() *cobra.Command {
	var (
		flags viewFlags
		edges bool
	)

	cmd := &cobra.Command{
		Use:   "path [records.json|records.toml] [node-key]",
		Short: "Print the active path of a node",
		Long: `Print the active path of a node.

The path holds the node, every ancestor up to its goal, and every
descendant. Keys are printed one per line in sorted order. The focus may
be given as the second argument or with --focus.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				flags.focus = args[1]
			}
			return c.runPath(cmd.Context(), cmd.OutOrStdout(), args[0], &flags, edges)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&edges, "edges", false, "print edge ids instead of node keys")

	return cmd
}

func (c *CLI) runPath(ctx context.Context, w io.Writer, input string, flags *viewFlags, edges bool) error {
	f, err := c.buildForest(ctx, input, flags)
	if err != nil {
		return err
	}
	focus := c.options(flags).Focus
	if focus == "" {
		return errors.New(errors.ErrCodeInvalidInput, "no focus node given")
	}

	p := path.Compute(f.NodesByKey, focus)
	if p.Empty() {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", focus)
	}

	lines := p.SortedNodes()
	if edges {
		lines = p.SortedEdges()
	}
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	return nil
}
