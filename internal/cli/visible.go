package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/opptree/pkg/graph"
)

// visibleCommand creates the visible command, which writes the reduced
// and laid out view of a document as JSON.
func (c *CLI) visibleCommand() *cobra.Command {
	var (
		flags   viewFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "visible [records.json|records.toml]",
		Short: "Write the visible graph with layout positions as JSON",
		Long: `Write the visible graph with layout positions as JSON.

Collapsed nodes hide their subtrees, and parents with more children than
--cap show an overflow node ("+N more") in place of the rest. Nodes on
the active path of --focus are marked active.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVisible(cmd.Context(), cmd.OutOrStdout(), args[0], &flags, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runVisible(ctx context.Context, w io.Writer, input string, flags *viewFlags, output string, noCache bool) error {
	doc, err := loadDocument(input, flags.overrides)
	if err != nil {
		return err
	}

	result, err := c.newRunner(noCache).View(ctx, doc, c.options(flags))
	if err != nil {
		return fmt.Errorf("view: %w", err)
	}

	out, err := openOutput(output, w)
	if err != nil {
		return err
	}
	defer out.Close()
	return graph.WriteView(result.View, out)
}
