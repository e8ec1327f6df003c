package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/opptree/pkg/core/record"
	"github.com/matzehuels/opptree/pkg/core/tree"
	"github.com/matzehuels/opptree/pkg/errors"
)

// findCommand creates the find command, which locates a record by node key
// in the raw records and prints its context.
func (c *CLI) findCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find [records.json|records.toml] [node-key]",
		Short: "Locate a record by node key",
		Long: `Locate a record by node key.

The record is searched in the raw document, so overrides do not apply.
The parent record, owning opportunity and root goal are printed with it.
Group and overflow keys never match.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd.OutOrStdout(), args[0], args[1])
		},
	}
	return cmd
}

func runFind(w io.Writer, input, k string) error {
	doc, err := loadDocument(input, "")
	if err != nil {
		return err
	}
	m, ok := tree.Find(doc.Goals, k)
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", k)
	}

	printMatch(w, "record", m.Record)
	printMatch(w, "parent", m.Parent)
	if m.Owner != nil {
		printMatch(w, "owner", m.Owner)
	}
	printMatch(w, "root", m.Root)
	return nil
}

func printMatch(w io.Writer, label string, r record.Record) {
	if r == nil {
		fmt.Fprintf(w, "%-8s %s\n", label, StyleDim.Render("-"))
		return
	}
	title := r.Fields().Title
	if title == "" {
		title = tree.DefaultTitle(r.Kind())
	}
	fmt.Fprintf(w, "%-8s %s %s\n", label, StyleHighlight.Render(record.KeyOf(r)), StyleValue.Render(title))
}
