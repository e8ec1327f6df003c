package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	ltree "github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/opptree/pkg/core/key"
	"github.com/matzehuels/opptree/pkg/core/path"
	"github.com/matzehuels/opptree/pkg/core/tree"
	"github.com/matzehuels/opptree/pkg/core/visible"
)

var kindStyles = map[key.Kind]lipgloss.Style{
	key.KindGoal:        lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
	key.KindGroup:       lipgloss.NewStyle().Italic(true).Foreground(colorGray),
	key.KindOpportunity: lipgloss.NewStyle().Foreground(colorYellow),
	key.KindSolution:    lipgloss.NewStyle().Foreground(colorGreen),
	key.KindExperiment:  lipgloss.NewStyle().Foreground(colorBlue),
	key.KindOverflow:    lipgloss.NewStyle().Foreground(colorDim),
}

var styleActive = lipgloss.NewStyle().Bold(true).Foreground(colorRed)

// treeCommand creates the tree command, which prints the visible forest as
// an indented terminal tree.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		flags    viewFlags
		showKeys bool
	)

	cmd := &cobra.Command{
		Use:   "tree [records.json|records.toml]",
		Short: "Print the visible forest as a terminal tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), cmd.OutOrStdout(), args[0], &flags, showKeys)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&showKeys, "keys", false, "show node keys next to titles")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, w io.Writer, input string, flags *viewFlags, showKeys bool) error {
	f, err := c.buildForest(ctx, input, flags)
	if err != nil {
		return err
	}
	opts := c.options(flags)
	if err := opts.ValidateForView(); err != nil {
		return err
	}
	g := visible.Reduce(f.Roots, opts.VisibleOptions())
	p := path.Compute(f.NodesByKey, opts.Focus)

	fmt.Fprintln(w, renderTree(g, p, showKeys))
	return nil
}

// renderTree draws the visible graph as a lipgloss tree, one root per goal.
func renderTree(g *visible.Graph, p path.Path, showKeys bool) string {
	children := make(map[string][]*tree.Node, len(g.Nodes))
	var roots []*tree.Node
	for _, n := range g.Nodes {
		if n.ParentKey == "" {
			roots = append(roots, n)
			continue
		}
		children[n.ParentKey] = append(children[n.ParentKey], n)
	}

	var build func(n *tree.Node) *ltree.Tree
	build = func(n *tree.Node) *ltree.Tree {
		t := ltree.Root(nodeLine(n, p, showKeys))
		for _, child := range children[n.Key] {
			if len(children[child.Key]) == 0 {
				t.Child(nodeLine(child, p, showKeys))
				continue
			}
			t.Child(build(child))
		}
		return t
	}

	out := ltree.New().Enumerator(ltree.RoundedEnumerator).EnumeratorStyle(StyleDim)
	for _, r := range roots {
		out.Child(build(r))
	}
	return out.String()
}

// nodeLine formats one tree row.
func nodeLine(n *tree.Node, p path.Path, showKeys bool) string {
	label := n.Title
	switch n.Kind {
	case key.KindGroup:
		label = fmt.Sprintf("%s (%d)", n.Title, n.Count)
	case key.KindOpportunity, key.KindSolution, key.KindExperiment:
		if n.Status != "" && n.Status != tree.DefaultStatus {
			label += " " + StyleDim.Render("["+n.Status+"]")
		}
	}

	style := kindStyles[n.Kind]
	if p.HasNode(n.Key) {
		style = styleActive
	}
	line := style.Render(label)
	if showKeys {
		line += " " + StyleDim.Render(n.Key)
	}
	return line
}
