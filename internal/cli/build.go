package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/opptree/pkg/core/key"
	"github.com/matzehuels/opptree/pkg/core/tree"
	"github.com/matzehuels/opptree/pkg/errors"
	"github.com/matzehuels/opptree/pkg/graph"
)

// buildCommand creates the build command, which materializes a document
// into a forest and prints a summary or the forest as JSON.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		flags   viewFlags
		asJSON  bool
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "build [records.json|records.toml]",
		Short: "Build the opportunity forest of a record document",
		Long: `Build the opportunity forest of a record document.

Without flags a summary is printed: node counts per kind and any issues
found while building (unknown stages, malformed override keys, subtrees
cut at the depth limit). With --json the flattened forest is written to
stdout or to --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), cmd.OutOrStdout(), args[0], &flags, asJSON, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the forest as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file for --json (default stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, w io.Writer, input string, flags *viewFlags, asJSON bool, output string, noCache bool) error {
	doc, err := loadDocument(input, flags.overrides)
	if err != nil {
		return err
	}

	runner := c.newRunner(noCache)
	prog := newProgress(c.Logger)
	f, cached, err := runner.BuildWithCacheInfo(ctx, doc, c.options(flags))
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	prog.done("built forest", "nodes", f.Len(), "cached", cached)

	if asJSON {
		out, err := openOutput(output, w)
		if err != nil {
			return err
		}
		defer out.Close()
		return graph.WriteGraph(f, out)
	}

	printSuccess("Built forest from %s", input)
	printStats(f.Len(), 0, cached)
	fmt.Fprintln(w, statsTable(f.Stats()))
	printIssues(f.Issues)
	return nil
}

// statsTable renders per-kind node counts.
func statsTable(s tree.Stats) string {
	rows := make([][]string, 0, len(key.Kinds)+1)
	for _, k := range key.Kinds {
		if k == key.KindOverflow {
			continue
		}
		rows = append(rows, []string{string(k), strconv.Itoa(s.ByKind[k])})
	}
	rows = append(rows, []string{"max depth", strconv.Itoa(s.MaxDepth)})

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Kind", "Count").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 {
				return StyleNumber
			}
			return StyleValue
		}).
		Render()
}

// printIssues prints forest issues with a per-code tally.
func printIssues(issues []error) {
	if len(issues) == 0 {
		return
	}
	counts := errors.CountByCode(issues)
	tally := make([]string, 0, len(counts))
	for _, code := range slices.Sorted(maps.Keys(counts)) {
		tally = append(tally, fmt.Sprintf("%s×%d", code, counts[code]))
	}
	printWarning("%d issue(s): %s", len(issues), strings.Join(tally, ", "))
	for _, issue := range issues {
		printDetail("%s: %s", errors.GetCode(issue), errors.UserMessage(issue))
	}
}

// buildForest loads input and builds its forest. It is shared by
// commands that only need a forest.
func (c *CLI) buildForest(ctx context.Context, input string, flags *viewFlags) (*tree.Forest, error) {
	doc, err := loadDocument(input, flags.overrides)
	if err != nil {
		return nil, err
	}
	f, err := c.newRunner(false).Build(ctx, doc, c.options(flags))
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	return f, nil
}
