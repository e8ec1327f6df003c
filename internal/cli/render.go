package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/opptree/pkg/pipeline"
)

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      viewFlags
		formatsStr string
		output     string
		detailed   bool
		rankDir    string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "render [records.json|records.toml]",
		Short: "Render the visible graph as DOT, SVG, PNG, PDF or JSON",
		Long: `Render the visible graph as DOT, SVG, PNG, PDF or JSON.

Diagrams are drawn with Graphviz. Stage groups are drawn as plain labels,
overflow nodes as dashed boxes, and the active path of --focus in bold.
PNG and PDF output additionally needs rsvg-convert on PATH.

Output files are named after the input unless --output is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(&flags)
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if cmd.Flags().Changed("detailed") {
				opts.Detailed = detailed
			}
			if rankDir != "" {
				opts.RankDir = rankDir
			}
			return c.runRender(cmd.Context(), args[0], flags.overrides, opts, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, pdf, json (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add status, owner and stage to node labels")
	cmd.Flags().StringVar(&rankDir, "rankdir", "", "graph direction: TB (default), LR, BT, RL")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, overrides string, opts pipeline.Options, output string, noCache bool) error {
	doc, err := loadDocument(input, overrides)
	if err != nil {
		return err
	}

	runner := c.newRunner(noCache)

	sp := startSpinner(ctx, os.Stderr, "Rendering...")
	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		sp.fail("Render failed")
		return err
	}
	sp.stop()

	written, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}

	printSuccess("Rendered %d visible nodes", result.Stats.VisibleCount)
	printStats(result.Stats.NodeCount, result.Stats.HiddenCount, result.CacheInfo.RenderHit)
	for _, p := range written {
		printFile(p)
	}
	printIssues(result.Forest.Issues)
	if len(written) == 0 {
		return fmt.Errorf("no artifacts written")
	}
	return nil
}
