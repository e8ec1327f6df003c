package cli

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/opptree/pkg/core/record"
	"github.com/matzehuels/opptree/pkg/core/tree"
	"github.com/matzehuels/opptree/pkg/errors"
	docio "github.com/matzehuels/opptree/pkg/io"
)

// sampleCommand creates the sample command, which writes a generated
// record document to start from.
func (c *CLI) sampleCommand() *cobra.Command {
	var (
		goals  int
		width  int
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a sample record document",
		Long: `Generate a sample record document with random ids.

Each goal gets width opportunities cycling through the configured stages.
Every opportunity holds width solutions and every solution holds width
experiments, so wide samples exercise the child cap.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if goals < 1 || width < 1 {
				return errors.New(errors.ErrCodeInvalidInput, "goals and width must be at least 1")
			}
			doc := sampleDocument(goals, width, c.Config.StageList())
			if output != "" {
				if err := docio.WriteFile(output, doc); err != nil {
					return err
				}
				printSuccess("Wrote %d records", record.Count(doc.Goals))
				printFile(output)
				return nil
			}
			return writeSample(cmd.OutOrStdout(), doc, format)
		},
	}

	cmd.Flags().IntVar(&goals, "goals", 1, "number of goals")
	cmd.Flags().IntVar(&width, "width", 3, "children per record")
	cmd.Flags().StringVarP(&format, "format", "f", string(docio.FormatJSON), "output format when writing to stdout: json, toml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (format from extension)")

	return cmd
}

func writeSample(w io.Writer, doc *docio.Document, format string) error {
	switch f := docio.Format(format); f {
	case docio.FormatJSON, docio.FormatTOML:
		return docio.Write(w, doc, f)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (use json or toml)", format)
	}
}

// sampleDocument generates goals with uuid ids. Stages defaults to
// tree.DefaultStages when nil.
func sampleDocument(goals, width int, stages tree.Stages) *docio.Document {
	if len(stages) == 0 {
		stages = tree.DefaultStages
	}
	doc := &docio.Document{}
	for gi := range goals {
		g := &record.Goal{Base: sampleBase("Goal", gi)}
		for oi := range width {
			o := &record.Opportunity{
				Base:  sampleBase("Opportunity", oi),
				Stage: stages[oi%len(stages)].ID,
			}
			for si := range width {
				s := &record.Solution{Base: sampleBase("Solution", si)}
				for ei := range width {
					e := &record.Experiment{
						Base:       sampleBase("Experiment", ei),
						Hypothesis: fmt.Sprintf("Variant %d moves the metric", ei+1),
					}
					s.Experiments = append(s.Experiments, e)
				}
				o.Solutions = append(o.Solutions, s)
			}
			g.Opportunities = append(g.Opportunities, o)
		}
		doc.Goals = append(doc.Goals, g)
	}
	return doc
}

func sampleBase(kind string, i int) record.Base {
	pos := i
	return record.Base{
		ID:       uuid.NewString(),
		Title:    fmt.Sprintf("%s %d", kind, i+1),
		Position: &pos,
	}
}
