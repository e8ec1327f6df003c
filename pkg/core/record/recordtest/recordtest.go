// Package recordtest builds record fixtures for tests.
package recordtest

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/opptree/pkg/core/record"
)

// Goal returns a goal owning opps.
func Goal(id string, opps ...*record.Opportunity) *record.Goal {
	return &record.Goal{Base: record.Base{ID: id, Title: "Goal " + id}, Opportunities: opps}
}

// Opp returns an opportunity. children may be *record.Opportunity or
// *record.Solution.
func Opp(id string, children ...any) *record.Opportunity {
	o := &record.Opportunity{Base: record.Base{ID: id, Title: "Opportunity " + id}}
	for _, c := range children {
		switch c := c.(type) {
		case *record.Opportunity:
			o.Opportunities = append(o.Opportunities, c)
		case *record.Solution:
			o.Solutions = append(o.Solutions, c)
		default:
			panic(fmt.Sprintf("recordtest: opportunity cannot contain %T", c))
		}
	}
	return o
}

// Staged sets the stage of o and returns it.
func Staged(stage string, o *record.Opportunity) *record.Opportunity {
	o.Stage = stage
	return o
}

// Sol returns a solution. children may be *record.Solution or
// *record.Experiment.
func Sol(id string, children ...any) *record.Solution {
	s := &record.Solution{Base: record.Base{ID: id, Title: "Solution " + id}}
	for _, c := range children {
		switch c := c.(type) {
		case *record.Solution:
			s.Solutions = append(s.Solutions, c)
		case *record.Experiment:
			s.Experiments = append(s.Experiments, c)
		default:
			panic(fmt.Sprintf("recordtest: solution cannot contain %T", c))
		}
	}
	return s
}

// Exp returns an experiment.
func Exp(id string) *record.Experiment {
	return &record.Experiment{Base: record.Base{ID: id, Title: "Experiment " + id}}
}

// Sols returns n sub-solutions with ids prefix-0 .. prefix-(n-1), as
// children for Sol.
func Sols(prefix string, n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = Sol(fmt.Sprintf("%s-%d", prefix, i))
	}
	return out
}

// Random returns a goal with uuid ids: width opportunities, each with one
// sub-opportunity and width solutions, each solution with one sub-solution
// and width experiments.
func Random(width int) *record.Goal {
	g := Goal(uuid.NewString())
	for range width {
		o := Opp(uuid.NewString(), Opp(uuid.NewString()))
		for range width {
			s := Sol(uuid.NewString(), Sol(uuid.NewString()))
			for range width {
				s.Experiments = append(s.Experiments, Exp(uuid.NewString()))
			}
			o.Solutions = append(o.Solutions, s)
		}
		g.Opportunities = append(g.Opportunities, o)
	}
	return g
}
