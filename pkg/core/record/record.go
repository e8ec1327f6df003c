// Package record defines the raw records the tree engine consumes and the
// override patches layered over them.
//
// Records arrive already nested from the persistence layer: a [Goal] owns
// opportunities, an [Opportunity] owns sub-opportunities and solutions, a
// [Solution] owns sub-solutions and experiments. Nesting is a rooted tree;
// there are no back-references. Missing child arrays are nil and mean
// "no children".
//
// Records are read-only inputs. Nothing in the engine mutates them.
package record

import (
	"maps"
	"slices"

	"github.com/matzehuels/opptree/pkg/core/key"
)

// Base holds the fields shared by every record.
type Base struct {
	ID          string `json:"id" toml:"id"`
	Title       string `json:"title,omitempty" toml:"title,omitempty"`
	Description string `json:"description,omitempty" toml:"description,omitempty"`
	Status      string `json:"status,omitempty" toml:"status,omitempty"`
	Owner       string `json:"owner,omitempty" toml:"owner,omitempty"`

	// Order is the explicit sibling order.
	Order *float64 `json:"order,omitempty" toml:"order,omitempty"`
	// Position is the secondary index, used when Order is absent.
	Position *int `json:"position,omitempty" toml:"position,omitempty"`
}

// Record is implemented by the four record types.
type Record interface {
	Kind() key.Kind
	Fields() Base
}

// Goal is a root record.
type Goal struct {
	Base
	Opportunities []*Opportunity `json:"opportunities,omitempty" toml:"opportunities,omitempty"`
}

// Opportunity may nest sub-opportunities and solutions.
type Opportunity struct {
	Base
	// Stage is a stage id from the fixed enumeration, or empty.
	Stage         string         `json:"stage,omitempty" toml:"stage,omitempty"`
	Opportunities []*Opportunity `json:"opportunities,omitempty" toml:"opportunities,omitempty"`
	Solutions     []*Solution    `json:"solutions,omitempty" toml:"solutions,omitempty"`
}

// Solution may nest sub-solutions and experiments.
type Solution struct {
	Base
	Solutions   []*Solution   `json:"solutions,omitempty" toml:"solutions,omitempty"`
	Experiments []*Experiment `json:"experiments,omitempty" toml:"experiments,omitempty"`
}

// Experiment is a leaf.
type Experiment struct {
	Base
	Hypothesis string `json:"hypothesis,omitempty" toml:"hypothesis,omitempty"`
	Result     string `json:"result,omitempty" toml:"result,omitempty"`
}

func (*Goal) Kind() key.Kind        { return key.KindGoal }
func (*Opportunity) Kind() key.Kind { return key.KindOpportunity }
func (*Solution) Kind() key.Kind    { return key.KindSolution }
func (*Experiment) Kind() key.Kind  { return key.KindExperiment }

func (g *Goal) Fields() Base        { return g.Base }
func (o *Opportunity) Fields() Base { return o.Base }
func (s *Solution) Fields() Base    { return s.Base }
func (e *Experiment) Fields() Base  { return e.Base }

// KeyOf returns the node key of r.
func KeyOf(r Record) string { return key.Encode(r.Kind(), r.Fields().ID) }

// Count returns the number of records in goals, the goals included.
// Nil entries are not counted.
func Count(goals []*Goal) int {
	n := 0
	for _, g := range goals {
		if g == nil {
			continue
		}
		n++
		for _, o := range g.Opportunities {
			n += countOpportunity(o)
		}
	}
	return n
}

func countOpportunity(o *Opportunity) int {
	if o == nil {
		return 0
	}
	n := 1
	for _, sub := range o.Opportunities {
		n += countOpportunity(sub)
	}
	for _, s := range o.Solutions {
		n += countSolution(s)
	}
	return n
}

func countSolution(s *Solution) int {
	if s == nil {
		return 0
	}
	n := 1
	for _, sub := range s.Solutions {
		n += countSolution(sub)
	}
	for _, e := range s.Experiments {
		if e != nil {
			n++
		}
	}
	return n
}

// Patch is a partial field set representing an unsaved local edit.
// A nil field leaves the record value in place.
type Patch struct {
	Title       *string  `json:"title,omitempty" toml:"title,omitempty"`
	Description *string  `json:"description,omitempty" toml:"description,omitempty"`
	Status      *string  `json:"status,omitempty" toml:"status,omitempty"`
	Owner       *string  `json:"owner,omitempty" toml:"owner,omitempty"`
	Order       *float64 `json:"order,omitempty" toml:"order,omitempty"`
	Stage       *string  `json:"stage,omitempty" toml:"stage,omitempty"`
	Hypothesis  *string  `json:"hypothesis,omitempty" toml:"hypothesis,omitempty"`
	Result      *string  `json:"result,omitempty" toml:"result,omitempty"`
}

// Empty reports whether p patches nothing.
func (p Patch) Empty() bool { return p == Patch{} }

// Overrides maps node keys to patches. The caller owns it and replaces it on
// every edit; the engine only reads it.
type Overrides map[string]Patch

// Lookup returns the patch for k. A nil map has no patches.
func (o Overrides) Lookup(k string) (Patch, bool) {
	p, ok := o[k]
	return p, ok
}

// Keys returns the patched keys in sorted order.
func (o Overrides) Keys() []string {
	return slices.Sorted(maps.Keys(o))
}

// With returns a copy of o with k patched by p, merging onto any existing
// patch for k. o itself is left untouched.
func (o Overrides) With(k string, p Patch) Overrides {
	out := maps.Clone(o)
	if out == nil {
		out = make(Overrides, 1)
	}
	out[k] = merge(out[k], p)
	return out
}

// Without returns a copy of o with k removed, as done once a save is
// confirmed.
func (o Overrides) Without(k string) Overrides {
	out := maps.Clone(o)
	delete(out, k)
	return out
}

func merge(base, p Patch) Patch {
	if p.Title != nil {
		base.Title = p.Title
	}
	if p.Description != nil {
		base.Description = p.Description
	}
	if p.Status != nil {
		base.Status = p.Status
	}
	if p.Owner != nil {
		base.Owner = p.Owner
	}
	if p.Order != nil {
		base.Order = p.Order
	}
	if p.Stage != nil {
		base.Stage = p.Stage
	}
	if p.Hypothesis != nil {
		base.Hypothesis = p.Hypothesis
	}
	if p.Result != nil {
		base.Result = p.Result
	}
	return base
}

// String returns a pointer to s, for building patches and fixtures.
func String(s string) *string { return &s }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// Int returns a pointer to i.
func Int(i int) *int { return &i }
