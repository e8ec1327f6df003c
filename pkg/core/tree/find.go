package tree

import (
	"github.com/matzehuels/opptree/pkg/core/key"
	"github.com/matzehuels/opptree/pkg/core/record"
)

// Match is the result of Find.
type Match struct {
	Ref key.Ref
	// Record is the matched record.
	Record record.Record
	// Parent is the record directly above Record. Nil for a goal.
	Parent record.Record
	// Owner is the top-level opportunity Record belongs to: itself for a
	// top-level opportunity, nil for a goal.
	Owner *record.Opportunity
	// Root is the goal the match lives under.
	Root *record.Goal
}

// Find locates the record with key k in the raw goals. It reports false
// for malformed keys, synthetic kinds and misses.
func Find(goals []*record.Goal, k string) (Match, bool) {
	ref, ok := key.Decode(k)
	if !ok {
		return Match{}, false
	}
	switch ref.Kind {
	case key.KindGoal, key.KindOpportunity, key.KindSolution, key.KindExperiment:
	default:
		return Match{}, false
	}

	f := finder{ref: ref, maxDepth: DefaultMaxDepth}
	for _, g := range goals {
		if g == nil {
			continue
		}
		if ref.Kind == key.KindGoal {
			if g.ID == ref.ID {
				return Match{Ref: ref, Record: g, Root: g}, true
			}
			continue
		}
		for _, o := range g.Opportunities {
			if m, ok := f.opportunity(o, g, o, g, 1); ok {
				return m, true
			}
		}
	}
	return Match{}, false
}

type finder struct {
	ref      key.Ref
	maxDepth int
}

func (f finder) opportunity(o *record.Opportunity, parent record.Record, owner *record.Opportunity, root *record.Goal, depth int) (Match, bool) {
	if o == nil || depth > f.maxDepth {
		return Match{}, false
	}
	if f.ref.Kind == key.KindOpportunity && o.ID == f.ref.ID {
		return Match{Ref: f.ref, Record: o, Parent: parent, Owner: owner, Root: root}, true
	}
	for _, sub := range o.Opportunities {
		if m, ok := f.opportunity(sub, o, owner, root, depth+1); ok {
			return m, true
		}
	}
	if f.ref.Kind == key.KindOpportunity {
		return Match{}, false
	}
	for _, s := range o.Solutions {
		if m, ok := f.solution(s, o, owner, root, depth+1); ok {
			return m, true
		}
	}
	return Match{}, false
}

func (f finder) solution(s *record.Solution, parent record.Record, owner *record.Opportunity, root *record.Goal, depth int) (Match, bool) {
	if s == nil || depth > f.maxDepth {
		return Match{}, false
	}
	if f.ref.Kind == key.KindSolution && s.ID == f.ref.ID {
		return Match{Ref: f.ref, Record: s, Parent: parent, Owner: owner, Root: root}, true
	}
	for _, sub := range s.Solutions {
		if m, ok := f.solution(sub, s, owner, root, depth+1); ok {
			return m, true
		}
	}
	if f.ref.Kind != key.KindExperiment {
		return Match{}, false
	}
	for _, e := range s.Experiments {
		if e != nil && e.ID == f.ref.ID {
			return Match{Ref: f.ref, Record: e, Parent: s, Owner: owner, Root: root}, true
		}
	}
	return Match{}, false
}
