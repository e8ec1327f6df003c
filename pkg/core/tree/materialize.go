package tree

import (
	"github.com/matzehuels/opptree/pkg/core/key"
	"github.com/matzehuels/opptree/pkg/core/record"
)

// Placement describes where a record sits in its parent.
type Placement struct {
	ParentKey string
	// Index is the record's position in its parent's array, the last
	// fallback for Order.
	Index int
	// Nested marks a sub-opportunity or sub-solution.
	Nested bool
}

// Materialize builds the view node for r without children. r must be a
// non-nil record. Neither r nor overrides is modified.
func Materialize(r record.Record, at Placement, overrides record.Overrides) *Node {
	kind := r.Kind()
	b := r.Fields()
	k := key.Encode(kind, b.ID)
	p, _ := overrides.Lookup(k)

	n := &Node{
		Key:         k,
		ID:          b.ID,
		Kind:        kind,
		ParentKey:   at.ParentKey,
		Order:       resolveOrder(p.Order, b.Order, b.Position, at.Index),
		Title:       resolve(p.Title, b.Title, defaultTitles[kind]),
		Description: resolve(p.Description, b.Description, ""),
		Status:      resolve(p.Status, b.Status, DefaultStatus),
		Owner:       resolve(p.Owner, b.Owner, ""),
		Nested:      at.Nested,
		Raw:         r,
	}

	switch rec := r.(type) {
	case *record.Opportunity:
		n.Stage = resolve(p.Stage, rec.Stage, "")
	case *record.Experiment:
		n.Hypothesis = resolve(p.Hypothesis, rec.Hypothesis, "")
		n.Result = resolve(p.Result, rec.Result, "")
	}
	return n
}

// resolve applies override > record > default. An empty result falls back
// to def.
func resolve(override *string, value, def string) string {
	if override != nil {
		value = *override
	}
	if value == "" {
		return def
	}
	return value
}

func resolveOrder(override, order *float64, position *int, index int) float64 {
	switch {
	case override != nil:
		return *override
	case order != nil:
		return *order
	case position != nil:
		return float64(*position)
	default:
		return float64(index)
	}
}
