package tree

import (
	"github.com/matzehuels/opptree/pkg/core/key"
	"github.com/matzehuels/opptree/pkg/core/record"
	"github.com/matzehuels/opptree/pkg/errors"
)

// DefaultMaxDepth bounds recursion below a root. Upstream data is acyclic,
// so the bound only trips on pathological nesting.
const DefaultMaxDepth = 64

// Options configures a build. The zero value is ready to use.
type Options struct {
	// MaxDepth is the deepest level kept below a root (root = 0).
	// Zero means DefaultMaxDepth.
	MaxDepth int
	// Stages is the enumeration used by BuildGrouped. Nil means
	// DefaultStages.
	Stages Stages
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Stages == nil {
		o.Stages = DefaultStages
	}
	return o
}

// Build assembles one tree per goal with opportunities attached directly to
// their goal. Nil goals and nil child records are skipped.
func Build(goals []*record.Goal, overrides record.Overrides, opts Options) *Forest {
	b := newBuilder(overrides, opts)
	return b.forest(goals, b.plainGoal)
}

// BuildGrouped assembles one tree per goal with the goal's opportunities
// bucketed into stage group nodes. Members of a bucket keep their relative
// order in the source records; Order only ranks them once reduced.
func BuildGrouped(goals []*record.Goal, overrides record.Overrides, opts Options) *Forest {
	b := newBuilder(overrides, opts)
	return b.forest(goals, b.groupedGoal)
}

type builder struct {
	overrides record.Overrides
	opts      Options
	issues    []error
}

func newBuilder(overrides record.Overrides, opts Options) *builder {
	return &builder{overrides: overrides, opts: opts.withDefaults()}
}

func (b *builder) forest(goals []*record.Goal, buildGoal func(g *record.Goal, index int) *Node) *Forest {
	b.checkOverrides()

	f := newForest()
	for i, g := range goals {
		if g == nil {
			continue
		}
		if root := buildGoal(g, i); b.register(f, root) {
			f.Roots = append(f.Roots, root)
		}
	}
	f.Issues = b.issues
	return f
}

// checkOverrides reports override keys that do not decode. They can never
// match a node and are otherwise ignored.
func (b *builder) checkOverrides() {
	for _, k := range b.overrides.Keys() {
		if _, err := key.Parse(k); err != nil {
			b.issues = append(b.issues, err)
		}
	}
}

// register indexes n and its subtree. A repeated key keeps the first node:
// the repeat is reported, detached from its parent and reports false, so
// every node reachable from the roots is indexed exactly once.
func (b *builder) register(f *Forest, n *Node) bool {
	if _, dup := f.NodesByKey[n.Key]; dup {
		b.issues = append(b.issues, errors.New(errors.ErrCodeInvalidInput, "duplicate node key %q", n.Key))
		return false
	}
	f.NodesByKey[n.Key] = n

	kept := n.Children[:0]
	for _, c := range n.Children {
		if b.register(f, c) {
			kept = append(kept, c)
		}
	}
	n.Children = kept
	if n.Kind == key.KindGroup {
		n.Count = len(kept)
	}
	return true
}

func (b *builder) plainGoal(g *record.Goal, index int) *Node {
	n := Materialize(g, Placement{Index: index}, b.overrides)
	for i, o := range g.Opportunities {
		if o == nil {
			continue
		}
		if c := b.opportunity(o, Placement{ParentKey: n.Key, Index: i}, 1); c != nil {
			n.Children = append(n.Children, c)
		}
	}
	SortByOrder(n.Children)
	return n
}

func (b *builder) groupedGoal(g *record.Goal, index int) *Node {
	n := Materialize(g, Placement{Index: index}, b.overrides)
	stages := b.opts.Stages

	buckets := make(map[string][]*Node)
	for i, o := range g.Opportunities {
		if o == nil {
			continue
		}
		bucket := b.stageOf(o)
		groupKey := key.Group(g.ID, bucket)
		if c := b.opportunity(o, Placement{ParentKey: groupKey, Index: i}, 2); c != nil {
			buckets[bucket] = append(buckets[bucket], c)
		}
	}

	for pos, stage := range stages.Buckets() {
		members := buckets[stage]
		if len(members) == 0 {
			continue
		}
		groupKey := key.Group(g.ID, stage)
		ref, _ := key.Decode(groupKey)
		n.Children = append(n.Children, &Node{
			Key:       groupKey,
			ID:        ref.ID,
			Kind:      key.KindGroup,
			ParentKey: n.Key,
			Order:     float64(pos),
			Title:     stages.Label(stage),
			Stage:     stage,
			Count:     len(members),
			Children:  members,
		})
	}
	return n
}

// stageOf returns the bucket of a first-level opportunity, honoring a
// stage override.
func (b *builder) stageOf(o *record.Opportunity) string {
	stage := o.Stage
	if p, ok := b.overrides.Lookup(key.Encode(key.KindOpportunity, o.ID)); ok && p.Stage != nil {
		stage = *p.Stage
	}
	bucket, known := b.opts.Stages.Resolve(stage)
	if !known {
		b.issues = append(b.issues, errors.New(errors.ErrCodeInvalidStage,
			"opportunity %q has unknown stage %q; placed in %s", o.ID, stage, Unassigned))
	}
	return bucket
}

// tooDeep records a dropped subtree.
func (b *builder) tooDeep(r record.Record, depth int) bool {
	if depth <= b.opts.MaxDepth {
		return false
	}
	b.issues = append(b.issues, errors.New(errors.ErrCodeDepthExceeded,
		"%s dropped at depth %d (max %d)", record.KeyOf(r), depth, b.opts.MaxDepth))
	return true
}

func (b *builder) opportunity(o *record.Opportunity, at Placement, depth int) *Node {
	if b.tooDeep(o, depth) {
		return nil
	}
	n := Materialize(o, at, b.overrides)
	for i, sub := range o.Opportunities {
		if sub == nil {
			continue
		}
		if c := b.opportunity(sub, Placement{ParentKey: n.Key, Index: i, Nested: true}, depth+1); c != nil {
			n.Children = append(n.Children, c)
		}
	}
	for i, s := range o.Solutions {
		if s == nil {
			continue
		}
		if c := b.solution(s, Placement{ParentKey: n.Key, Index: i}, depth+1); c != nil {
			n.Children = append(n.Children, c)
		}
	}
	SortByOrder(n.Children)
	return n
}

func (b *builder) solution(s *record.Solution, at Placement, depth int) *Node {
	if b.tooDeep(s, depth) {
		return nil
	}
	n := Materialize(s, at, b.overrides)
	for i, sub := range s.Solutions {
		if sub == nil {
			continue
		}
		if c := b.solution(sub, Placement{ParentKey: n.Key, Index: i, Nested: true}, depth+1); c != nil {
			n.Children = append(n.Children, c)
		}
	}
	for i, e := range s.Experiments {
		if e == nil || b.tooDeep(e, depth+1) {
			continue
		}
		n.Children = append(n.Children, Materialize(e, Placement{ParentKey: n.Key, Index: i}, b.overrides))
	}
	SortByOrder(n.Children)
	return n
}
