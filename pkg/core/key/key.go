package key

import (
	"strings"

	"github.com/matzehuels/opptree/pkg/errors"
)

// Separator joins the kind and id of a key. Record ids and stage ids must
// not contain it.
const Separator = ":"

// edgeSeparator joins the endpoint keys of an edge id.
const edgeSeparator = "->"

// overflowSuffix is appended to a parent key to form its overflow key.
const overflowSuffix = Separator + "overflow"

// Kind is the closed set of node types.
type Kind string

const (
	// KindGoal is a root record.
	KindGoal Kind = "goal"
	// KindOpportunity is a problem or lever under a goal or another opportunity.
	KindOpportunity Kind = "opportunity"
	// KindSolution is a candidate intervention under an opportunity or another solution.
	KindSolution Kind = "solution"
	// KindExperiment is a leaf validation activity under a solution.
	KindExperiment Kind = "experiment"
	// KindGroup is a synthetic stage bucket produced by stage grouping.
	KindGroup Kind = "group"
	// KindOverflow is a synthetic placeholder for children hidden by the cap.
	KindOverflow Kind = "overflow"
)

// Kinds lists every valid kind, records first.
var Kinds = []Kind{KindGoal, KindOpportunity, KindSolution, KindExperiment, KindGroup, KindOverflow}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindGoal, KindOpportunity, KindSolution, KindExperiment, KindGroup, KindOverflow:
		return true
	}
	return false
}

// Synthetic reports whether nodes of this kind are produced by the engine
// rather than materialized from a record.
func (k Kind) Synthetic() bool { return k == KindGroup || k == KindOverflow }

// Ref is a decoded key.
type Ref struct {
	Kind Kind
	ID   string
}

// String re-encodes the reference.
func (r Ref) String() string { return Encode(r.Kind, r.ID) }

// Encode joins kind and id into a key.
func Encode(kind Kind, id string) string {
	return string(kind) + Separator + id
}

// Decode splits k into its kind and id. The id is everything after the first
// separator. It reports false when k has fewer than two components or either
// component is empty.
func Decode(k string) (Ref, bool) {
	kind, id, ok := strings.Cut(k, Separator)
	if !ok || kind == "" || id == "" {
		return Ref{}, false
	}
	return Ref{Kind: Kind(kind), ID: id}, true
}

// Parse is Decode with a structured error for callers that surface failures.
// Keys of an unknown kind are rejected too.
func Parse(k string) (Ref, error) {
	ref, ok := Decode(k)
	if !ok {
		return Ref{}, errors.New(errors.ErrCodeInvalidKey, "malformed node key %q", k)
	}
	if !ref.Kind.Valid() {
		return Ref{}, errors.New(errors.ErrCodeInvalidKey, "unknown node kind %q in key %q", ref.Kind, k)
	}
	return ref, nil
}

// Group returns the composite key of the stage bucket stageID owned by ownerID.
func Group(ownerID, stageID string) string {
	return Encode(KindGroup, ownerID+Separator+stageID)
}

// SplitGroup splits a group id (the id part of a group key) into its owner
// and stage. The stage is taken after the last separator.
func SplitGroup(id string) (owner, stage string, ok bool) {
	i := strings.LastIndex(id, Separator)
	if i <= 0 || i == len(id)-len(Separator) {
		return "", "", false
	}
	return id[:i], id[i+len(Separator):], true
}

// Overflow returns the key of the overflow placeholder under parentKey.
func Overflow(parentKey string) string { return parentKey + overflowSuffix }

// IsOverflow reports whether k was produced by Overflow.
func IsOverflow(k string) bool { return strings.HasSuffix(k, overflowSuffix) }

// Edge returns the id of the edge from source to target.
func Edge(source, target string) string { return source + edgeSeparator + target }

// SplitEdge splits an edge id into its endpoints.
func SplitEdge(id string) (source, target string, ok bool) {
	source, target, ok = strings.Cut(id, edgeSeparator)
	if !ok || source == "" || target == "" {
		return "", "", false
	}
	return source, target, true
}
