package tree

import "slices"

// Unassigned is the reserved bucket for opportunities without a known stage.
// It always sorts after the enumerated stages.
const Unassigned = "unassigned"

const unassignedLabel = "Unassigned"

// Stage is one entry of the stage enumeration.
type Stage struct {
	ID    string `json:"id" toml:"id"`
	Label string `json:"label" toml:"label"`
}

// Stages is an ordered stage enumeration. Its order is the canonical
// group order.
type Stages []Stage

// DefaultStages is used when no enumeration is configured.
var DefaultStages = Stages{
	{ID: "explore", Label: "Explore"},
	{ID: "validate", Label: "Validate"},
	{ID: "build", Label: "Build"},
	{ID: "measure", Label: "Measure"},
}

// Index returns the canonical position of id. Unassigned sorts after every
// stage; unknown ids report -1.
func (s Stages) Index(id string) int {
	if id == Unassigned {
		return len(s)
	}
	return slices.IndexFunc(s, func(st Stage) bool { return st.ID == id })
}

// Has reports whether id is an enumerated stage.
func (s Stages) Has(id string) bool {
	return id != Unassigned && s.Index(id) >= 0
}

// Label returns the display label of id, falling back to the id itself.
func (s Stages) Label(id string) string {
	if id == Unassigned {
		return unassignedLabel
	}
	if i := s.Index(id); i >= 0 && s[i].Label != "" {
		return s[i].Label
	}
	return id
}

// Resolve maps a raw stage value to its bucket. Empty values, the
// Unassigned sentinel and unknown ids all map to Unassigned; known reports
// false only for a non-empty id outside the enumeration.
func (s Stages) Resolve(id string) (bucket string, known bool) {
	switch {
	case id == "" || id == Unassigned:
		return Unassigned, true
	case s.Has(id):
		return id, true
	default:
		return Unassigned, false
	}
}

// Buckets returns the bucket ids in canonical order, Unassigned last.
func (s Stages) Buckets() []string {
	ids := make([]string, 0, len(s)+1)
	for _, st := range s {
		ids = append(ids, st.ID)
	}
	return append(ids, Unassigned)
}
