package layout

// Default gaps for Tidy.
const (
	DefaultHGap = 40.0
	DefaultVGap = 80.0
)

// Tidy is a deterministic layered tree layout. Each depth forms a rank;
// rank height is the tallest box in it. Leaves are packed left to right in
// input order and parents are centred over their children. Boxes reachable
// from no root (a cycle in the links) are laid out as extra roots.
type Tidy struct {
	// HGap separates neighboring subtrees. Zero means DefaultHGap.
	HGap float64
	// VGap separates ranks. Zero means DefaultVGap.
	VGap float64
}

type tidyState struct {
	boxes    map[string]Box
	children map[string][]string
	placed   map[string][]string
	depth    map[string]int
	x        map[string]float64
	hgap     float64
}

// Layout places in. Links to unknown ids are ignored; a box keeps only its
// first parent.
func (t Tidy) Layout(in Input) Positions {
	hgap, vgap := t.HGap, t.VGap
	if hgap <= 0 {
		hgap = DefaultHGap
	}
	if vgap <= 0 {
		vgap = DefaultVGap
	}

	s := &tidyState{
		boxes:    make(map[string]Box, len(in.Nodes)),
		children: make(map[string][]string),
		placed:   make(map[string][]string),
		depth:    make(map[string]int, len(in.Nodes)),
		x:        make(map[string]float64, len(in.Nodes)),
		hgap:     hgap,
	}
	for _, b := range in.Nodes {
		if _, dup := s.boxes[b.ID]; !dup {
			s.boxes[b.ID] = b
		}
	}
	hasParent := make(map[string]bool)
	for _, e := range in.Edges {
		if _, ok := s.boxes[e.Source]; !ok {
			continue
		}
		if _, ok := s.boxes[e.Target]; !ok || hasParent[e.Target] || e.Source == e.Target {
			continue
		}
		hasParent[e.Target] = true
		s.children[e.Source] = append(s.children[e.Source], e.Target)
	}

	cursor := 0.0
	place := func(id string) {
		if _, done := s.depth[id]; done {
			return
		}
		cursor += s.place(id, cursor, 0) + hgap
	}
	for _, b := range in.Nodes {
		if !hasParent[b.ID] {
			place(b.ID)
		}
	}
	for _, b := range in.Nodes {
		place(b.ID)
	}

	rankHeight := make(map[int]float64)
	maxDepth := 0
	for id, d := range s.depth {
		rankHeight[d] = max(rankHeight[d], s.boxes[id].Height)
		maxDepth = max(maxDepth, d)
	}
	rankY := make([]float64, maxDepth+1)
	top := 0.0
	for d := 0; d <= maxDepth; d++ {
		rankY[d] = top + rankHeight[d]/2
		top += rankHeight[d] + vgap
	}

	pos := make(Positions, len(s.depth))
	for id, d := range s.depth {
		pos[id] = Point{X: s.x[id], Y: rankY[d]}
	}
	return pos
}

// place lays out the subtree of id starting at left and returns its width.
func (s *tidyState) place(id string, left float64, depth int) float64 {
	s.depth[id] = depth
	w := s.boxes[id].Width

	var kids []string
	for _, c := range s.children[id] {
		if _, done := s.depth[c]; !done {
			kids = append(kids, c)
		}
	}
	if len(kids) == 0 {
		s.x[id] = left + w/2
		return w
	}
	s.placed[id] = kids

	span := 0.0
	for i, c := range kids {
		if i > 0 {
			span += s.hgap
		}
		span += s.place(c, left+span, depth+1)
	}
	center := (s.x[kids[0]] + s.x[kids[len(kids)-1]]) / 2
	// keep the parent box inside the subtree's column
	if d := left - (center - w/2); d > 0 {
		for _, c := range kids {
			s.shift(c, d)
		}
		center += d
		span += d
	}
	span = max(span, center+w/2-left)
	s.x[id] = center
	return span
}

func (s *tidyState) shift(id string, dx float64) {
	s.x[id] += dx
	for _, c := range s.placed[id] {
		s.shift(c, dx)
	}
}
