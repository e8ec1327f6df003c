package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/opptree/pkg/core/key"
	"github.com/matzehuels/opptree/pkg/core/path"
	"github.com/matzehuels/opptree/pkg/core/record"
	rt "github.com/matzehuels/opptree/pkg/core/record/recordtest"
	"github.com/matzehuels/opptree/pkg/core/tree"
	"github.com/matzehuels/opptree/pkg/core/visible"
)

func sample(t *testing.T) (*tree.Forest, *visible.Graph) {
	t.Helper()
	goals := []*record.Goal{
		rt.Goal("g", rt.Opp("o", rt.Sol("a", rt.Exp("e")), rt.Sol("b"), rt.Sol("c"))),
	}
	f := tree.Build(goals, nil, tree.Options{})
	return f, visible.Reduce(f.Roots, visible.Options{Cap: 2})
}

func TestToDOT_Basic(t *testing.T) {
	_, g := sample(t)
	dot := ToDOT(g, path.Path{}, Options{})

	for _, want := range []string{
		"digraph G",
		"rankdir=TB",
		`"goal:g" [label="Goal g"`,
		`"solution:a"`,
		`"goal:g" -> "opportunity:o";`,
		`"opportunity:o" -> "opportunity:o:overflow";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s", want)
		}
	}
	if strings.Contains(dot, `"solution:c"`) {
		t.Error("hidden node rendered")
	}
	if strings.Contains(dot, "penwidth") {
		t.Error("empty path should not highlight anything")
	}
}

func TestToDOT_Overflow(t *testing.T) {
	_, g := sample(t)
	dot := ToDOT(g, path.Path{}, Options{})

	if !strings.Contains(dot, `label="+1 more"`) {
		t.Error("ToDOT() overflow missing count label")
	}
	if !strings.Contains(dot, "dashed") {
		t.Error("ToDOT() overflow missing dashed style")
	}
	if !strings.Contains(dot, "lightgrey") {
		t.Error("ToDOT() overflow missing lightgrey fill")
	}
}

func TestToDOT_ActivePath(t *testing.T) {
	f, g := sample(t)
	p := path.Compute(f.NodesByKey, "solution:a")
	dot := ToDOT(g, p, Options{})

	if !strings.Contains(dot, `"opportunity:o" -> "solution:a" [color="#d9480f", penwidth=3];`) {
		t.Error("active edge not highlighted")
	}
	if !strings.Contains(dot, `"opportunity:o" -> "solution:b";`) {
		t.Error("inactive edge highlighted")
	}
	for _, line := range strings.Split(dot, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), `"solution:b" [`) && strings.Contains(line, "penwidth") {
			t.Error("inactive node highlighted")
		}
		if strings.HasPrefix(strings.TrimSpace(line), `"experiment:e" [`) && !strings.Contains(line, "penwidth") {
			t.Error("descendant of focus not highlighted")
		}
	}
}

func TestToDOT_Group(t *testing.T) {
	goals := []*record.Goal{rt.Goal("g", rt.Staged("build", rt.Opp("o")), rt.Staged("build", rt.Opp("p")))}
	f := tree.BuildGrouped(goals, nil, tree.Options{})
	dot := ToDOT(visible.Reduce(f.Roots, visible.Options{}), path.Path{}, Options{RankDir: "LR"})

	if !strings.Contains(dot, `"group:g:build" [label="Build (2)"`) {
		t.Error("group label missing count")
	}
	if !strings.Contains(dot, "rankdir=LR") {
		t.Error("rank direction ignored")
	}
}

func TestToDOT_UnknownRankDir(t *testing.T) {
	f := tree.Build([]*record.Goal{rt.Goal("g")}, nil, tree.Options{})
	dot := ToDOT(visible.Reduce(f.Roots, visible.Options{}), path.Path{}, Options{RankDir: `LR; node [label="x"]`})

	if !strings.Contains(dot, "rankdir=TB;") {
		t.Error("unknown rank direction should fall back to TB")
	}
	if strings.Contains(dot, `label="x"`) {
		t.Error("rank direction text leaked into the DOT source")
	}
}

func TestFmtLabel(t *testing.T) {
	tests := []struct {
		name     string
		node     tree.Node
		detailed bool
		want     string
	}{
		{
			name: "simple",
			node: tree.Node{Kind: key.KindSolution, Title: "Try it", Status: "draft"},
			want: "Try it",
		},
		{
			name:     "detailed",
			node:     tree.Node{Kind: key.KindOpportunity, Title: "Find it", Status: "active", Owner: "ana", Stage: "explore"},
			detailed: true,
			want:     "Find it\nopportunity\nstatus: active\nowner: ana\nstage: explore",
		},
		{
			name:     "overflow ignores detail",
			node:     tree.Node{Kind: key.KindOverflow, Title: "+3 more", Count: 3},
			detailed: true,
			want:     "+3 more",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtLabel(&tt.node, tt.detailed); got != tt.want {
				t.Errorf("fmtLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.50 200.00" width="100" height="200"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
