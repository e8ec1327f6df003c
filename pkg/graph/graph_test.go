package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/opptree/pkg/core/key"
	"github.com/matzehuels/opptree/pkg/core/layout"
	"github.com/matzehuels/opptree/pkg/core/path"
	"github.com/matzehuels/opptree/pkg/core/record"
	rt "github.com/matzehuels/opptree/pkg/core/record/recordtest"
	"github.com/matzehuels/opptree/pkg/core/tree"
	"github.com/matzehuels/opptree/pkg/core/visible"
	"github.com/matzehuels/opptree/pkg/errors"
)

func sampleForest() *tree.Forest {
	goals := []*record.Goal{
		rt.Goal("g1", rt.Opp("o1", rt.Sol("s1", rt.Exp("e1")), rt.Sol("s2"), rt.Sol("s3"))),
		rt.Goal("g2"),
	}
	return tree.Build(goals, record.Overrides{"nokey": {}}, tree.Options{})
}

func TestFromForest(t *testing.T) {
	g := FromForest(sampleForest())

	if diff := cmp.Diff([]string{"goal:g1", "goal:g2"}, g.Roots); diff != "" {
		t.Errorf("roots (-want +got):\n%s", diff)
	}

	var keys []string
	for _, n := range g.Nodes {
		keys = append(keys, n.Key)
	}
	want := []string{"goal:g1", "opportunity:o1", "solution:s1", "experiment:e1", "solution:s2", "solution:s3", "goal:g2"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("node order (-want +got):\n%s", diff)
	}
	if len(g.Edges) != len(g.Nodes)-2 {
		t.Errorf("edges = %d", len(g.Edges))
	}

	e1 := g.Nodes[3]
	if e1.Depth != 3 || e1.Parent != "solution:s1" || e1.Kind != key.KindExperiment || e1.Children != 0 {
		t.Errorf("e1 = %+v", e1)
	}
	if o1 := g.Nodes[1]; o1.Children != 3 {
		t.Errorf("o1 children = %d", o1.Children)
	}

	if len(g.Issues) != 1 || g.Issues[0].Code != errors.ErrCodeInvalidKey {
		t.Errorf("issues = %+v", g.Issues)
	}
}

func TestMarshalGraph(t *testing.T) {
	data, err := MarshalGraph(sampleForest())
	if err != nil {
		t.Fatalf("MarshalGraph() error: %v", err)
	}
	g, err := UnmarshalGraph(data)
	if err != nil {
		t.Fatalf("UnmarshalGraph() error: %v", err)
	}
	if diff := cmp.Diff(FromForest(sampleForest()), g); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}

	if !strings.Contains(string(data), `"goal:g1->opportunity:o1"`) {
		t.Errorf("edge id not written verbatim:\n%s", data)
	}
	vg := visible.Reduce(sampleForest().Roots, visible.Options{})
	v, err := MarshalView(FromVisible(vg, layout.Tidy{}.Layout(layout.FromVisible(vg)), path.Path{}))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(v), `\u003e`) {
		t.Error("view JSON contains HTML-escaped characters")
	}

	if _, err := UnmarshalGraph([]byte("{")); err == nil {
		t.Error("expected error for malformed json")
	}
}

func TestWriteGraphFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "forest.json")
	if err := WriteGraphFile(sampleForest(), p); err != nil {
		t.Fatalf("WriteGraphFile() error: %v", err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteGraph(sampleForest(), &buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, buf.Bytes()) {
		t.Error("file and writer output differ")
	}
}

func TestFromVisible(t *testing.T) {
	f := sampleForest()
	vg := visible.Reduce(f.Roots, visible.Options{Cap: 2})
	pos := layout.Tidy{}.Layout(layout.FromVisible(vg))
	p := path.Compute(f.NodesByKey, "solution:s1")

	v := FromVisible(vg, pos, p)

	if len(v.Nodes) != len(vg.Nodes) || len(v.Edges) != len(vg.Edges) {
		t.Fatalf("view = %d nodes, %d edges", len(v.Nodes), len(v.Edges))
	}
	if v.Overflow != 1 {
		t.Errorf("overflow = %d, want 1", v.Overflow)
	}
	if v.Width <= 0 || v.Height <= 0 {
		t.Errorf("extent = %vx%v", v.Width, v.Height)
	}

	byKey := make(map[string]Node)
	for _, n := range v.Nodes {
		byKey[n.Key] = n
		if n.X-n.Width/2 < 0 || n.Y-n.Height/2 < 0 {
			t.Errorf("%s outside the extent: %v,%v", n.Key, n.X, n.Y)
		}
	}

	ov := byKey["opportunity:o1:overflow"]
	if diff := cmp.Diff([]string{"solution:s3"}, ov.Hidden); diff != "" {
		t.Errorf("hidden (-want +got):\n%s", diff)
	}
	if ov.Depth != 2 || byKey["experiment:e1"].Depth != 3 {
		t.Errorf("depths = %d, %d", ov.Depth, byKey["experiment:e1"].Depth)
	}
	for k, want := range map[string]bool{
		"goal:g1":        true,
		"solution:s1":    true,
		"experiment:e1":  true,
		"solution:s2":    false,
		"goal:g2":        false,
		"opportunity:o1": true,
	} {
		if byKey[k].Active != want {
			t.Errorf("%s active = %v, want %v", k, byKey[k].Active, want)
		}
	}
	for _, e := range v.Edges {
		if want := p.HasEdge(e.ID); e.Active != want {
			t.Errorf("edge %s active = %v", e.ID, e.Active)
		}
	}
}

func TestViewFile(t *testing.T) {
	f := sampleForest()
	vg := visible.Reduce(f.Roots, visible.Options{})
	v := FromVisible(vg, layout.Tidy{}.Layout(layout.FromVisible(vg)), path.Path{})
	v.Focus = "goal:g1"

	p := filepath.Join(t.TempDir(), "view.json")
	if err := WriteViewFile(v, p); err != nil {
		t.Fatalf("WriteViewFile() error: %v", err)
	}
	back, err := ReadViewFile(p)
	if err != nil {
		t.Fatalf("ReadViewFile() error: %v", err)
	}
	if diff := cmp.Diff(v, back); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
	if _, err := ReadViewFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestToForest(t *testing.T) {
	orig := sampleForest()
	data, err := MarshalGraph(orig)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	g, err := UnmarshalGraph(data)
	if err != nil {
		t.Fatalf("UnmarshalGraph: %v", err)
	}
	f := g.ToForest()

	if f.Len() != orig.Len() || len(f.Roots) != 2 {
		t.Fatalf("len = %d roots = %d, want %d and 2", f.Len(), len(f.Roots), orig.Len())
	}
	o1, _ := f.Node("opportunity:o1")
	var kids []string
	for _, c := range o1.Children {
		kids = append(kids, c.Key)
	}
	if diff := cmp.Diff([]string{"solution:s1", "solution:s2", "solution:s3"}, kids); diff != "" {
		t.Errorf("o1 children (-want +got):\n%s", diff)
	}
	if len(f.Issues) != 1 || !errors.Is(f.Issues[0], errors.ErrCodeInvalidKey) {
		t.Errorf("issues = %v", f.Issues)
	}
	if diff := cmp.Diff(FromForest(orig), FromForest(f)); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}
