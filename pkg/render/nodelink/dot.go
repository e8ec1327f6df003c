package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/opptree/pkg/core/key"
	"github.com/matzehuels/opptree/pkg/core/path"
	"github.com/matzehuels/opptree/pkg/core/tree"
	"github.com/matzehuels/opptree/pkg/core/visible"
	"github.com/matzehuels/opptree/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds status, owner and stage lines to node labels.
	// When false, only the title is shown.
	Detailed bool
	// RankDir is the Graphviz rank direction. Empty means "TB".
	RankDir string
}

const accent = "#d9480f"

var fills = map[key.Kind]string{
	key.KindGoal:        "#e7f5ff",
	key.KindGroup:       "#f8f9fa",
	key.KindOpportunity: "#fff9db",
	key.KindSolution:    "#ebfbee",
	key.KindExperiment:  "#f3f0ff",
	key.KindOverflow:    "lightgrey",
}

// ToDOT converts a visible graph to Graphviz DOT format. Nodes and edges in
// p are highlighted; pass an empty path for none.
func ToDOT(g *visible.Graph, p path.Path, opts Options) string {
	rankdir := opts.RankDir
	switch rankdir {
	case "TB", "LR", "BT", "RL":
	default:
		rankdir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#868e96\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed), p.HasNode(n.Key))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Key, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if p.HasEdge(e.ID) {
			fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=3];\n", e.Source, e.Target, accent)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *tree.Node, detailed bool) string {
	switch n.Kind {
	case key.KindOverflow:
		return n.Title
	case key.KindGroup:
		return fmt.Sprintf("%s (%d)", n.Title, n.Count)
	}
	if !detailed {
		return n.Title
	}

	parts := []string{string(n.Kind), "status: " + n.Status}
	if n.Owner != "" {
		parts = append(parts, "owner: "+n.Owner)
	}
	if n.Stage != "" {
		parts = append(parts, "stage: "+n.Stage)
	}
	if n.Hypothesis != "" {
		parts = append(parts, "hypothesis: "+n.Hypothesis)
	}
	return n.Title + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *tree.Node, label string, active bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if fill, ok := fills[n.Kind]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	}
	switch n.Kind {
	case key.KindOverflow:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fontcolor=black")
	case key.KindGroup:
		attrs = append(attrs, "shape=plaintext", "style=filled")
	}
	if active {
		attrs = append(attrs, fmt.Sprintf("color=%q", accent), "penwidth=3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag to a zero-origin viewBox with
// matching width and height, so the output scales in a browser.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
