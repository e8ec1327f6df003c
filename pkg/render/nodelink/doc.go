// Package nodelink renders a visible opportunity tree as a Graphviz
// node-link diagram.
//
// # Usage
//
// Convert the reduced graph and the active path to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, p, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the wrappers around package render:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Styling
//
// Each node kind has its own fill colour. Group nodes are drawn as plain
// headers with their member count; overflow nodes are dashed and grey.
// Nodes and edges on the active path get a thick accent outline so the
// focused chain stands out.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
