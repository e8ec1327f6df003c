// Package render turns visible opportunity trees into images.
//
// # Overview
//
// Rendering runs after reduction and layout and never changes which nodes
// are shown. This package holds format conversion shared by the
// renderers; the [nodelink] subpackage draws the tree as a Graphviz
// node-link diagram.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG output with the external rsvg-convert
// tool from librsvg. [CanConvert] reports whether it is installed.
//
//	dot := nodelink.ToDOT(g, p, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// [nodelink]: github.com/matzehuels/opptree/pkg/render/nodelink
package render
