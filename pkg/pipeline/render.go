package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/opptree/pkg/graph"
	"github.com/matzehuels/opptree/pkg/observability"
	"github.com/matzehuels/opptree/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats from a
// computed view.
func Render(ctx context.Context, result *Result, opts Options) (map[string][]byte, error) {
	if result == nil || result.Visible == nil {
		return nil, fmt.Errorf("render: no view")
	}
	opts.SetRenderDefaults()

	dot := nodelink.ToDOT(result.Visible, result.Path, opts.nodelinkOptions())
	hooks := observability.Pipeline()
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		hooks.OnRenderStart(ctx, format)
		start := time.Now()

		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatJSON:
			data, err = graph.MarshalView(result.View)
		default:
			err = fmt.Errorf("unsupported format: %s", format)
		}

		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		opts.Logger.Debug("rendered", "format", format, "bytes", len(data))
		artifacts[format] = data
	}

	return artifacts, nil
}

func (o *Options) nodelinkOptions() nodelink.Options {
	return nodelink.Options{Detailed: o.Detailed, RankDir: o.RankDir}
}
