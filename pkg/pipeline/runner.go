package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/opptree/pkg/cache"
	"github.com/matzehuels/opptree/pkg/core/layout"
	"github.com/matzehuels/opptree/pkg/core/path"
	"github.com/matzehuels/opptree/pkg/core/tree"
	"github.com/matzehuels/opptree/pkg/core/visible"
	"github.com/matzehuels/opptree/pkg/errors"
	"github.com/matzehuels/opptree/pkg/graph"
	docio "github.com/matzehuels/opptree/pkg/io"
	"github.com/matzehuels/opptree/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → view → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, doc *docio.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result, err := r.View(ctx, doc, opts)
	if err != nil {
		return nil, err
	}

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// View builds the forest and derives its visible graph, layout and active
// path. No artifacts are rendered.
func (r *Runner) View(ctx context.Context, doc *docio.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForBuild(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := opts.ValidateForView(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	buildStart := time.Now()
	f, buildHit, err := r.BuildWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Forest = f
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = f.Len()
	result.Stats.IssueCount = len(f.Issues)
	result.CacheInfo.BuildHit = buildHit

	if data, err := graph.MarshalGraph(f); err == nil {
		result.ForestHash = cache.Hash(data)
	}

	viewStart := time.Now()
	result.Visible = visible.Reduce(f.Roots, opts.VisibleOptions())
	observability.Pipeline().OnReduceComplete(ctx, len(result.Visible.Nodes), result.Visible.HiddenCount(), time.Since(viewStart))

	pos, layoutHit := r.layout(ctx, result.ForestHash, result.Visible, opts)
	result.Positions = pos
	result.CacheInfo.LayoutHit = layoutHit

	result.Path = path.Compute(f.NodesByKey, opts.Focus)
	if opts.Focus != "" && result.Path.Empty() {
		r.Logger.Warn("focus not found", "focus", opts.Focus)
	}

	result.View = graph.FromVisible(result.Visible, pos, result.Path)
	result.View.Focus = opts.Focus
	result.View.Issues = graph.FromIssues(f.Issues)

	result.Stats.ViewTime = time.Since(viewStart)
	result.Stats.VisibleCount = len(result.Visible.Nodes)
	result.Stats.HiddenCount = result.Visible.HiddenCount()

	r.Logger.Info("computed view",
		"visible", result.Stats.VisibleCount,
		"overflow", len(result.Visible.Overflows),
		"hidden", result.Stats.HiddenCount,
		"duration", result.Stats.ViewTime)

	return result, nil
}

// BuildWithCacheInfo builds the forest with caching and returns cache hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, doc *docio.Document, opts Options) (*tree.Forest, bool, error) {
	if doc == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "no document")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}

	docData, err := json.Marshal(doc)
	if err != nil {
		return nil, false, fmt.Errorf("serialize document for cache key: %w", err)
	}
	cacheKey := r.Keyer.ForestKey(cache.Hash(docData), opts.ForestKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		g, err := graph.UnmarshalGraph(data)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, "forest")
			f := g.ToForest()
			r.Logger.Debug("forest from cache", "nodes", f.Len())
			return f, true, nil // Cache hit
		}
		// If deserialization fails, fall through to rebuild
	}
	observability.Cache().OnCacheMiss(ctx, "forest")

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, opts.Grouping, len(doc.Goals))
	start := time.Now()

	f := Build(doc, opts)

	hooks.OnBuildComplete(ctx, opts.Grouping, f.Len(), len(f.Issues), time.Since(start), nil)
	r.Logger.Info("built forest",
		"grouping", opts.Grouping,
		"roots", len(f.Roots),
		"nodes", f.Len(),
		"issues", len(f.Issues),
		"duration", time.Since(start))
	for _, issue := range f.Issues {
		r.Logger.Warn("forest issue", "code", errors.GetCode(issue), "msg", errors.UserMessage(issue))
	}

	if data, err := graph.MarshalGraph(f); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLForest); err == nil {
			observability.Cache().OnCacheSet(ctx, "forest", len(data))
		}
	}

	return f, false, nil // Cache miss
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards the cache hit info.
func (r *Runner) Build(ctx context.Context, doc *docio.Document, opts Options) (*tree.Forest, error) {
	f, _, err := r.BuildWithCacheInfo(ctx, doc, opts)
	return f, err
}

// layout places the visible graph, reusing cached positions for the same
// forest and view options.
func (r *Runner) layout(ctx context.Context, forestHash string, g *visible.Graph, opts Options) (layout.Positions, bool) {
	cacheKey := r.Keyer.ViewKey(forestHash, opts.ViewKeyOpts())

	if forestHash != "" {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var pos layout.Positions
			if err := json.Unmarshal(data, &pos); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return pos, true
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	pos := opts.Layouter.Layout(layout.FromVisible(g))

	if forestHash != "" {
		if data, err := json.Marshal(pos); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLView); err == nil {
				observability.Cache().OnCacheSet(ctx, "layout", len(data))
			}
		}
	}
	return pos, false
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from view data
	viewData, err := graph.MarshalView(result.View)
	if err != nil {
		return nil, false, fmt.Errorf("serialize view for cache key: %w", err)
	}
	viewHash := cache.Hash(viewData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(viewHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := Render(ctx, result, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(viewHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, result *Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, result, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Build materializes doc into a forest without caching.
func Build(doc *docio.Document, opts Options) *tree.Forest {
	if opts.IsGrouped() {
		return tree.BuildGrouped(doc.Goals, doc.Overrides, opts.TreeOptions())
	}
	return tree.Build(doc.Goals, doc.Overrides, opts.TreeOptions())
}
