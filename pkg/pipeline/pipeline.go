// Package pipeline runs the opptree build → reduce → layout → render
// pipeline.
//
// This package is shared by the CLI and the preview server so both apply
// the same defaults, caching and logging.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Build: Materialize records into a forest, plain or stage-grouped
//  2. View: Reduce the forest to its visible graph and compute the active path
//  3. Layout: Place the visible nodes with a [layout.Layouter]
//  4. Render: Produce artifacts (DOT, SVG, PNG, PDF, JSON)
//
// Build, layout and render results are memoized through a [cache.Cache].
// Reduction and the active path are cheap and always recomputed.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
//	opts := pipeline.Options{
//	    Grouping: pipeline.GroupingStage,
//	    Focus:    "solution:s1",
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, doc, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Build only
//	f, err := runner.Build(ctx, doc, opts)
//
//	// Build, reduce and lay out
//	result, err := runner.View(ctx, doc, opts)
//
//	// Render an existing view
//	artifacts, err := runner.Render(ctx, result, opts)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/opptree/pkg/cache"
	"github.com/matzehuels/opptree/pkg/core/layout"
	"github.com/matzehuels/opptree/pkg/core/path"
	"github.com/matzehuels/opptree/pkg/core/tree"
	"github.com/matzehuels/opptree/pkg/core/visible"
	"github.com/matzehuels/opptree/pkg/errors"
	"github.com/matzehuels/opptree/pkg/graph"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// Grouping modes.
const (
	GroupingPlain = "plain"
	GroupingStage = "stage"
)

const (
	// DefaultGrouping attaches opportunities directly to their goal.
	DefaultGrouping = GroupingPlain

	// DefaultCap is the number of children shown before an overflow node.
	DefaultCap = visible.DefaultCap

	// DefaultRankDir is the Graphviz rank direction.
	DefaultRankDir = "TB"

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidRankDirs is the set of Graphviz rank directions.
var ValidRankDirs = map[string]bool{
	"TB": true,
	"LR": true,
	"BT": true,
	"RL": true,
}

// ValidGroupings is the set of supported grouping modes.
var ValidGroupings = map[string]bool{
	GroupingPlain: true,
	GroupingStage: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Build options
	Grouping string      `json:"grouping,omitempty"`
	MaxDepth int         `json:"max_depth,omitempty"`
	Stages   tree.Stages `json:"stages,omitempty"`

	// View options
	Cap       int      `json:"cap,omitempty"`
	Collapsed []string `json:"collapsed,omitempty"`
	Expanded  []string `json:"expanded,omitempty"`
	Focus     string   `json:"focus,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	RankDir  string   `json:"rankdir,omitempty"`
	Scale    float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger     `json:"-"`
	Layouter layout.Layouter `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Forest is the built forest.
	Forest *tree.Forest

	// ForestHash is the content hash of the serialized forest.
	ForestHash string

	// Visible is the reduced graph.
	Visible *visible.Graph

	// Positions holds the layout centers keyed by node key.
	Positions layout.Positions

	// Path is the active path of the focus node.
	Path path.Path

	// View is the serializable view of Visible, Positions and Path.
	View graph.View

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	VisibleCount int
	HiddenCount  int
	IssueCount   int
	BuildTime    time.Duration
	ViewTime     time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the forest came from cache
	LayoutHit bool // Whether positions came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateGrouping checks that a grouping mode is valid.
func ValidateGrouping(grouping string) error {
	if !ValidGroupings[grouping] {
		return fmt.Errorf("invalid grouping: %q (must be one of: plain, stage)", grouping)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForView(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild validates and sets defaults for building.
func (o *Options) ValidateForBuild() error {
	if o.Grouping == "" {
		o.Grouping = DefaultGrouping
	}
	if o.MaxDepth < 0 {
		return fmt.Errorf("max_depth cannot be negative")
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = tree.DefaultMaxDepth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateGrouping(o.Grouping)
}

// SetViewDefaults sets default values for reduction and layout.
func (o *Options) SetViewDefaults() {
	if o.Cap == 0 {
		o.Cap = DefaultCap
	}
	if o.Layouter == nil {
		o.Layouter = layout.Tidy{}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForView validates and sets defaults for reduction and layout.
func (o *Options) ValidateForView() error {
	o.SetViewDefaults()
	if o.Cap < 0 {
		return fmt.Errorf("cap must be at least 1, got %d", o.Cap)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.RankDir == "" {
		o.RankDir = DefaultRankDir
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering. RankDir is
// upper-cased and must be one of ValidRankDirs.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	o.RankDir = strings.ToUpper(o.RankDir)
	if !ValidRankDirs[o.RankDir] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid rankdir %q (must be one of: TB, LR, BT, RL)", o.RankDir)
	}
	return ValidateFormats(o.Formats)
}

// IsGrouped returns true if opportunities are bucketed by stage.
func (o *Options) IsGrouped() bool {
	return o.Grouping == GroupingStage
}

// TreeOptions returns the forest builder options.
func (o *Options) TreeOptions() tree.Options {
	return tree.Options{MaxDepth: o.MaxDepth, Stages: o.Stages}
}

// VisibleOptions returns the reducer options. Collapsed and expanded keys
// become sets.
func (o *Options) VisibleOptions() visible.Options {
	return visible.Options{
		Collapsed: toSet(o.Collapsed),
		Expanded:  toSet(o.Expanded),
		Cap:       o.Cap,
	}
}

// ForestKeyOpts returns cache key options for forest building.
func (o *Options) ForestKeyOpts() cache.ForestKeyOpts {
	var stages []string
	for _, s := range o.Stages {
		stages = append(stages, s.ID+"="+s.Label)
	}
	return cache.ForestKeyOpts{
		Grouping: o.Grouping,
		MaxDepth: o.MaxDepth,
		Stages:   stages,
	}
}

// ViewKeyOpts returns cache key options for layout. The focus does not
// move any node, so it is left out.
func (o *Options) ViewKeyOpts() cache.ViewKeyOpts {
	return cache.ViewKeyOpts{
		Cap:       o.Cap,
		Collapsed: sortedCopy(o.Collapsed),
		Expanded:  sortedCopy(o.Expanded),
		Layout:    fmt.Sprintf("%#v", o.Layouter),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
		RankDir:  o.RankDir,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}

func toSet(keys []string) map[string]bool {
	if len(keys) == 0 {
		return nil
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

func sortedCopy(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := slices.Clone(s)
	slices.Sort(out)
	return slices.Compact(out)
}
