// Package pkg holds the libraries behind opptree, which turns a document of
// goals, opportunities, solutions and experiments into a navigable tree.
//
// # Data Flow
//
//	records.json / records.toml (+ overrides)
//	         ↓
//	    [io]            read and validate the document
//	         ↓
//	    [core/tree]     materialize records into a forest, optionally grouped by stage
//	         ↓
//	    [core/visible]  apply collapse, expand and the per-parent child cap
//	         ↓
//	    [core/layout]   place visible nodes with a tidy-tree layout
//	         ↓
//	    [render/nodelink] + [graph]   DOT, SVG, PNG, PDF and JSON output
//
// [core/path] computes the active path from a focused node back to its goal
// and down to its leaves; the renderers highlight it.
//
// # Quick Start
//
//	doc, _ := docio.ReadFile("records.json")
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, nil)
//	result, _ := runner.Execute(ctx, doc, pipeline.Options{
//	    Grouping: "stage",
//	    Cap:      8,
//	    Focus:    "solution:s1",
//	    Formats:  []string{"svg"},
//	})
//	os.WriteFile("tree.svg", result.Artifacts["svg"], 0o644)
//
// # Packages
//
// Domain logic:
//
//   - [core/key]: node keys ("kind:id"), group, overflow and edge ids
//   - [core/record]: record types, overrides and validation
//   - [core/tree]: forest construction, stages and [tree.Find]
//   - [core/visible]: the reducer producing the visible graph
//   - [core/path]: active path computation
//   - [core/layout]: node sizes and tidy-tree positions
//
// Around them:
//
//   - [pipeline]: build → reduce → layout → render with stage caching
//   - [cache]: null, memory and file caches plus key derivation
//   - [config]: TOML configuration for the CLI
//   - [graph]: JSON interchange types for forests and views
//   - [observability]: hook interfaces for builds, caches and HTTP
//   - [errors]: coded errors shared by the CLI and the preview server
//   - [buildinfo]: version metadata set at link time
//
// [core/key]: https://pkg.go.dev/github.com/matzehuels/opptree/pkg/core/key
// [core/record]: https://pkg.go.dev/github.com/matzehuels/opptree/pkg/core/record
// [core/tree]: https://pkg.go.dev/github.com/matzehuels/opptree/pkg/core/tree
// [tree.Find]: https://pkg.go.dev/github.com/matzehuels/opptree/pkg/core/tree#Find
// [core/visible]: https://pkg.go.dev/github.com/matzehuels/opptree/pkg/core/visible
// [core/path]: https://pkg.go.dev/github.com/matzehuels/opptree/pkg/core/path
// [core/layout]: https://pkg.go.dev/github.com/matzehuels/opptree/pkg/core/layout
// [io]: https://pkg.go.dev/github.com/matzehuels/opptree/pkg/io
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/opptree/pkg/render/nodelink
// [graph]: https://pkg.go.dev/github.com/matzehuels/opptree/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/opptree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/opptree/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/opptree/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/opptree/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/opptree/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/opptree/pkg/buildinfo
package pkg
