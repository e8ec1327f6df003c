// Package observability lets a binary watch the pipeline without the
// engine packages depending on a metrics or tracing backend.
//
// Three hook sets cover the events worth measuring:
//
//   - [PipelineHooks]: forest builds, reductions and renders
//   - [CacheHooks]: hits, misses and writes per stage ("forest", "layout",
//     "artifact")
//   - [HTTPHooks]: requests to the preview server
//
// Every set defaults to a no-op. The binary registers real hooks once at
// startup, before any pipeline work; libraries only emit:
//
//	observability.Pipeline().OnBuildStart(ctx, grouping, len(goals))
//
// [Register] installs a value for each hook set it implements, so one
// type such as [LogHooks] can observe everything:
//
//	observability.Register(observability.NewLogHooks(logger))
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks observes the build, reduce and render stages.
type PipelineHooks interface {
	OnBuildStart(ctx context.Context, grouping string, goals int)
	OnBuildComplete(ctx context.Context, grouping string, nodes, issues int, duration time.Duration, err error)

	// OnReduceComplete fires after reduction; hidden counts children held
	// by overflow nodes.
	OnReduceComplete(ctx context.Context, visible, hidden int, duration time.Duration)

	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// CacheHooks observes stage cache lookups. stage names the cached result.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, stage string)
	OnCacheMiss(ctx context.Context, stage string)
	OnCacheSet(ctx context.Context, stage string, size int)
}

// HTTPHooks observes preview server traffic.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, status int, duration time.Duration)
}

// NoopPipelineHooks ignores every event. Embed it to implement only some
// methods.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnBuildStart(context.Context, string, int)                              {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, string, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnReduceComplete(context.Context, int, int, time.Duration)              {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                                  {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error)    {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var hooks = registry{
	pipeline: NoopPipelineHooks{},
	cache:    NoopCacheHooks{},
	http:     NoopHTTPHooks{},
}

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.pipeline = h
	hooks.mu.Unlock()
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.cache = h
	hooks.mu.Unlock()
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.http = h
	hooks.mu.Unlock()
}

// Register installs h for every hook set it implements and reports
// whether it implemented any.
func Register(h any) bool {
	ok := false
	if p, is := h.(PipelineHooks); is {
		SetPipelineHooks(p)
		ok = true
	}
	if c, is := h.(CacheHooks); is {
		SetCacheHooks(c)
		ok = true
	}
	if x, is := h.(HTTPHooks); is {
		SetHTTPHooks(x)
		ok = true
	}
	return ok
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.pipeline
}

// Cache returns the installed cache hooks.
func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.http
}

// Reset reinstalls the no-op hooks. Tests that register hooks call it in
// cleanup.
func Reset() {
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.pipeline = NoopPipelineHooks{}
	hooks.cache = NoopCacheHooks{}
	hooks.http = NoopHTTPHooks{}
}
