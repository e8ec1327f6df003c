package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// all three hook sets.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to l, or to log.Default when l is nil.
// Events are prefixed with "obs".
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{logger: l.WithPrefix("obs")}
}

func (h *LogHooks) OnBuildStart(_ context.Context, grouping string, goals int) {
	h.logger.Debug("build start", "grouping", grouping, "goals", goals)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, grouping string, nodes, issues int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "grouping", grouping, "duration", d, "err", err)
		return
	}
	h.logger.Debug("build done", "grouping", grouping, "nodes", nodes, "issues", issues, "duration", d)
}

func (h *LogHooks) OnReduceComplete(_ context.Context, visible, hidden int, d time.Duration) {
	h.logger.Debug("reduce done", "visible", visible, "hidden", hidden, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("render start", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "format", format, "duration", d, "err", err)
		return
	}
	h.logger.Debug("render done", "format", format, "bytes", size, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, stage string) {
	h.logger.Debug("cache hit", "stage", stage)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, stage string) {
	h.logger.Debug("cache miss", "stage", stage)
}

func (h *LogHooks) OnCacheSet(_ context.Context, stage string, size int) {
	h.logger.Debug("cache set", "stage", stage, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
