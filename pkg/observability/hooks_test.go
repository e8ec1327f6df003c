package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type countingPipeline struct {
	NoopPipelineHooks
	builds int
}

func (h *countingPipeline) OnBuildStart(context.Context, string, int) { h.builds++ }

type countingCache struct {
	NoopCacheHooks
	hits []string
}

func (h *countingCache) OnCacheHit(_ context.Context, stage string) { h.hits = append(h.hits, stage) }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T", HTTP())
	}
}

func TestSetAndReset(t *testing.T) {
	t.Cleanup(Reset)

	p := &countingPipeline{}
	SetPipelineHooks(p)
	SetPipelineHooks(nil)
	Pipeline().OnBuildStart(context.Background(), "plain", 2)
	Pipeline().OnBuildStart(context.Background(), "stage", 1)
	if p.builds != 2 {
		t.Errorf("builds = %d, want 2", p.builds)
	}

	c := &countingCache{}
	SetCacheHooks(c)
	Cache().OnCacheHit(context.Background(), "layout")
	Cache().OnCacheMiss(context.Background(), "forest")
	if strings.Join(c.hits, ",") != "layout" {
		t.Errorf("hits = %v", c.hits)
	}

	Reset()
	Pipeline().OnBuildStart(context.Background(), "plain", 1)
	if p.builds != 2 {
		t.Error("hooks still installed after Reset")
	}
}

func TestRegister(t *testing.T) {
	t.Cleanup(Reset)

	if Register(struct{}{}) {
		t.Error("Register accepted a value with no hook methods")
	}

	c := &countingCache{}
	if !Register(c) {
		t.Fatal("Register rejected cache hooks")
	}
	if Cache() != CacheHooks(c) {
		t.Error("cache hooks not installed")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("pipeline hooks replaced by a cache-only value")
	}

	h := NewLogHooks(log.New(&bytes.Buffer{}))
	Register(h)
	if Pipeline() != PipelineHooks(h) || Cache() != CacheHooks(h) || HTTP() != HTTPHooks(h) {
		t.Error("LogHooks should be installed for all three sets")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&buf)
	l.SetLevel(log.DebugLevel)
	h := NewLogHooks(l)
	ctx := context.Background()

	h.OnBuildComplete(ctx, "stage", 15, 0, time.Millisecond, nil)
	h.OnRenderComplete(ctx, "svg", 0, time.Millisecond, errors.New("boom"))
	h.OnCacheSet(ctx, "artifact", 42)
	h.OnResponse(ctx, "GET", "/view", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"build done", "nodes=15", "render failed", "err=boom", "cache set", "bytes=42", "status=200", "obs"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.New(&buf))
	h.OnCacheMiss(context.Background(), "forest")
	if buf.Len() != 0 {
		t.Errorf("unexpected output at info level: %q", buf.String())
	}
}
