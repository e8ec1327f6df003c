package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level     log.Level
		wantDebug bool
	}{
		{log.InfoLevel, false},
		{log.DebugLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)

			l.Debug("fine detail")
			if got := strings.Contains(buf.String(), "fine detail"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			l.Info("built forest")
			if !strings.Contains(buf.String(), "built forest") {
				t.Error("info line missing")
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.done("built forest", "nodes", 15)

	out := buf.String()
	for _, want := range []string{"built forest", "nodes=15", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("bare context should yield the default logger")
	}

	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("attached logger not returned")
	}
}
