// Package cli implements the opptree command-line interface.
//
// The commands build opportunity trees from record documents (JSON or
// TOML), reduce them to what fits on screen, and write the result as
// JSON, diagrams, terminal trees or an interactive browser. The CLI is
// built using cobra and logs via the charmbracelet/log library.
//
// # Commands
//
//   - build: Materialize the forest and report issues
//   - visible: Write the reduced, laid out view as JSON
//   - path: Print the active path of a focus node
//   - find: Locate a record by node key
//   - render: Generate DOT, SVG, PNG, PDF or JSON output
//   - tree: Print the visible forest as a terminal tree
//   - browse: Explore the forest interactively
//   - sample: Generate a sample document
//   - serve: Preview a document over HTTP
//
// # Configuration
//
// Defaults come from $XDG_CONFIG_HOME/opptree/opptree.toml, or the file
// named by --config. Explicit flags win over the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w at level, with centisecond
// timestamps such as "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one operation for a closing log line.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and the elapsed time, rounded
// to the millisecond.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type loggerKey struct{}

// withLogger attaches l to ctx for commands that only receive a context.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
