// Package cli implements the spotlight command-line interface.
//
// The commands tile aspect ratios into rows, lay out manifests and image
// directories, resolve scroll offsets against saved layouts, browse layouts
// in the terminal, manage stored snapshots and the layout cache, and run the
// HTTP API. The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - tile: Compute row breakpoints for a list of aspect ratios
//   - layout: Lay out a manifest or image directory and write layout JSON
//   - closest: Find the row nearest to a vertical offset
//   - browse: Scroll through a layout interactively
//   - serve: Run the HTTP API
//   - snapshot: Inspect and prune stored layouts
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Configuration
//
// Defaults come from ~/.config/spotlight/config.toml, or the file given with
// --config. Flags override file values.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level, with timestamps such as
// "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command step.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and the elapsed time rounded to
// the millisecond, e.g. "Laid out items=420 rows=97 duration=12ms".
func (p *progress) done(msg string, keyvals ...any) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(msg, append(keyvals, "duration", elapsed)...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for the subcommands.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
