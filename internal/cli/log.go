// Package cli implements the seqdia command-line interface.
//
// The CLI is built using cobra and wraps the diagram engine for three kinds
// of use: a live editor served over HTTP, a live editor in the terminal, and
// one-shot conversions of diagram files.
//
// # Commands
//
// The main commands are:
//   - serve: Run the browser editor and the JSON API
//   - edit: Edit a diagram in the terminal with live diagnostics
//   - render: Render diagram files to SVG, DOT or PNG
//   - encode, decode: Convert between source text and share fragments
//   - check: Report the first error in each diagram file
//   - cache: Manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs engine, cache and session events. Loggers are passed through
// context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqdia/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered 3 diagrams (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability
// =============================================================================

// logHooks forwards observability events to a logger at debug level.
type logHooks struct {
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l.WithPrefix("events")}
	observability.SetEngineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetSessionHooks(h)
}

func (h logHooks) OnRenderStart(_ context.Context, sourceBytes int) {
	h.logger.Debug("render start", "bytes", sourceBytes)
}

func (h logHooks) OnRenderComplete(_ context.Context, svgBytes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "duration", d, "err", err)
		return
	}
	h.logger.Debug("render done", "svg", svgBytes, "duration", d)
}

func (h logHooks) OnDecode(_ context.Context, fragmentBytes int, err error) {
	h.logger.Debug("decode", "bytes", fragmentBytes, "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "size", size)
}

func (h logHooks) OnSessionOpen(_ context.Context, id string) {
	h.logger.Debug("session open", "id", id)
}

func (h logHooks) OnSessionEvent(_ context.Context, id, kind string, d time.Duration, err error) {
	h.logger.Debug("session event", "id", id, "kind", kind, "duration", d, "err", err)
}

func (h logHooks) OnSessionClose(_ context.Context, id string, events int) {
	h.logger.Debug("session close", "id", id, "events", events)
}

var (
	_ observability.EngineHooks  = logHooks{}
	_ observability.CacheHooks   = logHooks{}
	_ observability.SessionHooks = logHooks{}
)
