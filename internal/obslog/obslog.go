// Package obslog is noteweave's ambient logging seam: a package-level
// ContextWithLogger/FromContext pair plus a NewLogger constructor, grounded
// on the reference CLI's pkg/log package. Core graph packages accept a
// context.Context and log through FromContext; none constructs its own
// logger.
package obslog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Config configures NewLogger.
type Config struct {
	Version string

	// Out defaults to os.Stderr when nil.
	Out io.Writer

	Level slog.Level
	JSON  bool
}

// NewLogger builds a *slog.Logger from cfg: a text handler by default, a
// JSON handler when cfg.JSON is set.
func NewLogger(cfg Config) *slog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	hn, _ := os.Hostname()
	return slog.New(handler).With(
		slog.String("version", cfg.Version),
		slog.String("host", hn),
		slog.Int("pid", os.Getpid()),
	)
}

// ParseLevel maps the CLI's --log-level flag value to a slog.Level,
// defaulting to Info on an unrecognized name.
func ParseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type ctxKeyType struct{}

var ctxKey ctxKeyType

// ContextWithLogger stores lg on ctx.
func ContextWithLogger(ctx context.Context, lg *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey, lg)
}

// FromContext returns the logger stored on ctx, or slog.Default() if none
// was stored (or ctx is nil).
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if v := ctx.Value(ctxKey); v != nil {
		if lg, ok := v.(*slog.Logger); ok && lg != nil {
			return lg
		}
	}
	return slog.Default()
}

// LoggedEntry is one captured record, for test assertions.
type LoggedEntry struct {
	Level slog.Level
	Msg   string
}

// TestHandler captures structured entries for assertions instead of writing
// them anywhere, grounded on the reference CLI's pkg/log.TestHandler.
type TestHandler struct {
	mu      sync.Mutex
	Entries []LoggedEntry
}

// NewTestHandler returns an empty TestHandler.
func NewTestHandler() *TestHandler {
	return &TestHandler{}
}

func (h *TestHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *TestHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Entries = append(h.Entries, LoggedEntry{Level: r.Level, Msg: r.Message})
	return nil
}

func (h *TestHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *TestHandler) WithGroup(string) slog.Handler      { return h }

// Snapshot returns a copy of the entries captured so far.
func (h *TestHandler) Snapshot() []LoggedEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]LoggedEntry(nil), h.Entries...)
}

// NewTestLogger returns a logger backed by a fresh TestHandler, and the
// handler itself for assertions.
func NewTestLogger() (*slog.Logger, *TestHandler) {
	th := NewTestHandler()
	return slog.New(th), th
}

var _ slog.Handler = (*TestHandler)(nil)
