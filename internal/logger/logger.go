// Package logger is the process-wide structured logger for pagemd.
// Diagnostics go to stderr through log/slog; user-facing progress lines
// are printed by the CLI and never pass through here.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	current *slog.Logger
	mu      sync.RWMutex
)

func init() {
	current = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// Options configures the logger.
type Options struct {
	Debug  bool      // debug and above
	Quiet  bool      // errors only; wins over Debug
	JSON   bool      // JSON lines instead of key=value text
	Output io.Writer // defaults to stderr
	// Logger replaces the handler entirely, e.g. in tests or when pagemd
	// is embedded in another program.
	Logger *slog.Logger
}

// Init replaces the process logger.
func Init(opts Options) {
	mu.Lock()
	defer mu.Unlock()

	if opts.Logger != nil {
		current = opts.Logger
		return
	}

	level := slog.LevelWarn
	switch {
	case opts.Quiet:
		level = slog.LevelError
	case opts.Debug:
		level = slog.LevelDebug
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if opts.JSON {
		current = slog.New(slog.NewJSONHandler(out, handlerOpts))
		return
	}
	current = slog.New(slog.NewTextHandler(out, handlerOpts))
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Debug logs at debug level.
func Debug(msg string, args ...any) { get().Debug(msg, args...) }

// Info logs at info level.
func Info(msg string, args ...any) { get().Info(msg, args...) }

// Warn logs at warn level.
func Warn(msg string, args ...any) { get().Warn(msg, args...) }

// Error logs at error level.
func Error(msg string, args ...any) { get().Error(msg, args...) }

// DebugContext logs at debug level with a context.
func DebugContext(ctx context.Context, msg string, args ...any) {
	get().DebugContext(ctx, msg, args...)
}

// With returns a child logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return get().With(args...)
}
