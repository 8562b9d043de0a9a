package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const instrumentationName = "ctchen222/tictactoe-bot"

// MultiHandler is a slog.Handler that dispatches records to multiple handlers.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler creates a new MultiHandler.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// Enabled reports whether the handler handles records at the given level.
// The handler is enabled if any of its underlying handlers is enabled.
func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle dispatches the record to every underlying handler enabled for its
// level. A failing handler does not stop the others.
func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs returns a new MultiHandler whose handlers have the given attributes.
func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return NewMultiHandler(newHandlers...)
}

// WithGroup returns a new MultiHandler whose handlers have the given group.
func (h *MultiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return NewMultiHandler(newHandlers...)
}

// Options controls Init.
type Options struct {
	Level slog.Level
	// Writer receives console output; defaults to os.Stderr.
	Writer io.Writer
	// Otel also forwards records to the OpenTelemetry log bridge.
	Otel bool
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// New builds a logger backed by the console and, optionally, OpenTelemetry.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(w, &slog.HandlerOptions{
			AddSource: true, // Include source file and line number
			Level:     opts.Level,
		}),
	}
	if opts.Otel {
		handlers = append(handlers, otelslog.NewHandler(instrumentationName))
	}

	return slog.New(NewMultiHandler(handlers...))
}

// Init installs New(opts) as the global slog logger.
func Init(opts Options) *slog.Logger {
	l := New(opts)
	slog.SetDefault(l)
	return l
}
