package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingHandler struct {
	slog.Handler
	calls int
}

func (h *failingHandler) Handle(context.Context, slog.Record) error {
	h.calls++
	return errors.New("sink unavailable")
}

func TestMultiHandler_RespectsLevels(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	l := slog.New(h)

	l.Debug("thinking", "move.index", 4)
	l.Warn("slow search")

	assert.Contains(t, debugBuf.String(), "thinking")
	assert.Contains(t, debugBuf.String(), "slow search")
	assert.NotContains(t, warnBuf.String(), "thinking")
	assert.Contains(t, warnBuf.String(), "slow search")
}

func TestMultiHandler_Enabled(t *testing.T) {
	h := NewMultiHandler(
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
	assert.False(t, NewMultiHandler().Enabled(context.Background(), slog.LevelError))
}

func TestMultiHandler_ContinuesAfterError(t *testing.T) {
	var buf bytes.Buffer
	failing := &failingHandler{Handler: slog.NewTextHandler(&bytes.Buffer{}, nil)}
	h := NewMultiHandler(failing, slog.NewTextHandler(&buf, nil))

	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "bot chose move", 0)
	err := h.Handle(context.Background(), r)

	require.Error(t, err)
	assert.Equal(t, 1, failing.calls)
	assert.Contains(t, buf.String(), "bot chose move")
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewMultiHandler(slog.NewTextHandler(&buf, nil)))

	l.With("bot.mark", "O").WithGroup("move").Info("picked", "index", 2)

	out := buf.String()
	assert.Contains(t, out, "bot.mark=O")
	assert.Contains(t, out, "move.index=2")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestInit_SetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Init(Options{Level: slog.LevelDebug, Writer: &buf})
	slog.Debug("hello from init")

	assert.Contains(t, buf.String(), "hello from init")
	assert.Contains(t, buf.String(), "source=")
}
