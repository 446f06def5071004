package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(level slog.Level, msg string, attrs ...slog.Attr) slog.Record {
	r := slog.NewRecord(time.Now(), level, msg, 0)
	r.AddAttrs(attrs...)
	return r
}

func TestPrettyHandlerLevels(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil)

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))

	require.NoError(t, h.Handle(context.Background(), record(slog.LevelWarn, "careful")))
	assert.Contains(t, buf.String(), "! careful")
}

func TestPrettyHandlerAttrsAndGroup(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer

	var h slog.Handler = NewPrettyHandler(&buf, nil)
	h = h.WithGroup("configure")
	h = h.WithAttrs([]slog.Attr{slog.String("generator", "Ninja")})

	require.NoError(t, h.Handle(context.Background(), record(slog.LevelInfo, "starting", slog.Int("jobs", 4))))

	out := buf.String()
	assert.Contains(t, out, "starting")
	assert.Contains(t, out, "configure.generator=Ninja")
	assert.Contains(t, out, "configure.jobs=4")
}
