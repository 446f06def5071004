package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
)

func newTestLogger(t *testing.T) (*Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	l, ok := New().(*Logger)
	require.True(t, ok)
	var buf bytes.Buffer
	l.SetOutput(&buf)
	return l, &buf
}

func TestInfoAndWarn(t *testing.T) {
	l, buf := newTestLogger(t)

	l.Info("configured in 1.2s")
	l.Warn("generator not found, falling back")

	out := buf.String()
	assert.Contains(t, out, "configured in 1.2s")
	assert.Contains(t, out, "generator not found, falling back")
}

func TestDebugSuppressedByDefault(t *testing.T) {
	l, buf := newTestLogger(t)

	l.Debug("hidden")
	assert.NotContains(t, buf.String(), "hidden")

	l.SetDebug(true)
	l.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestErrorFormatsChain(t *testing.T) {
	l, buf := newTestLogger(t)

	inner := zerr.New("cache file unreadable")
	err := zerr.Wrap(inner, "configure failed")
	l.Error(err)

	out := buf.String()
	assert.Contains(t, out, "Error: configure failed")
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, "cache file unreadable")
}

func TestErrorNilIsNoop(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Error(nil)
	assert.Empty(t, buf.String())
}

func TestJSONMode(t *testing.T) {
	l, buf := newTestLogger(t)
	l.SetJSON(true)

	l.Info("building target app")

	line := strings.TrimSpace(buf.String())
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &record))
	assert.Equal(t, "building target app", record["msg"])
}
