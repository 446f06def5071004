package telemetry

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracerExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	tracer, err := NewTracer("mason-test", &buf)
	require.NoError(t, err)

	ctx, span := tracer.StartSpan(context.Background(), "configure")
	require.NotNil(t, ctx)
	span.SetAttr("generator", "Ninja")
	span.SetAttr("jobs", 4)
	span.SetAttr("fresh", true)
	span.End(nil)

	require.NoError(t, tracer.Shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "configure")
	assert.Contains(t, out, "generator")
	assert.Contains(t, out, "Ninja")
}

func TestTracerRecordsError(t *testing.T) {
	var buf bytes.Buffer
	tracer, err := NewTracer("mason-test", &buf)
	require.NoError(t, err)

	_, span := tracer.StartSpan(context.Background(), "build")
	span.End(errors.New("compiler exited with code 2"))

	require.NoError(t, tracer.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "compiler exited with code 2")
}

func TestTracerWithoutExporter(t *testing.T) {
	tracer, err := NewTracer("mason-test", nil)
	require.NoError(t, err)

	_, span := tracer.StartSpan(context.Background(), "noop")
	span.SetAttr("anything", struct{}{})
	span.End(nil)

	assert.NoError(t, tracer.Shutdown(context.Background()))
}
