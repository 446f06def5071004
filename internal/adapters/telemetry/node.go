package telemetry

import (
	"context"
	"io"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/mason/internal/core/ports"
)

// NodeID is the unique identifier for the tracer Graft node.
const NodeID graft.ID = "adapter.tracer"

// TraceFileEnv names the environment variable selecting a span output file.
const TraceFileEnv = "MASON_TRACE"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			var w io.Writer
			if path := os.Getenv(TraceFileEnv); path != "" {
				f, err := os.Create(path) // #nosec G304 -- user chose the trace file
				if err != nil {
					return nil, err
				}
				w = f
			}
			return NewTracer("mason", w)
		},
	})
}
