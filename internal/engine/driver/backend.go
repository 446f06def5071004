package driver

import (
	"context"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
)

// backend is the capability surface a configure strategy must provide. Two
// implementations exist: a one-shot subprocess per configure reading results
// through the file api, and a persistent protocol server queried directly.
type backend interface {
	// Configure runs configure and generate, streaming tool output to the
	// consumer, and returns the tool exit code.
	Configure(ctx context.Context, s *session, args []string, consumer ports.OutputConsumer) (int, error)

	// CodeModel reads the code model of the last successful configure.
	CodeModel(ctx context.Context, s *session) (*domain.CodeModel, error)

	// InputFiles reads the files the last configure consumed, for staleness
	// tracking. Tool-owned and generated files are already filtered out.
	InputFiles(ctx context.Context, s *session) ([]string, error)

	// Dispose releases the backend's resources.
	Dispose(ctx context.Context) error
}
