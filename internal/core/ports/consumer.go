package ports

import (
	"context"

	"go.trai.ch/mason/internal/core/domain"
)

// OutputConsumer receives the generator tool's output line by line.
//
//go:generate mockgen -source=consumer.go -destination=mocks/mock_consumer.go -package=mocks
type OutputConsumer interface {
	// Output receives one stdout line, without the trailing newline.
	Output(line string)

	// Error receives one stderr line, without the trailing newline.
	Error(line string)
}

// DiagnosticCounts is the error/warning tally a consumer parsed from output.
type DiagnosticCounts struct {
	Errors   int
	Warnings int
}

// DiagnosticConsumer is an OutputConsumer that additionally counts tool
// diagnostics for telemetry.
type DiagnosticConsumer interface {
	OutputConsumer

	// Counts returns the diagnostics tallied so far.
	Counts() DiagnosticCounts
}

// ProblemHandler is invoked for configure precondition failures before any
// tool invocation. The handler may prompt the user and suspend; the driver
// stays reentrant-safe while it does, but admits no second operation.
type ProblemHandler interface {
	// HandleProblem reports a named precondition problem. The detail string
	// carries optional context such as the missing path.
	HandleProblem(ctx context.Context, problem domain.ConfigureProblem, detail string) error
}
