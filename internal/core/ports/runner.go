package ports

import "context"

// RunRequest describes one subprocess invocation.
type RunRequest struct {
	Program string
	Args    []string
	Dir     string
	// Env is the full environment in "KEY=VALUE" form; nil inherits the
	// process environment.
	Env []string
}

// Runner executes subprocesses and streams their output.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type Runner interface {
	// Run starts the process, streams stdout/stderr lines to the consumer
	// and waits for exit. It returns the exit code; a negative code with a
	// non-nil error means the process could not be started or was killed.
	Run(ctx context.Context, req RunRequest, consumer OutputConsumer) (int, error)

	// Capture runs the process and returns its combined output, for short
	// probing invocations such as compiler version queries.
	Capture(ctx context.Context, req RunRequest) (string, error)

	// Kill terminates the most recently started process of this runner, if
	// one is still attached. Safe to call when nothing is running.
	Kill() error
}
