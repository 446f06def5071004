package app

import (
	"context"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
)

var _ ports.ProblemHandler = (*problemReporter)(nil)

// problemReporter turns configure precondition problems into log lines. It
// never blocks the driver; the CLI has no interactive recovery to offer.
type problemReporter struct {
	logger ports.Logger
}

func (r *problemReporter) HandleProblem(_ context.Context, problem domain.ConfigureProblem, detail string) error {
	msg := problemMessage(problem)
	if detail != "" {
		msg += ": " + detail
	}
	r.logger.Warn(msg)
	return nil
}

func problemMessage(problem domain.ConfigureProblem) string {
	switch problem {
	case domain.ProblemConfigureRunning:
		return "a configure is already running"
	case domain.ProblemBuildRunning:
		return "a build is already running"
	case domain.ProblemNoSourceDirectory:
		return "no source directory found"
	case domain.ProblemMissingCMakeLists:
		return "no CMakeLists.txt in the source directory"
	default:
		return string(problem)
	}
}
