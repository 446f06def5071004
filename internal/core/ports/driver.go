package ports

import (
	"context"

	"go.trai.ch/mason/internal/core/domain"
)

// ConfigureRequest carries everything one configure invocation needs.
type ConfigureRequest struct {
	Trigger domain.ConfigureTrigger

	// ExtraArgs are appended after all driver-constructed arguments.
	ExtraArgs []string

	// Consumer receives the tool output; nil discards it.
	Consumer OutputConsumer

	// UseCachedConfiguration requests the fast path that skips invoking the
	// generator tool entirely. Honored only for the first configure of a
	// session when configure-on-open is off.
	UseCachedConfiguration bool
}

// Driver is the build configuration orchestrator for one project root.
// Exactly one driver exists per root; configure, build and test are mutually
// exclusive per session and a second caller is rejected, never queued.
//
//go:generate mockgen -source=driver.go -destination=mocks/mock_driver.go -package=mocks
type Driver interface {
	// Configure runs the configure lifecycle and returns the tool's exit
	// code, one of the reserved negative codes for precondition failures, or
	// -1 for any caught fault. It never propagates a fault as an error
	// besides context cancellation.
	Configure(ctx context.Context, req ConfigureRequest) (int, error)

	// Build builds the given targets, or the generator's "everything" target
	// when none are given. It returns domain.ErrNoBuildProgram when no build
	// invocation could be constructed; callers must treat that distinctly
	// from a nonzero exit code.
	Build(ctx context.Context, targets []string, consumer OutputConsumer) (int, error)

	// TestCommand constructs the ctest argument vector for the current
	// configuration without running it.
	TestCommand() ([]string, error)

	// Stop requests termination of the running operation, if any, and tells
	// the persistent protocol client (when present) to restart on next use.
	// Safe to call when nothing is running.
	Stop(ctx context.Context) error

	// SetKit switches the active kit, removing the persisted cache first
	// when the switch requires a clean reconfigure.
	SetKit(ctx context.Context, kit *domain.Kit) error

	// SetVariant switches the active variant.
	SetVariant(ctx context.Context, variant *domain.Variant) error

	// SetPreset switches the session to preset-driven mode with the given
	// configure/build/test triple; the zero triple returns to kit-driven
	// mode.
	SetPreset(ctx context.Context, presets domain.SelectedPresets) error

	// Generator returns the generator of the current configuration, nil
	// before one has been resolved.
	Generator() *domain.Generator

	// CacheEntries returns the last parsed cache snapshot.
	CacheEntries() []domain.CacheEntry

	// CodeModel returns the last code model snapshot, nil before the first
	// successful configure.
	CodeModel() *domain.CodeModel

	// NeedsReconfigure reports whether the inputs of the last configure went
	// stale. True when the session has never configured.
	NeedsReconfigure() bool

	// InputFiles returns the paths the last configure consumed, nil before
	// the first successful configure.
	InputFiles() []string

	// OnCodeModelChanged registers a callback invoked synchronously after
	// each code model replacement. The returned function unsubscribes.
	OnCodeModelChanged(fn func(*domain.CodeModel)) func()

	// Dispose tears the session down, including the protocol client.
	Dispose(ctx context.Context) error
}
