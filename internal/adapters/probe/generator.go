// Package probe detects usable generators and classifies compiler
// front-ends. Probe results are cached process-wide by executable name;
// probes are idempotent and side-effect free, so the cache is shared safely
// across driver sessions.
package probe

import (
	"os/exec"
	"runtime"
	"sync"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
)

// execCache memoizes executable lookups across all sessions.
var execCache sync.Map // executable name -> bool

// Prober answers generator availability questions for the driver.
type Prober struct {
	logger ports.Logger

	// lookPath is swappable for tests.
	lookPath func(name string) (string, error)

	// hostOS is swappable for tests; defaults to runtime.GOOS.
	hostOS string
}

// NewProber creates a Prober using the real PATH lookup.
func NewProber(logger ports.Logger) *Prober {
	return &Prober{
		logger:   logger,
		lookPath: exec.LookPath,
		hostOS:   runtime.GOOS,
	}
}

// ExecutableAvailable reports whether the named executable is on PATH,
// consulting the process-wide cache first.
func (p *Prober) ExecutableAvailable(name string) bool {
	if cached, ok := execCache.Load(name); ok {
		return cached.(bool)
	}
	_, err := p.lookPath(name)
	available := err == nil
	execCache.Store(name, available)
	return available
}

// Usable reports whether one generator candidate can be offered on this
// host. Candidates bound to a different host platform are rejected without
// probing.
func (p *Prober) Usable(c domain.GeneratorCandidate) bool {
	if c.HostPlatform != "" && c.HostPlatform != p.hostOS {
		return false
	}
	if c.Executable == "" {
		// IDE generators locate their own build tool.
		return true
	}
	return p.ExecutableAvailable(c.Executable)
}

// FindUsable tries the candidate generator names in order and returns the
// first usable one. Unknown names are skipped with a debug log, not an error,
// so user settings can name generators this build does not know about.
func (p *Prober) FindUsable(names []string) (*domain.Generator, error) {
	for _, name := range names {
		candidate, known := domain.FindGeneratorCandidate(name)
		if !known {
			p.logger.Debug("skipping unknown generator " + name)
			continue
		}
		if p.Usable(candidate) {
			gen := candidate.Generator
			return &gen, nil
		}
	}
	return nil, domain.Detail(domain.ErrNoGeneratorFound, "candidates", names)
}
