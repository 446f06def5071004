package probe

import "go.trai.ch/mason/internal/core/ports"

// NewProberForTest builds a Prober with injected lookup and host platform.
func NewProberForTest(logger ports.Logger, lookPath func(string) (string, error), hostOS string) *Prober {
	return &Prober{logger: logger, lookPath: lookPath, hostOS: hostOS}
}
