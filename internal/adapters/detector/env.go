// Package detector provides environment detection for output mode selection.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeInteractive enables colors and progress output.
	ModeInteractive
	// ModePlain forces plain chronological output for CI and pipes.
	ModePlain
)

// DetectEnvironment returns the recommended output mode. Pipes and CI get
// plain output.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModePlain
	}
	return ModeInteractive
}

// ResolveMode applies the user override flag to auto-detection. userFlag
// should be one of: "auto", "interactive", "plain", "ci", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "interactive":
		return ModeInteractive
	case "plain", "ci":
		return ModePlain
	default:
		return autoDetected
	}
}
