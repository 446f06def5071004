package console

import "regexp"

// Severity classifies one tool output line.
type Severity int

const (
	// SeverityNone is regular output.
	SeverityNone Severity = iota
	// SeverityWarning is a compiler or tool warning.
	SeverityWarning
	// SeverityError is a compiler or tool error.
	SeverityError
)

// Diagnostic line shapes of the toolchains mason drives. The GNU pattern
// covers gcc and clang, the MSVC pattern cl and link, and the tool pattern
// CMake's own messages.
var (
	gnuDiagRegex  = regexp.MustCompile(`^[^:\s][^:]*:\d+(?::\d+)?:\s+(fatal error|error|warning|note)\s*:`)
	msvcDiagRegex = regexp.MustCompile(`\(\d+(?:,\d+)?\)\s*:\s+(error|warning)\s+[A-Z]+\d+\s*:|:\s+(error|warning)\s+[A-Z]+\d+\s*:`)
	toolDiagRegex = regexp.MustCompile(`^CMake (Error|Warning|Deprecation Warning)`)
	linkDiagRegex = regexp.MustCompile(`undefined reference to|ld: (error|warning):`)
)

// Classify returns the severity of one output line.
func Classify(line string) Severity {
	if m := gnuDiagRegex.FindStringSubmatch(line); m != nil {
		switch m[1] {
		case "error", "fatal error":
			return SeverityError
		case "warning":
			return SeverityWarning
		default:
			return SeverityNone
		}
	}
	if m := msvcDiagRegex.FindStringSubmatch(line); m != nil {
		kind := m[1]
		if kind == "" {
			kind = m[2]
		}
		if kind == "error" {
			return SeverityError
		}
		return SeverityWarning
	}
	if m := toolDiagRegex.FindStringSubmatch(line); m != nil {
		if m[1] == "Error" {
			return SeverityError
		}
		return SeverityWarning
	}
	if m := linkDiagRegex.FindStringSubmatch(line); m != nil {
		if m[1] == "warning" {
			return SeverityWarning
		}
		return SeverityError
	}
	return SeverityNone
}
