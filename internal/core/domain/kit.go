package domain

import "strings"

// Kit is a named, already-resolved toolchain description supplied by an
// external collaborator. Mason never scans for kits itself; it only consumes
// resolved objects like this one.
type Kit struct {
	Name string

	// Compilers maps a language ("C", "CXX", ...) to a compiler executable path.
	Compilers map[string]string

	// ToolchainFile is an optional CMAKE_TOOLCHAIN_FILE path.
	ToolchainFile string

	// PreferredGenerator is consulted after an explicit user setting and
	// before the built-in defaults.
	PreferredGenerator *Generator

	// Environment is the kit's base environment layer, unexpanded.
	Environment map[string]string

	// TargetTriple is an optional toolchain target triple such as
	// "x86_64-pc-linux-gnu"; its derived fields feed string expansion.
	TargetTriple string
}

// Preset is a named, file-defined parameter set. A session is driven either
// by kits or by presets, never both. The same preset may serve any role of
// the configure/build/test triple; each role reads only the fields that
// concern it.
type Preset struct {
	Name        string
	Generator   string
	BinaryDir   string
	CacheVars   map[string]string
	Environment map[string]string

	// BuildTargets are the default targets a build invocation uses when the
	// caller names none.
	BuildTargets []string

	// Jobs overrides the settings-level job count for build and test.
	Jobs int

	// TestArgs are extra arguments appended to the test command.
	TestArgs []string
}

// SelectedPresets is the configure/build/test preset triple active on a
// session. The zero value means kit-driven mode.
type SelectedPresets struct {
	Configure *Preset
	Build     *Preset
	Test      *Preset
}

// Linkage selects how library targets are linked by default.
type Linkage string

const (
	// LinkageDefault leaves BUILD_SHARED_LIBS untouched.
	LinkageDefault Linkage = ""
	// LinkageStatic forces static libraries.
	LinkageStatic Linkage = "static"
	// LinkageShared forces shared libraries.
	LinkageShared Linkage = "shared"
)

// Variant exposes the active variant's build type, settings, linkage and
// environment overlay.
type Variant struct {
	BuildType   string
	Linkage     Linkage
	Settings    map[string]string
	Environment map[string]string
}

// Triple holds the fields derived from a target triple for string expansion.
type Triple struct {
	Triple       string
	Arch         string
	Vendor       string
	OS           string
	ABI          string
	VersionMajor string
	VersionMinor string
}

// ParseTriple splits a target triple of the form arch[-vendor]-os[-abi].
// Unknown or missing components are left empty; parsing never fails so that
// partially specified kits still expand to usable strings.
func ParseTriple(s string) Triple {
	t := Triple{Triple: s}
	if s == "" {
		return t
	}
	parts := strings.Split(s, "-")
	switch len(parts) {
	case 1:
		t.Arch = parts[0]
	case 2:
		t.Arch, t.OS = parts[0], parts[1]
	case 3:
		t.Arch, t.Vendor, t.OS = parts[0], parts[1], parts[2]
	default:
		t.Arch, t.Vendor, t.OS, t.ABI = parts[0], parts[1], parts[2], strings.Join(parts[3:], "-")
	}
	if i := strings.IndexAny(t.OS, "0123456789"); i > 0 {
		version := t.OS[i:]
		t.OS = t.OS[:i]
		major, minor, found := strings.Cut(version, ".")
		t.VersionMajor = major
		if found {
			t.VersionMinor, _, _ = strings.Cut(minor, ".")
		}
	}
	return t
}
