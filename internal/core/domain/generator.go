package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Generator identifies the backend format cmake is asked to emit.
// It is immutable once a configuration has been produced with it; switching
// generators requires a clean reconfigure.
type Generator struct {
	Name     string
	Platform string
	Toolset  string
}

// IsIDE reports whether the generator emits IDE project files rather than
// command-line build files. IDE generators use a different conventional
// "build everything" target and a different parallelism flag.
func (g Generator) IsIDE() bool {
	return strings.HasPrefix(g.Name, "Visual Studio") || g.Name == "Xcode"
}

// AllTargetName returns the conventional name that builds every target.
func (g Generator) AllTargetName() string {
	if g.IsIDE() {
		return "ALL_BUILD"
	}
	return "all"
}

// GeneratorCandidate describes a generator mason may offer, together with the
// executable whose presence makes it usable and an optional host-platform
// restriction (GOOS value). Candidates restricted to a different platform are
// skipped without probing.
type GeneratorCandidate struct {
	Generator    Generator
	Executable   string
	HostPlatform string
}

// KnownGenerators lists the candidates mason understands, in no particular
// priority order. Resolution priority is decided by the driver (explicit
// setting, then kit preference, then DefaultGenerators).
var KnownGenerators = []GeneratorCandidate{
	{Generator: Generator{Name: "Ninja"}, Executable: "ninja"},
	{Generator: Generator{Name: "Ninja Multi-Config"}, Executable: "ninja"},
	{Generator: Generator{Name: "Unix Makefiles"}, Executable: "make"},
	{Generator: Generator{Name: "MinGW Makefiles"}, Executable: "mingw32-make", HostPlatform: "windows"},
	{Generator: Generator{Name: "NMake Makefiles"}, Executable: "nmake", HostPlatform: "windows"},
	{Generator: Generator{Name: "Xcode"}, Executable: "xcodebuild", HostPlatform: "darwin"},
	{Generator: Generator{Name: "Visual Studio 17 2022"}, Executable: "", HostPlatform: "windows"},
	{Generator: Generator{Name: "Visual Studio 16 2019"}, Executable: "", HostPlatform: "windows"},
}

// DefaultGenerators is the built-in fallback priority: a fast build-tool
// generator first, then the portable make-based one.
var DefaultGenerators = []string{"Ninja", "Unix Makefiles"}

// ToolVersion is a tool's reported version number; the zero value means the
// version could not be determined.
type ToolVersion struct {
	Major int
	Minor int
}

// AtLeast reports whether the version is known and not older than
// major.minor.
func (v ToolVersion) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

var toolVersionPattern = regexp.MustCompile(`version ([0-9]+)\.([0-9]+)`)

// ParseToolVersion extracts the major.minor pair from a `--version` banner
// such as "cmake version 3.28.1". Unrecognized output yields the zero
// version.
func ParseToolVersion(output string) ToolVersion {
	m := toolVersionPattern.FindStringSubmatch(output)
	if m == nil {
		return ToolVersion{}
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	return ToolVersion{Major: major, Minor: minor}
}

// FindGeneratorCandidate returns the candidate with the given generator name.
func FindGeneratorCandidate(name string) (GeneratorCandidate, bool) {
	for _, c := range KnownGenerators {
		if c.Generator.Name == name {
			return c, true
		}
	}
	return GeneratorCandidate{}, false
}
