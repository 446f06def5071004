package probe

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

// CompilerKind names a known compiler front-end family.
type CompilerKind string

const (
	// KindGCC covers the GNU front-ends.
	KindGCC CompilerKind = "GCC"
	// KindClang covers LLVM front-ends including clang-cl.
	KindClang CompilerKind = "Clang"
	// KindMSVC is the Microsoft cl front-end.
	KindMSVC CompilerKind = "MSVC"
	// KindIntel covers the classic and oneAPI Intel front-ends.
	KindIntel CompilerKind = "Intel"
	// KindARM covers the ARM compiler front-ends.
	KindARM CompilerKind = "ARM"
)

// CompilerInfo is the classification result for one compiler executable.
type CompilerInfo struct {
	Path    string
	Kind    CompilerKind
	Version string
}

// knownFrontEnds is the fixed allow-list of compiler executables by basename.
// Loaded once at startup and never mutated.
var knownFrontEnds = map[string]CompilerKind{
	"gcc":      KindGCC,
	"g++":      KindGCC,
	"cc":       KindGCC,
	"c++":      KindGCC,
	"clang":    KindClang,
	"clang++":  KindClang,
	"clang-cl": KindClang,
	"cl":       KindMSVC,
	"icc":      KindIntel,
	"icpc":     KindIntel,
	"icx":      KindIntel,
	"icpx":     KindIntel,
	"armclang": KindARM,
	"armcc":    KindARM,
}

var versionPatterns = map[CompilerKind]*regexp.Regexp{
	KindGCC:   regexp.MustCompile(`\) ([0-9]+\.[0-9]+\.[0-9]+)`),
	KindClang: regexp.MustCompile(`version ([0-9]+\.[0-9]+\.[0-9]+)`),
	KindMSVC:  regexp.MustCompile(`Version ([0-9]+(?:\.[0-9]+)+)`),
	KindIntel: regexp.MustCompile(`\(ICC\) ([0-9]+\.[0-9]+\.[0-9]+)|Compiler ([0-9]+\.[0-9]+\.[0-9]+)`),
	KindARM:   regexp.MustCompile(`Component: [^\n]*?([0-9]+\.[0-9]+(?:\.[0-9]+)?)|version ([0-9]+\.[0-9]+(?:\.[0-9]+)?)`),
}

// versionedSuffix strips trailing "-13" style version suffixes so gcc-13
// classifies as gcc.
var versionedSuffix = regexp.MustCompile(`-[0-9.]+$`)

// identifyCache memoizes classifications process-wide by executable path.
var identifyCache sync.Map // path -> *CompilerInfo

// Identifier classifies compiler executables.
type Identifier struct {
	runner ports.Runner
}

// NewIdentifier creates an Identifier that probes versions with the runner.
func NewIdentifier(runner ports.Runner) *Identifier {
	return &Identifier{runner: runner}
}

// ClassifyBasename maps a compiler executable basename onto its front-end
// family, stripping any extension and version suffix first.
func ClassifyBasename(path string) (CompilerKind, bool) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = versionedSuffix.ReplaceAllString(base, "")
	kind, ok := knownFrontEnds[strings.ToLower(base)]
	return kind, ok
}

// ExtractVersion applies the family's version pattern to raw tool output.
func ExtractVersion(kind CompilerKind, output string) string {
	pattern, ok := versionPatterns[kind]
	if !ok {
		return ""
	}
	groups := pattern.FindStringSubmatch(output)
	if groups == nil {
		return ""
	}
	for _, g := range groups[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}

// Identify classifies the executable at path against the allow-list and
// extracts its version string by running it once. Results are cached
// process-wide.
func (i *Identifier) Identify(ctx context.Context, path string) (*CompilerInfo, error) {
	if cached, ok := identifyCache.Load(path); ok {
		return cached.(*CompilerInfo), nil
	}

	kind, ok := ClassifyBasename(path)
	if !ok {
		return nil, domain.Detail(domain.ErrCompilerUnknown, "path", path)
	}

	// cl prints its banner without arguments; everyone else takes --version.
	req := ports.RunRequest{Program: path}
	if kind != KindMSVC {
		req.Args = []string{"--version"}
	}

	output, err := i.runner.Capture(ctx, req)
	if err != nil && output == "" {
		return nil, zerr.Wrap(err, "failed to run compiler version query")
	}

	info := &CompilerInfo{
		Path:    path,
		Kind:    kind,
		Version: ExtractVersion(kind, output),
	}
	identifyCache.Store(path, info)
	return info, nil
}
