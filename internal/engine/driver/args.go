package driver

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.trai.ch/mason/internal/core/domain"
)

// multiConfig reports whether the generator keeps several build types in one
// configuration. Those take --config at build time instead of
// CMAKE_BUILD_TYPE at configure time.
func multiConfig(g domain.Generator) bool {
	return g.IsIDE() || g.Name == "Ninja Multi-Config"
}

// cacheArguments builds the -C and -D argument list for one configure. The
// define layers override each other in a fixed order: kit-derived toolchain
// defines first, then variant settings, then explicit configure settings.
// When a preset drives the session its cache variables replace the kit layer.
func cacheArguments(s *session) []string {
	defines := make(map[string]string)

	if s.presets.Configure != nil {
		for k, v := range s.presets.Configure.CacheVars {
			defines[k] = s.expand(v)
		}
	} else if s.kit != nil {
		for lang, compiler := range s.kit.Compilers {
			defines["CMAKE_"+lang+"_COMPILER:FILEPATH"] = s.expand(compiler)
		}
		if s.kit.ToolchainFile != "" {
			defines["CMAKE_TOOLCHAIN_FILE:FILEPATH"] = s.expand(s.kit.ToolchainFile)
		}
	}

	if s.variant != nil {
		if s.variant.BuildType != "" && !multiConfig(s.generator) {
			defines["CMAKE_BUILD_TYPE:STRING"] = s.variant.BuildType
		}
		switch s.variant.Linkage {
		case domain.LinkageShared:
			defines["BUILD_SHARED_LIBS:BOOL"] = "ON"
		case domain.LinkageStatic:
			defines["BUILD_SHARED_LIBS:BOOL"] = "OFF"
		}
		for k, v := range s.variant.Settings {
			defines[k] = s.expand(v)
		}
	}

	if s.settings.InstallPrefix != "" {
		defines["CMAKE_INSTALL_PREFIX:PATH"] = s.expand(s.settings.InstallPrefix)
	}

	for k, v := range s.settings.ConfigureSettings {
		defines[k] = s.expand(v)
	}

	args := make([]string, 0, len(defines)+2*len(s.settings.CacheInitFiles))
	for _, seed := range s.settings.CacheInitFiles {
		path := s.expand(seed)
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.sourceDir, path)
		}
		args = append(args, "-C", path)
	}

	keys := make([]string, 0, len(defines))
	for k := range defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-D"+k+"="+defines[k])
	}
	return args
}

// generatorArguments builds the source, binary and generator selection flags
// the one-shot invocation needs. The protocol backend passes these at
// handshake instead.
func generatorArguments(s *session) []string {
	args := []string{"-S", s.sourceDir, "-B", s.binaryDir, "-G", s.generator.Name}
	if s.generator.Platform != "" {
		args = append(args, "-A", s.generator.Platform)
	}
	if s.generator.Toolset != "" {
		args = append(args, "-T", s.generator.Toolset)
	}
	return args
}

// buildArguments builds the `cmake --build` argument vector. Targets are
// normalized for IDE generators, and no parallelism flag is emitted for a
// lone clean target since cleaning is not parallelizable. Tools new enough
// for --parallel get the native flag; older ones get the build tool's own
// flag after the -- separator.
func buildArguments(s *session, targets []string, tool domain.ToolVersion) []string {
	args := []string{"--build", s.binaryDir}

	if multiConfig(s.generator) && s.variant != nil && s.variant.BuildType != "" {
		args = append(args, "--config", s.variant.BuildType)
	}

	if len(targets) == 0 && s.presets.Build != nil {
		targets = s.presets.Build.BuildTargets
	}
	if len(targets) == 0 {
		targets = []string{s.generator.AllTargetName()}
	} else if s.generator.IsIDE() {
		normalized := make([]string, len(targets))
		for i, t := range targets {
			if t == "all" {
				t = s.generator.AllTargetName()
			}
			normalized[i] = t
		}
		targets = normalized
	}
	args = append(args, "--target")
	args = append(args, targets...)

	jobCount := s.settings.JobCount
	if s.presets.Build != nil && s.presets.Build.Jobs > 0 {
		jobCount = s.presets.Build.Jobs
	}

	cleanOnly := len(targets) == 1 && targets[0] == "clean"
	var toolArgs []string
	if jobCount > 1 && !cleanOnly {
		jobs := strconv.Itoa(jobCount)
		switch {
		case tool.AtLeast(3, 12):
			args = append(args, "--parallel", jobs)
		case s.generator.IsIDE():
			toolArgs = append(toolArgs, "/maxcpucount:"+jobs)
		default:
			toolArgs = append(toolArgs, "-j", jobs)
		}
	}

	args = append(args, expandArgs(s, s.settings.BuildArgs)...)
	toolArgs = append(toolArgs, expandArgs(s, s.settings.BuildToolArgs)...)
	if len(toolArgs) > 0 {
		args = append(args, "--")
		args = append(args, toolArgs...)
	}
	return args
}

// testArguments builds the ctest argument vector for the current
// configuration. A test preset overrides the job count and appends its own
// arguments.
func testArguments(s *session) []string {
	jobCount := s.settings.JobCount
	if s.presets.Test != nil && s.presets.Test.Jobs > 0 {
		jobCount = s.presets.Test.Jobs
	}

	args := []string{"ctest", "--output-on-failure"}
	if jobCount > 1 {
		args = append(args, "-j", strconv.Itoa(jobCount))
	}
	if s.variant != nil && s.variant.BuildType != "" {
		args = append(args, "-C", s.variant.BuildType)
	}
	args = append(args, "--test-dir", s.binaryDir)
	if s.presets.Test != nil {
		args = append(args, expandArgs(s, s.presets.Test.TestArgs)...)
	}
	return args
}

// expandArgs expands placeholders in user-provided argument lists.
func expandArgs(s *session, args []string) []string {
	if len(args) == 0 {
		return nil
	}
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = s.expand(a)
	}
	return out
}

// trimmedArgs drops empty strings so user-provided argument lists with blank
// entries do not produce empty argv elements.
func trimmedArgs(lists ...[]string) []string {
	var out []string
	for _, list := range lists {
		for _, a := range list {
			if strings.TrimSpace(a) != "" {
				out = append(out, a)
			}
		}
	}
	return out
}
