// Package environ composes layered environment variable maps and expands
// `${name}` placeholders against a session expansion context.
package environ

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/mason/internal/core/domain"
)

// Layer is an ordered, named mapping of variable name to raw, unexpanded
// value. Later layers override earlier ones on key collision.
type Layer struct {
	Name string
	Vars map[string]string
}

// Context supplies the named variables `${name}` placeholders resolve
// against. Zero-value fields simply leave their placeholders unresolved, so
// partially specified contexts still produce usable strings.
type Context struct {
	KitName         string
	PresetName      string
	BuildType       string
	Generator       string
	WorkspaceFolder string
	UserHome        string
	Triple          domain.Triple
}

// NewContext builds a Context with the user home filled in from the OS.
func NewContext(workspaceFolder string) Context {
	home, _ := os.UserHomeDir()
	return Context{WorkspaceFolder: workspaceFolder, UserHome: home}
}

var placeholder = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_.]*)\}`)

// Vars returns the flat variable map the context exposes for expansion.
func (c Context) Vars() map[string]string {
	vars := map[string]string{
		"kitName":    c.KitName,
		"presetName": c.PresetName,
		"buildType":  c.BuildType,
		"generator":  c.Generator,
		"userHome":   c.UserHome,
	}
	if c.WorkspaceFolder != "" {
		vars["workspaceFolder"] = c.WorkspaceFolder
		vars["workspaceFolderBasename"] = filepath.Base(c.WorkspaceFolder)
		vars["workspaceHash"] = fmt.Sprintf("%016x", xxhash.Sum64String(c.WorkspaceFolder))
	}
	if c.Triple.Triple != "" {
		vars["targetTriple"] = c.Triple.Triple
		vars["targetArch"] = c.Triple.Arch
		vars["targetVendor"] = c.Triple.Vendor
		vars["targetSystem"] = c.Triple.OS
		vars["targetABI"] = c.Triple.ABI
		vars["targetVersionMajor"] = c.Triple.VersionMajor
		vars["targetVersionMinor"] = c.Triple.VersionMinor
	}
	return vars
}

// Expand performs one `${name}` substitution pass over s. Placeholders with
// no value in the context are left as literal text, never an error.
func Expand(s string, ctx Context) string {
	vars := ctx.Vars()
	return placeholder.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if v, ok := vars[name]; ok && v != "" {
			return v
		}
		return match
	})
}

// Compose merges the layers left to right, later layers winning on key
// collision, then expands every value once. Expansion happens after the full
// merge, and a placeholder resolves first against the merged variables
// themselves, then against the context, so `${A}` in a later layer sees the
// winning value of A no matter which layer defined it.
func Compose(layers []Layer, ctx Context) map[string]string {
	merged := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer.Vars {
			merged[k] = v
		}
	}

	ctxVars := ctx.Vars()
	lookup := func(name string) (string, bool) {
		if v, ok := merged[name]; ok {
			return v, true
		}
		if v, ok := ctxVars[name]; ok && v != "" {
			return v, true
		}
		return "", false
	}

	expanded := make(map[string]string, len(merged))
	for k, v := range merged {
		expanded[k] = placeholder.ReplaceAllStringFunc(v, func(match string) string {
			if val, ok := lookup(match[2 : len(match)-1]); ok {
				return val
			}
			return match
		})
	}
	return expanded
}

// Environ flattens a composed map onto a base "KEY=VALUE" environment,
// overriding colliding keys. Output is sorted for deterministic invocations.
func Environ(base []string, composed map[string]string) []string {
	seen := make(map[string]int, len(base))
	out := make([]string, 0, len(base)+len(composed))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		seen[key] = len(out)
		out = append(out, kv)
	}
	for k, v := range composed {
		if i, ok := seen[k]; ok {
			out[i] = k + "=" + v
			continue
		}
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
