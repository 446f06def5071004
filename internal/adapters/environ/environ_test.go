package environ_test

import (
	"fmt"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/mason/internal/adapters/environ"
	"go.trai.ch/mason/internal/core/domain"
)

func TestCompose_LaterLayerWinsAndExpandsAfterMerge(t *testing.T) {
	layers := []environ.Layer{
		{Name: "kit", Vars: map[string]string{"A": "1"}},
		{Name: "user", Vars: map[string]string{"A": "2", "B": "${A}"}},
	}

	got := environ.Compose(layers, environ.Context{})

	assert.Equal(t, map[string]string{"A": "2", "B": "2"}, got)
}

func TestCompose_ContextVariables(t *testing.T) {
	layers := []environ.Layer{
		{Name: "kit", Vars: map[string]string{
			"PREFIX":   "${workspaceFolder}/out/${buildType}",
			"HOST":     "${targetArch}-${targetSystem}",
			"CACHEDIR": "${userHome}/.cache/${workspaceHash}",
		}},
	}
	ctx := environ.Context{
		BuildType:       "Debug",
		WorkspaceFolder: "/home/dev/proj",
		UserHome:        "/home/dev",
		Triple:          domain.ParseTriple("x86_64-pc-linux-gnu"),
	}

	got := environ.Compose(layers, ctx)

	hash := fmt.Sprintf("%016x", xxhash.Sum64String("/home/dev/proj"))
	assert.Equal(t, "/home/dev/proj/out/Debug", got["PREFIX"])
	assert.Equal(t, "x86_64-linux", got["HOST"])
	assert.Equal(t, "/home/dev/.cache/"+hash, got["CACHEDIR"])
}

func TestCompose_UnresolvedPlaceholderStaysLiteral(t *testing.T) {
	layers := []environ.Layer{
		{Name: "variant", Vars: map[string]string{"X": "${kitName}-suffix"}},
	}

	// No kit selected yet, as during scanning before a workspace is known.
	got := environ.Compose(layers, environ.Context{})

	assert.Equal(t, "${kitName}-suffix", got["X"])
}

func TestExpand_SettingsStrings(t *testing.T) {
	ctx := environ.Context{
		KitName:         "gcc-13",
		Generator:       "Ninja",
		WorkspaceFolder: "/w",
	}

	assert.Equal(t, "/w/build/gcc-13", environ.Expand("${workspaceFolder}/build/${kitName}", ctx))
	assert.Equal(t, "gen-Ninja", environ.Expand("gen-${generator}", ctx))
	assert.Equal(t, "${unknown}", environ.Expand("${unknown}", ctx))
}

func TestEnviron_OverridesBase(t *testing.T) {
	base := []string{"PATH=/usr/bin", "HOME=/home/dev"}
	got := environ.Environ(base, map[string]string{"PATH": "/opt/bin", "CC": "gcc"})

	assert.Equal(t, []string{"CC=gcc", "HOME=/home/dev", "PATH=/opt/bin"}, got)
}
