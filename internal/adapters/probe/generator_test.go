package probe_test

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mason/internal/adapters/probe"
	"go.trai.ch/mason/internal/core/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(string)        {}
func (nopLogger) Info(string)         {}
func (nopLogger) Warn(string)         {}
func (nopLogger) Error(error)         {}
func (nopLogger) SetOutput(io.Writer) {}

func TestProber_IdempotentProbing(t *testing.T) {
	calls := 0
	lookPath := func(name string) (string, error) {
		calls++
		if name == "ninja" {
			return "/usr/bin/ninja", nil
		}
		return "", errors.New("not found")
	}
	p := probe.NewProberForTest(nopLogger{}, lookPath, "linux")

	first := p.ExecutableAvailable("ninja")
	second := p.ExecutableAvailable("ninja")

	assert.True(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second probe must hit the process-wide cache")
}

func TestProber_SkipsForeignPlatformWithoutProbing(t *testing.T) {
	probed := []string{}
	lookPath := func(name string) (string, error) {
		probed = append(probed, name)
		return "", errors.New("not found")
	}
	p := probe.NewProberForTest(nopLogger{}, lookPath, "linux")

	xcode, ok := domain.FindGeneratorCandidate("Xcode")
	require.True(t, ok)

	assert.False(t, p.Usable(xcode))
	assert.Empty(t, probed, "foreign-platform candidates are skipped without probing")
}

func TestProber_FindUsablePriorityOrder(t *testing.T) {
	lookPath := func(name string) (string, error) {
		if name == "make" {
			return "/usr/bin/make", nil
		}
		return "", errors.New("not found")
	}
	p := probe.NewProberForTest(nopLogger{}, lookPath, "linux")

	gen, err := p.FindUsable([]string{"Visual Studio 17 2022", "Unix Makefiles"})

	require.NoError(t, err)
	assert.Equal(t, "Unix Makefiles", gen.Name)
}

func TestProber_FindUsableNoneAvailable(t *testing.T) {
	lookPath := func(string) (string, error) { return "", errors.New("not found") }
	p := probe.NewProberForTest(nopLogger{}, lookPath, "linux")

	_, err := p.FindUsable([]string{"MinGW Makefiles", "custom-generator"})

	assert.ErrorIs(t, err, domain.ErrNoGeneratorFound)
}
