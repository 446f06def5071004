package watcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeFilterDetectsContentChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CMakeLists.txt")
	require.NoError(t, os.WriteFile(path, []byte("project(demo)\n"), 0o644))

	f := NewChangeFilter()
	assert.True(t, f.Changed(path), "first sighting counts as changed")
	assert.False(t, f.Changed(path), "unchanged content must not re-trigger")

	require.NoError(t, os.WriteFile(path, []byte("project(demo CXX)\n"), 0o644))
	assert.True(t, f.Changed(path))
}

func TestChangeFilterIgnoresTouchOnlyRewrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opts.cmake")
	content := []byte("set(FOO ON)\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	f := NewChangeFilter()
	f.Prime([]string{path})

	// Rewrite identical bytes, as editors do on save-without-change.
	require.NoError(t, os.WriteFile(path, content, 0o644))
	assert.False(t, f.Changed(path))
}

func TestChangeFilterRemovedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toolchain.cmake")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	f := NewChangeFilter()
	f.Prime([]string{path})
	require.NoError(t, os.Remove(path))

	assert.True(t, f.Changed(path), "removal of a known file is a change")
	assert.False(t, f.Changed(path), "an unknown missing file is not")
}

func TestChangeFilterReset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.cmake")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	f := NewChangeFilter()
	f.Prime([]string{path})
	f.Reset()
	assert.True(t, f.Changed(path))
}
