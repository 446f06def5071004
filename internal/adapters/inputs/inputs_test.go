package inputs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mason/internal/adapters/inputs"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	return path
}

func TestFileSet_EmptyIsAlwaysStale(t *testing.T) {
	assert.True(t, inputs.CreateEmpty().CheckOutOfDate())
}

func TestFileSet_FreshSnapshotIsNotStale(t *testing.T) {
	dir := t.TempDir()
	lists := writeFile(t, dir, "CMakeLists.txt")
	toolchain := writeFile(t, dir, "toolchain.cmake")

	set := inputs.Create([]string{lists, toolchain})

	assert.False(t, set.Empty())
	assert.False(t, set.CheckOutOfDate())
}

func TestFileSet_TouchedFileTurnsStale(t *testing.T) {
	dir := t.TempDir()
	lists := writeFile(t, dir, "CMakeLists.txt")
	toolchain := writeFile(t, dir, "toolchain.cmake")

	set := inputs.Create([]string{lists, toolchain})

	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(toolchain, future, future))

	assert.True(t, set.CheckOutOfDate())
}

func TestFileSet_VanishedFileTurnsStale(t *testing.T) {
	dir := t.TempDir()
	lists := writeFile(t, dir, "CMakeLists.txt")

	set := inputs.Create([]string{lists})
	require.NoError(t, os.Remove(lists))

	assert.True(t, set.CheckOutOfDate())
}

func TestFileSet_MissingAtSnapshotIsDropped(t *testing.T) {
	dir := t.TempDir()
	lists := writeFile(t, dir, "CMakeLists.txt")

	set := inputs.Create([]string{lists, filepath.Join(dir, "gone.cmake")})

	assert.Equal(t, []string{lists}, set.Paths())
	assert.False(t, set.CheckOutOfDate())
}
