package fileapi

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mason/internal/core/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(string)        {}
func (nopLogger) Info(string)         {}
func (nopLogger) Warn(string)         {}
func (nopLogger) Error(error)         {}
func (nopLogger) SetOutput(io.Writer) {}

func writeJSONFile(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func replyDir(binaryDir string) string {
	return filepath.Join(domain.FileAPIPath(binaryDir), "reply")
}

func writeIndex(t *testing.T, binaryDir, name string, refs map[string]any) {
	t.Helper()
	writeJSONFile(t, filepath.Join(replyDir(binaryDir), name), map[string]any{
		"reply": map[string]any{"client-mason": refs},
	})
}

func TestWriteQueryCreatesMarkerFiles(t *testing.T) {
	binaryDir := t.TempDir()
	reader := NewReader(nopLogger{})

	require.NoError(t, reader.WriteQuery(binaryDir))
	require.NoError(t, reader.WriteQuery(binaryDir))

	queryDir := filepath.Join(domain.FileAPIPath(binaryDir), "query", "client-mason")
	for _, name := range []string{"codemodel-v2", "cmakeFiles-v1"} {
		_, err := os.Stat(filepath.Join(queryDir, name))
		assert.NoError(t, err)
	}
}

func TestReadCodeModel(t *testing.T) {
	binaryDir := t.TempDir()

	writeJSONFile(t, filepath.Join(replyDir(binaryDir), "target-app.json"), map[string]any{
		"name":      "app",
		"type":      "EXECUTABLE",
		"paths":     map[string]any{"source": "src"},
		"artifacts": []any{map[string]any{"path": "app"}},
	})
	writeJSONFile(t, filepath.Join(replyDir(binaryDir), "target-core.json"), map[string]any{
		"name":  "core",
		"type":  "STATIC_LIBRARY",
		"paths": map[string]any{"source": "lib"},
	})
	writeJSONFile(t, filepath.Join(replyDir(binaryDir), "codemodel-v2-abc.json"), map[string]any{
		"paths": map[string]any{"source": "/work/proj", "build": binaryDir},
		"configurations": []any{map[string]any{
			"name": "Debug",
			"projects": []any{map[string]any{
				"name":          "demo",
				"targetIndexes": []any{0, 1},
			}},
			"targets": []any{
				map[string]any{"name": "app", "jsonFile": "target-app.json"},
				map[string]any{"name": "core", "jsonFile": "target-core.json"},
			},
		}},
	})
	writeIndex(t, binaryDir, "index-1.json", map[string]any{
		"codemodel-v2": map[string]any{"jsonFile": "codemodel-v2-abc.json"},
	})

	model, err := NewReader(nopLogger{}).ReadCodeModel(binaryDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Debug"}, model.Configurations)
	require.Len(t, model.Projects, 1)
	assert.Equal(t, "demo", model.Projects[0].Name)
	assert.Equal(t, []string{"app", "core"}, model.TargetNames())
	assert.Equal(t, domain.TargetExecutable, model.Projects[0].Targets[0].Type)
	assert.Equal(t, filepath.Join("/work/proj", "src"), model.Projects[0].Targets[0].SourceDir)
	assert.Equal(t, []string{"app"}, model.Projects[0].Targets[0].Artifacts)
}

func TestReadCodeModelPrefersNewestIndex(t *testing.T) {
	binaryDir := t.TempDir()

	writeJSONFile(t, filepath.Join(replyDir(binaryDir), "codemodel-v2-old.json"), map[string]any{
		"configurations": []any{map[string]any{"name": "Stale"}},
	})
	writeJSONFile(t, filepath.Join(replyDir(binaryDir), "codemodel-v2-new.json"), map[string]any{
		"configurations": []any{map[string]any{"name": "Fresh"}},
	})
	writeIndex(t, binaryDir, "index-2026-01-01.json", map[string]any{
		"codemodel-v2": map[string]any{"jsonFile": "codemodel-v2-old.json"},
	})
	writeIndex(t, binaryDir, "index-2026-02-01.json", map[string]any{
		"codemodel-v2": map[string]any{"jsonFile": "codemodel-v2-new.json"},
	})

	model, err := NewReader(nopLogger{}).ReadCodeModel(binaryDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fresh"}, model.Configurations)
}

func TestReadInputsFiltersToolOwnedFiles(t *testing.T) {
	binaryDir := t.TempDir()

	writeJSONFile(t, filepath.Join(replyDir(binaryDir), "cmakeFiles-v1-abc.json"), map[string]any{
		"paths": map[string]any{"source": "/work/proj"},
		"inputs": []any{
			map[string]any{"path": "CMakeLists.txt"},
			map[string]any{"path": "cmake/options.cmake"},
			map[string]any{"path": "/usr/share/cmake/Modules/Platform.cmake", "isCMake": true},
			map[string]any{"path": "build/generated.cmake", "isGenerated": true},
		},
	})
	writeIndex(t, binaryDir, "index-1.json", map[string]any{
		"cmakeFiles-v1": map[string]any{"jsonFile": "cmakeFiles-v1-abc.json"},
	})

	files, err := NewReader(nopLogger{}).ReadInputs(binaryDir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("/work/proj", "CMakeLists.txt"),
		filepath.Join("/work/proj", "cmake/options.cmake"),
	}, files)
}

func TestReadCodeModelMissingReply(t *testing.T) {
	binaryDir := t.TempDir()

	_, err := NewReader(nopLogger{}).ReadCodeModel(binaryDir)
	require.Error(t, err)
	// String check because the read error is wrapped, not the sentinel.
	assert.ErrorContains(t, err, domain.ErrFileAPIReply.Error())

	writeIndex(t, binaryDir, "index-1.json", map[string]any{})
	_, err = NewReader(nopLogger{}).ReadCodeModel(binaryDir)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFileAPIReply)
}
