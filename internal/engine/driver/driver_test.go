package driver_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/mason/internal/core/ports/mocks"
	"go.trai.ch/mason/internal/engine/driver"
)

type nopLogger struct{}

func (nopLogger) Debug(string)        {}
func (nopLogger) Info(string)         {}
func (nopLogger) Warn(string)         {}
func (nopLogger) Error(error)         {}
func (nopLogger) SetOutput(io.Writer) {}

type fakeProber struct{ gen domain.Generator }

func (p fakeProber) FindUsable([]string) (*domain.Generator, error) {
	gen := p.gen
	return &gen, nil
}

// stubTracer wires a permissive span so tests assert on behavior, not on
// telemetry call counts.
func stubTracer(ctrl *gomock.Controller) *mocks.MockTracer {
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().SetAttr(gomock.Any(), gomock.Any()).AnyTimes()
	span.EXPECT().End(gomock.Any()).AnyTimes()
	tracer.EXPECT().StartSpan(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Span) {
			return ctx, span
		}).AnyTimes()
	return tracer
}

func projectConfig(root string) *domain.ProjectConfig {
	return &domain.ProjectConfig{
		Root: root,
		Settings: domain.Settings{
			SourceDirectory: root,
			BinaryDirectory: "build",
		},
		Variants:      map[string]domain.Variant{"debug": {BuildType: "Debug"}},
		ActiveVariant: "debug",
	}
}

func newOrchestrator(t *testing.T, cfg *domain.ProjectConfig, runner ports.Runner, problems ports.ProblemHandler) *driver.Orchestrator {
	t.Helper()
	ctrl := gomock.NewController(t)
	o, err := driver.New(driver.Params{
		Logger:    nopLogger{},
		Tracer:    stubTracer(ctrl),
		Runner:    runner,
		Problems:  problems,
		Config:    cfg,
		CMakePath: "/opt/cmake/bin/cmake",
		Prober:    fakeProber{gen: domain.Generator{Name: "Ninja"}},
	})
	require.NoError(t, err)
	return o
}

func newHookedOrchestrator(t *testing.T, cfg *domain.ProjectConfig, runner ports.Runner, hooks driver.Hooks) *driver.Orchestrator {
	t.Helper()
	ctrl := gomock.NewController(t)
	o, err := driver.New(driver.Params{
		Logger:    nopLogger{},
		Tracer:    stubTracer(ctrl),
		Runner:    runner,
		Config:    cfg,
		CMakePath: "/opt/cmake/bin/cmake",
		Prober:    fakeProber{gen: domain.Generator{Name: "Ninja"}},
		Hooks:     hooks,
	})
	require.NoError(t, err)
	return o
}

func writeJSONFile(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// writeConfiguredTree lays down what a successful tool run leaves behind:
// the persisted cache and the file-api replies. Targets defaults to a lone
// "app" executable.
func writeConfiguredTree(t *testing.T, root, binaryDir string, targets ...string) {
	t.Helper()
	if len(targets) == 0 {
		targets = []string{"app"}
	}
	require.NoError(t, os.MkdirAll(binaryDir, 0o750))
	cache := "# This is the CMakeCache file.\n" +
		"CMAKE_GENERATOR:INTERNAL=Ninja\n" +
		"CMAKE_BUILD_TYPE:STRING=Debug\n"
	require.NoError(t, os.WriteFile(domain.CacheFile(binaryDir), []byte(cache), 0o644))

	replyDir := filepath.Join(domain.FileAPIPath(binaryDir), "reply")
	indexes := make([]any, 0, len(targets))
	refs := make([]any, 0, len(targets))
	for i, name := range targets {
		writeJSONFile(t, filepath.Join(replyDir, "target-"+name+".json"), map[string]any{
			"name": name, "type": "EXECUTABLE", "paths": map[string]any{"source": "."},
		})
		indexes = append(indexes, i)
		refs = append(refs, map[string]any{"name": name, "jsonFile": "target-" + name + ".json"})
	}
	writeJSONFile(t, filepath.Join(replyDir, "codemodel-v2-1.json"), map[string]any{
		"paths": map[string]any{"source": root, "build": binaryDir},
		"configurations": []any{map[string]any{
			"name":     "Debug",
			"projects": []any{map[string]any{"name": "demo", "targetIndexes": indexes}},
			"targets":  refs,
		}},
	})
	writeJSONFile(t, filepath.Join(replyDir, "cmakeFiles-v1-1.json"), map[string]any{
		"paths":  map[string]any{"source": root, "build": binaryDir},
		"inputs": []any{map[string]any{"path": domain.CMakeListsName}},
	})
	writeJSONFile(t, filepath.Join(replyDir, "index-1.json"), map[string]any{
		"reply": map[string]any{"client-mason": map[string]any{
			"codemodel-v2":  map[string]any{"jsonFile": "codemodel-v2-1.json"},
			"cmakeFiles-v1": map[string]any{"jsonFile": "cmakeFiles-v1-1.json"},
		}},
	})
}

func writeProject(t *testing.T, root string) {
	t.Helper()
	require.NoError(t, os.WriteFile(
		filepath.Join(root, domain.CMakeListsName),
		[]byte("cmake_minimum_required(VERSION 3.20)\nproject(demo)\n"), 0o644))
}

func TestConfigureRejectsMissingSourceDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	cfg := projectConfig(root)
	cfg.Settings.SourceDirectory = filepath.Join(root, "does-not-exist")

	problems := mocks.NewMockProblemHandler(ctrl)
	problems.EXPECT().
		HandleProblem(gomock.Any(), domain.ProblemNoSourceDirectory, gomock.Any()).
		Return(nil)

	o := newOrchestrator(t, cfg, mocks.NewMockRunner(ctrl), problems)

	code, err := o.Configure(t.Context(), ports.ConfigureRequest{Trigger: domain.TriggerCommand})
	require.NoError(t, err)
	assert.Equal(t, domain.RetNoSourceDirectory, code)
}

func TestConfigureRejectsMissingProjectFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()

	problems := mocks.NewMockProblemHandler(ctrl)
	problems.EXPECT().
		HandleProblem(gomock.Any(), domain.ProblemMissingCMakeLists, gomock.Any()).
		Return(nil)

	o := newOrchestrator(t, projectConfig(root), mocks.NewMockRunner(ctrl), problems)

	code, err := o.Configure(t.Context(), ports.ConfigureRequest{Trigger: domain.TriggerCommand})
	require.NoError(t, err)
	assert.Equal(t, domain.RetMissingCMakeLists, code)
}

func TestConfigureRunsToolAndRefreshesSnapshots(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	writeProject(t, root)
	binaryDir := filepath.Join(root, "build")

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.RunRequest, _ ports.OutputConsumer) (int, error) {
			assert.Equal(t, "/opt/cmake/bin/cmake", req.Program)
			assert.True(t, slices.Contains(req.Args, "-G"))
			assert.True(t, slices.Contains(req.Args, "Ninja"))
			assert.True(t, slices.Contains(req.Args, "-DCMAKE_BUILD_TYPE:STRING=Debug"))
			writeConfiguredTree(t, root, binaryDir)
			return 0, nil
		})

	o := newOrchestrator(t, projectConfig(root), runner, nil)

	var notified *domain.CodeModel
	unsubscribe := o.OnCodeModelChanged(func(m *domain.CodeModel) { notified = m })
	defer unsubscribe()

	code, err := o.Configure(t.Context(), ports.ConfigureRequest{Trigger: domain.TriggerCommand})
	require.NoError(t, err)
	assert.Equal(t, domain.RetOK, code)

	require.NotNil(t, o.CodeModel())
	assert.Equal(t, []string{"app"}, o.CodeModel().TargetNames())
	assert.Same(t, o.CodeModel(), notified)
	assert.NotEmpty(t, o.CacheEntries())
	assert.Equal(t, "Ninja", o.Generator().Name)
	assert.False(t, o.NeedsReconfigure())

	// The query markers must be on disk before the tool ran.
	queryDir := filepath.Join(domain.FileAPIPath(binaryDir), "query", "client-mason")
	_, statErr := os.Stat(filepath.Join(queryDir, "codemodel-v2"))
	assert.NoError(t, statErr)
}

func TestConfigurePassesThroughToolExitCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	writeProject(t, root)

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(2, nil)

	o := newOrchestrator(t, projectConfig(root), runner, nil)

	code, err := o.Configure(t.Context(), ports.ConfigureRequest{Trigger: domain.TriggerCommand})
	require.NoError(t, err)
	assert.Equal(t, 2, code)
	assert.True(t, o.NeedsReconfigure())
}

func TestConfigureRejectsConcurrentConfigure(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	writeProject(t, root)

	entered := make(chan struct{})
	release := make(chan struct{})
	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, ports.RunRequest, ports.OutputConsumer) (int, error) {
			close(entered)
			<-release
			return 1, nil
		})

	problems := mocks.NewMockProblemHandler(ctrl)
	problems.EXPECT().
		HandleProblem(gomock.Any(), domain.ProblemConfigureRunning, gomock.Any()).
		Return(nil)

	o := newOrchestrator(t, projectConfig(root), runner, problems)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = o.Configure(t.Context(), ports.ConfigureRequest{Trigger: domain.TriggerCommand})
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first configure never reached the tool")
	}

	code, err := o.Configure(t.Context(), ports.ConfigureRequest{Trigger: domain.TriggerCommand})
	require.NoError(t, err)
	assert.Equal(t, domain.RetConfigureRunning, code)

	close(release)
	<-done
}

func TestConfigureCachedConfigurationFastPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	writeProject(t, root)
	writeConfiguredTree(t, root, filepath.Join(root, "build"))

	// No Run expectation: the fast path must not invoke the tool.
	o := newOrchestrator(t, projectConfig(root), mocks.NewMockRunner(ctrl), nil)

	code, err := o.Configure(t.Context(), ports.ConfigureRequest{Trigger: domain.TriggerCachedConfig})
	require.NoError(t, err)
	assert.Equal(t, domain.RetOK, code)
	assert.NotNil(t, o.CodeModel())
	assert.False(t, o.NeedsReconfigure())
}

func TestConfigureFastPathDisabledByConfigureOnOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	writeProject(t, root)
	binaryDir := filepath.Join(root, "build")
	writeConfiguredTree(t, root, binaryDir)

	cfg := projectConfig(root)
	cfg.Settings.ConfigureOnOpen = true

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, ports.RunRequest, ports.OutputConsumer) (int, error) {
			writeConfiguredTree(t, root, binaryDir)
			return 0, nil
		})

	o := newOrchestrator(t, cfg, runner, nil)

	code, err := o.Configure(t.Context(), ports.ConfigureRequest{Trigger: domain.TriggerCachedConfig})
	require.NoError(t, err)
	assert.Equal(t, domain.RetOK, code)
}

func TestBuildWithoutConfiguration(t *testing.T) {
	ctrl := gomock.NewController(t)
	o := newOrchestrator(t, projectConfig(t.TempDir()), mocks.NewMockRunner(ctrl), nil)

	_, err := o.Build(t.Context(), nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoBuildProgram)
}

func TestBuildPassesThroughExitCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	writeProject(t, root)
	binaryDir := filepath.Join(root, "build")

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().
		Capture(gomock.Any(), gomock.Any()).
		Return("cmake version 3.28.1\n", nil).
		AnyTimes()
	runner.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, ports.RunRequest, ports.OutputConsumer) (int, error) {
			writeConfiguredTree(t, root, binaryDir)
			return 0, nil
		})
	runner.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.RunRequest, _ ports.OutputConsumer) (int, error) {
			assert.Equal(t, "--build", req.Args[0])
			assert.True(t, slices.Contains(req.Args, "app"))
			return 2, nil
		})

	o := newOrchestrator(t, projectConfig(root), runner, nil)

	code, err := o.Configure(t.Context(), ports.ConfigureRequest{Trigger: domain.TriggerCommand})
	require.NoError(t, err)
	require.Equal(t, domain.RetOK, code)

	code, err = o.Build(t.Context(), []string{"app"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, code)
}

func TestBuildRefreshesSnapshots(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	writeProject(t, root)
	binaryDir := filepath.Join(root, "build")

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().
		Capture(gomock.Any(), gomock.Any()).
		Return("cmake version 3.28.1\n", nil).
		AnyTimes()
	runner.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, ports.RunRequest, ports.OutputConsumer) (int, error) {
			writeConfiguredTree(t, root, binaryDir)
			return 0, nil
		})
	// The build tool re-ran the generator and produced a second target.
	runner.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, ports.RunRequest, ports.OutputConsumer) (int, error) {
			writeConfiguredTree(t, root, binaryDir, "app", "extra")
			return 0, nil
		})

	o := newOrchestrator(t, projectConfig(root), runner, nil)

	code, err := o.Configure(t.Context(), ports.ConfigureRequest{Trigger: domain.TriggerCommand})
	require.NoError(t, err)
	require.Equal(t, domain.RetOK, code)

	var notified *domain.CodeModel
	unsubscribe := o.OnCodeModelChanged(func(m *domain.CodeModel) { notified = m })
	defer unsubscribe()

	code, err = o.Build(t.Context(), nil, nil)
	require.NoError(t, err)
	require.Equal(t, domain.RetOK, code)

	assert.ElementsMatch(t, []string{"app", "extra"}, o.CodeModel().TargetNames())
	require.NotNil(t, notified)
	assert.ElementsMatch(t, []string{"app", "extra"}, notified.TargetNames())
}

func TestBuildRunsHooks(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	writeProject(t, root)
	binaryDir := filepath.Join(root, "build")

	var calls []string
	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().
		Capture(gomock.Any(), gomock.Any()).
		Return("cmake version 3.28.1\n", nil).
		AnyTimes()
	runner.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, ports.RunRequest, ports.OutputConsumer) (int, error) {
			writeConfiguredTree(t, root, binaryDir)
			return 0, nil
		})
	runner.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, ports.RunRequest, ports.OutputConsumer) (int, error) {
			calls = append(calls, "tool")
			return 0, nil
		})

	o := newHookedOrchestrator(t, projectConfig(root), runner, driver.Hooks{
		PreBuild: func(context.Context) error {
			calls = append(calls, "pre")
			return nil
		},
		PostBuild: func(context.Context) error {
			calls = append(calls, "post")
			return nil
		},
	})

	code, err := o.Configure(t.Context(), ports.ConfigureRequest{Trigger: domain.TriggerCommand})
	require.NoError(t, err)
	require.Equal(t, domain.RetOK, code)

	code, err = o.Build(t.Context(), nil, nil)
	require.NoError(t, err)
	require.Equal(t, domain.RetOK, code)

	assert.Equal(t, []string{"pre", "tool", "post"}, calls)
}

func TestBuildPreHookFailureAbortsBuild(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	writeProject(t, root)
	binaryDir := filepath.Join(root, "build")

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, ports.RunRequest, ports.OutputConsumer) (int, error) {
			writeConfiguredTree(t, root, binaryDir)
			return 0, nil
		})

	o := newHookedOrchestrator(t, projectConfig(root), runner, driver.Hooks{
		PreBuild: func(context.Context) error { return errors.New("generate failed") },
	})

	code, err := o.Configure(t.Context(), ports.ConfigureRequest{Trigger: domain.TriggerCommand})
	require.NoError(t, err)
	require.Equal(t, domain.RetOK, code)

	code, err = o.Build(t.Context(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.RetGeneralError, code)
}

func TestStopWhileIdle(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	writeProject(t, root)

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Kill().Return(nil)

	o := newOrchestrator(t, projectConfig(root), runner, nil)
	require.NoError(t, o.Stop(t.Context()))
}

func TestStopDuringBuildSkipsPostProcessing(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	writeProject(t, root)
	binaryDir := filepath.Join(root, "build")

	postCalled := false
	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().
		Capture(gomock.Any(), gomock.Any()).
		Return("cmake version 3.28.1\n", nil).
		AnyTimes()
	runner.EXPECT().Kill().Return(nil)
	runner.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, ports.RunRequest, ports.OutputConsumer) (int, error) {
			writeConfiguredTree(t, root, binaryDir)
			return 0, nil
		})

	var o *driver.Orchestrator
	runner.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ ports.RunRequest, _ ports.OutputConsumer) (int, error) {
			require.NoError(t, o.Stop(ctx))
			writeConfiguredTree(t, root, binaryDir, "app", "extra")
			return 0, nil
		})

	o = newHookedOrchestrator(t, projectConfig(root), runner, driver.Hooks{
		PostBuild: func(context.Context) error {
			postCalled = true
			return nil
		},
	})

	code, err := o.Configure(t.Context(), ports.ConfigureRequest{Trigger: domain.TriggerCommand})
	require.NoError(t, err)
	require.Equal(t, domain.RetOK, code)

	code, err = o.Build(t.Context(), nil, nil)
	require.NoError(t, err)
	require.Equal(t, domain.RetOK, code)

	assert.False(t, postCalled)
	assert.ElementsMatch(t, []string{"app"}, o.CodeModel().TargetNames())
}

func TestSetKitIncompatibleRemovesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	writeProject(t, root)
	binaryDir := filepath.Join(root, "build")
	writeConfiguredTree(t, root, binaryDir)

	o := newOrchestrator(t, projectConfig(root), mocks.NewMockRunner(ctrl), nil)

	code, err := o.Configure(t.Context(), ports.ConfigureRequest{Trigger: domain.TriggerCachedConfig})
	require.NoError(t, err)
	require.Equal(t, domain.RetOK, code)

	err = o.SetKit(t.Context(), &domain.Kit{
		Name:      "clang",
		Compilers: map[string]string{"C": "/usr/bin/clang"},
	})
	require.NoError(t, err)

	_, statErr := os.Stat(domain.CacheFile(binaryDir))
	assert.True(t, os.IsNotExist(statErr))
	assert.True(t, o.NeedsReconfigure())
}

func TestSetVariantMarksSessionStale(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	writeProject(t, root)
	writeConfiguredTree(t, root, filepath.Join(root, "build"))

	o := newOrchestrator(t, projectConfig(root), mocks.NewMockRunner(ctrl), nil)

	code, err := o.Configure(t.Context(), ports.ConfigureRequest{Trigger: domain.TriggerCachedConfig})
	require.NoError(t, err)
	require.Equal(t, domain.RetOK, code)
	require.False(t, o.NeedsReconfigure())

	release := domain.Variant{BuildType: "Release"}
	require.NoError(t, o.SetVariant(t.Context(), &release))
	assert.True(t, o.NeedsReconfigure())
}

func TestTestCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	writeProject(t, root)
	writeConfiguredTree(t, root, filepath.Join(root, "build"))

	o := newOrchestrator(t, projectConfig(root), mocks.NewMockRunner(ctrl), nil)

	_, err := o.TestCommand()
	require.Error(t, err)

	code, err := o.Configure(t.Context(), ports.ConfigureRequest{Trigger: domain.TriggerCachedConfig})
	require.NoError(t, err)
	require.Equal(t, domain.RetOK, code)

	argv, err := o.TestCommand()
	require.NoError(t, err)
	assert.Equal(t, "ctest", argv[0])
	assert.Contains(t, argv, "--test-dir")
	assert.Contains(t, argv, "-C")
}
