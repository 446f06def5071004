package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"go.trai.ch/mason/internal/app"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/mason/internal/core/ports/mocks"
	"go.trai.ch/mason/internal/engine/driver"
)

func projectConfig(root string) *domain.ProjectConfig {
	return &domain.ProjectConfig{
		Root:     root,
		Settings: domain.Settings{BinaryDirectory: "build"},
	}
}

func newComponents(ctrl *gomock.Controller) (*app.Components, *mocks.MockConfigLoader, *mocks.MockLogger) {
	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	mockTracer := mocks.NewMockTracer(ctrl)
	mockTracer.EXPECT().Shutdown(gomock.Any()).Return(nil).AnyTimes()

	application := app.New(mockLoader, mocks.NewMockRunner(ctrl), mockLogger, mockTracer, nil, nil)
	return &app.Components{App: application, Logger: mockLogger}, mockLoader, mockLogger
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	components, _, _ := newComponents(ctrl)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 when the command execution fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	components, mockLoader, mockLogger := newComponents(ctrl)
	mockLoader.EXPECT().Load(".").Return(nil, errors.New("load failed"))
	mockLogger.EXPECT().Error(gomock.Any())

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"configure"}, stderr, provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_ExitStatus verifies that a nonzero tool status becomes the process
// exit status.
func TestRun_ExitStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	components, mockLoader, _ := newComponents(ctrl)
	mockLoader.EXPECT().Load(".").Return(projectConfig(t.TempDir()), nil)

	mockDriver := mocks.NewMockDriver(ctrl)
	mockDriver.EXPECT().Configure(gomock.Any(), gomock.Any()).Return(2, nil)
	mockDriver.EXPECT().Dispose(gomock.Any()).Return(nil)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"configure", "-o", "plain"}, stderr, provider, func(a *app.App) {
		a.WithDriverFactory(func(driver.Params) (ports.Driver, error) {
			return mockDriver, nil
		})
	})
	assert.Equal(t, 2, exitCode)
}
