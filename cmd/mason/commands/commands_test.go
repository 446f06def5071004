package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mason/cmd/mason/commands"
	"go.trai.ch/mason/internal/app"
	"go.trai.ch/mason/internal/build"
)

type mockApp struct {
	configureFunc func(ctx context.Context, opts app.ConfigureOptions) (int, error)
	buildFunc     func(ctx context.Context, opts app.BuildOptions) (int, error)
	testFunc      func(ctx context.Context, opts app.TestOptions) (int, error)
	watchFunc     func(ctx context.Context, opts app.WatchOptions) error
	cacheFunc     func(ctx context.Context, opts app.CacheOptions) (int, error)
	kitsFunc      func(ctx context.Context, opts app.KitsOptions) (int, error)
}

func (m *mockApp) Configure(ctx context.Context, opts app.ConfigureOptions) (int, error) {
	if m.configureFunc != nil {
		return m.configureFunc(ctx, opts)
	}
	return 0, nil
}

func (m *mockApp) Build(ctx context.Context, opts app.BuildOptions) (int, error) {
	if m.buildFunc != nil {
		return m.buildFunc(ctx, opts)
	}
	return 0, nil
}

func (m *mockApp) Test(ctx context.Context, opts app.TestOptions) (int, error) {
	if m.testFunc != nil {
		return m.testFunc(ctx, opts)
	}
	return 0, nil
}

func (m *mockApp) Watch(ctx context.Context, opts app.WatchOptions) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Cache(ctx context.Context, opts app.CacheOptions) (int, error) {
	if m.cacheFunc != nil {
		return m.cacheFunc(ctx, opts)
	}
	return 0, nil
}

func (m *mockApp) Kits(ctx context.Context, opts app.KitsOptions) (int, error) {
	if m.kitsFunc != nil {
		return m.kitsFunc(ctx, opts)
	}
	return 0, nil
}

func TestCommands_Configure(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.ConfigureOptions
		called := false

		mock := &mockApp{
			configureFunc: func(_ context.Context, opts app.ConfigureOptions) (int, error) {
				captured = opts
				called = true
				return 0, nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"configure", "--kit", "gcc", "--variant", "release", "--from-cache", "--", "-Wno-dev"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, "gcc", captured.Selection.Kit)
		assert.Equal(t, "release", captured.Selection.Variant)
		assert.True(t, captured.FromCache)
		assert.Equal(t, []string{"-Wno-dev"}, captured.ExtraArgs)
	})

	t.Run("maps a nonzero status to an exit error", func(t *testing.T) {
		mock := &mockApp{
			configureFunc: func(_ context.Context, _ app.ConfigureOptions) (int, error) {
				return 2, nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"configure"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		var exit *app.ExitError
		require.ErrorAs(t, err, &exit)
		assert.Equal(t, 2, exit.Code)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		mock := &mockApp{
			configureFunc: func(_ context.Context, _ app.ConfigureOptions) (int, error) {
				return 1, errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"configure"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Build(t *testing.T) {
	var captured app.BuildOptions
	var targets []string

	mock := &mockApp{
		buildFunc: func(_ context.Context, opts app.BuildOptions) (int, error) {
			captured = opts
			targets = opts.Targets
			return 0, nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"build", "app", "tests", "--preset", "ci", "-o", "plain"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"app", "tests"}, targets)
	assert.Equal(t, "ci", captured.Selection.Preset)
	assert.Equal(t, "plain", captured.OutputMode)
}

func TestCommands_Test(t *testing.T) {
	mock := &mockApp{
		testFunc: func(_ context.Context, _ app.TestOptions) (int, error) {
			return 8, nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"test"})
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

	err := cli.Execute(context.Background())
	var exit *app.ExitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 8, exit.Code)
}

func TestCommands_Cache(t *testing.T) {
	var captured app.CacheOptions

	mock := &mockApp{
		cacheFunc: func(_ context.Context, opts app.CacheOptions) (int, error) {
			captured = opts
			return 0, nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"cache", "--advanced"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, captured.Advanced)
}

func TestCommands_Kits(t *testing.T) {
	var captured app.KitsOptions

	mock := &mockApp{
		kitsFunc: func(_ context.Context, opts app.KitsOptions) (int, error) {
			captured = opts
			return 0, nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"kits", "--identify"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, captured.Identify)
}

func TestCommands_Version(t *testing.T) {
	mock := &mockApp{}
	cli := commands.New(mock)

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), build.Version)
}
