// Package app implements the application layer for mason.
package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"go.trai.ch/mason/internal/adapters/console"
	"go.trai.ch/mason/internal/adapters/detector"
	"go.trai.ch/mason/internal/adapters/watcher"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/mason/internal/engine/driver"
)

// ExitError carries a process exit status from an operation through the CLI
// layer to main.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return "exit status " + strconv.Itoa(e.Code)
}

// Status converts the code to a valid process exit status. The negative
// session codes all collapse to 1.
func (e *ExitError) Status() int {
	if e.Code > 0 && e.Code < 256 {
		return e.Code
	}
	return 1
}

// DriverFactory builds the driver for a loaded project configuration.
type DriverFactory func(p driver.Params) (ports.Driver, error)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	runner       ports.Runner
	logger       ports.Logger
	tracer       ports.Tracer
	watch        ports.Watcher
	filter       *watcher.ChangeFilter

	stdout    io.Writer
	stderr    io.Writer
	newDriver DriverFactory

	// stopOnCancel unregisters the session's cancellation callback.
	stopOnCancel func() bool
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	runner ports.Runner,
	log ports.Logger,
	tracer ports.Tracer,
	watch ports.Watcher,
	filter *watcher.ChangeFilter,
) *App {
	return &App{
		configLoader: loader,
		runner:       runner,
		logger:       log,
		tracer:       tracer,
		watch:        watch,
		filter:       filter,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		newDriver: func(p driver.Params) (ports.Driver, error) {
			return driver.New(p)
		},
	}
}

// WithStreams redirects the operation output streams.
// This is primarily used for testing.
func (a *App) WithStreams(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithDriverFactory replaces driver construction.
// This is primarily used for testing.
func (a *App) WithDriverFactory(fn DriverFactory) *App {
	a.newDriver = fn
	return a
}

// SelectionOptions names the kit, variant and preset overriding the settings
// file's active selection. Empty fields keep the file's choice.
type SelectionOptions struct {
	Kit     string
	Variant string
	Preset  string
}

// ConfigureOptions configures the Configure operation.
type ConfigureOptions struct {
	Selection  SelectionOptions
	OutputMode string
	ExtraArgs  []string

	// FromCache allows reusing an existing configuration without running
	// the tool.
	FromCache bool
}

// Configure runs one configure and returns the process exit code.
func (a *App) Configure(ctx context.Context, opts ConfigureOptions) (int, error) {
	drv, _, err := a.openSession(ctx, opts.Selection)
	if err != nil {
		return 1, err
	}
	defer a.closeSession(ctx, drv)

	trigger := domain.TriggerCommand
	if opts.FromCache {
		trigger = domain.TriggerCachedConfig
	}

	consumer := a.consumer(opts.OutputMode, "cmake")
	code, err := drv.Configure(ctx, ports.ConfigureRequest{
		Trigger:                trigger,
		ExtraArgs:              opts.ExtraArgs,
		Consumer:               consumer,
		UseCachedConfiguration: opts.FromCache,
	})
	if err != nil {
		return 1, err
	}
	a.reportCounts("configure", code, consumer)
	return code, nil
}

// BuildOptions configures the Build operation.
type BuildOptions struct {
	Selection  SelectionOptions
	OutputMode string
	Targets    []string
}

// Build builds the given targets, configuring first when the session is
// stale, and returns the process exit code.
func (a *App) Build(ctx context.Context, opts BuildOptions) (int, error) {
	drv, _, err := a.openSession(ctx, opts.Selection)
	if err != nil {
		return 1, err
	}
	defer a.closeSession(ctx, drv)

	if code, err := a.ensureConfigured(ctx, drv, opts.OutputMode); err != nil || code != domain.RetOK {
		return code, err
	}

	consumer := a.consumer(opts.OutputMode, "build")
	code, err := drv.Build(ctx, opts.Targets, consumer)
	if err != nil {
		return 1, err
	}
	a.reportCounts("build", code, consumer)
	return code, nil
}

// TestOptions configures the Test operation.
type TestOptions struct {
	Selection  SelectionOptions
	OutputMode string
}

// Test runs the test tool for the current configuration and returns the
// process exit code.
func (a *App) Test(ctx context.Context, opts TestOptions) (int, error) {
	drv, cfg, err := a.openSession(ctx, opts.Selection)
	if err != nil {
		return 1, err
	}
	defer a.closeSession(ctx, drv)

	if code, err := a.ensureConfigured(ctx, drv, opts.OutputMode); err != nil || code != domain.RetOK {
		return code, err
	}

	argv, err := drv.TestCommand()
	if err != nil {
		return 1, err
	}

	consumer := a.consumer(opts.OutputMode, "test")
	code, err := a.runner.Run(ctx, ports.RunRequest{
		Program: argv[0],
		Args:    argv[1:],
		Dir:     cfg.Root,
	}, consumer)
	if err != nil {
		return 1, err
	}
	return code, nil
}

// WatchOptions configures the Watch operation.
type WatchOptions struct {
	Selection  SelectionOptions
	OutputMode string
}

// Watch configures once, then reconfigures on every debounced change to a
// configure input until the context is canceled.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	drv, cfg, err := a.openSession(ctx, opts.Selection)
	if err != nil {
		return err
	}
	defer a.closeSession(ctx, drv)

	if code, err := a.ensureConfigured(ctx, drv, opts.OutputMode); err != nil {
		return err
	} else if code != domain.RetOK {
		return &ExitError{Code: code}
	}

	// Judge the first save of every input against its content at configure
	// time, so a touch-only write straight after startup is ignored too.
	a.filter.Reset()
	a.filter.Prime(drv.InputFiles())

	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		a.logger.Info("change detected: " + strings.Join(paths, ", "))
		consumer := a.consumer(opts.OutputMode, "cmake")
		code, err := drv.Configure(ctx, ports.ConfigureRequest{
			Trigger:  domain.TriggerFileSave,
			Consumer: consumer,
		})
		switch {
		case err != nil:
			a.logger.Error(err)
		case code != domain.RetOK:
			a.logger.Warn("configure exited with status " + strconv.Itoa(code))
		default:
			a.reportCounts("configure", code, consumer)
			// The configure may have grown or shrunk the input list.
			a.filter.Prime(drv.InputFiles())
		}
	})

	if err := a.watch.Start(ctx, cfg.Root); err != nil {
		return err
	}
	a.logger.Info("watching " + cfg.Root)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for event := range a.watch.Events() {
			if !configureInput(event.Path) {
				continue
			}
			if event.Operation == ports.OpWrite && !a.filter.Changed(event.Path) {
				// Saved without content change; nothing to redo.
				continue
			}
			debouncer.Add(event.Path)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		err := a.watch.Stop()
		debouncer.Flush()
		return err
	})
	return g.Wait()
}

// configureInput reports whether a path can invalidate the configuration.
func configureInput(path string) bool {
	switch filepath.Base(path) {
	case domain.CMakeListsName, domain.SettingsFileName:
		return true
	}
	return filepath.Ext(path) == ".cmake"
}

// CacheOptions configures the Cache operation.
type CacheOptions struct {
	Selection SelectionOptions

	// Advanced includes entries the generator marks as advanced.
	Advanced bool
}

// Cache prints the parsed cache of the current configuration.
func (a *App) Cache(ctx context.Context, opts CacheOptions) (int, error) {
	drv, _, err := a.openSession(ctx, opts.Selection)
	if err != nil {
		return 1, err
	}
	defer a.closeSession(ctx, drv)

	if code, err := a.ensureConfigured(ctx, drv, "plain"); err != nil || code != domain.RetOK {
		return code, err
	}

	a.renderCache(drv.CacheEntries(), opts.Advanced)
	return domain.RetOK, nil
}

// openSession loads the project configuration, builds the driver and applies
// the selection overrides.
func (a *App) openSession(ctx context.Context, sel SelectionOptions) (ports.Driver, *domain.ProjectConfig, error) {
	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return nil, nil, err
	}

	drv, err := a.newDriver(driver.Params{
		Logger:   a.logger,
		Tracer:   a.tracer,
		Runner:   a.runner,
		Problems: &problemReporter{logger: a.logger},
		Config:   cfg,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := a.applySelection(ctx, drv, cfg, sel); err != nil {
		_ = drv.Dispose(ctx)
		return nil, nil, err
	}

	// A canceled context (Ctrl-C, SIGTERM) stops whatever the driver is
	// doing; closeSession unregisters the callback again.
	a.stopOnCancel = context.AfterFunc(ctx, func() {
		if err := drv.Stop(context.WithoutCancel(ctx)); err != nil {
			a.logger.Error(err)
		}
	})
	return drv, cfg, nil
}

func (a *App) applySelection(ctx context.Context, drv ports.Driver, cfg *domain.ProjectConfig, sel SelectionOptions) error {
	if sel.Kit != "" {
		kit, ok := cfg.FindKit(sel.Kit)
		if !ok {
			return domain.Detail(domain.ErrKitNotFound, "kit", sel.Kit)
		}
		if err := drv.SetKit(ctx, kit); err != nil {
			return err
		}
	}
	if sel.Variant != "" {
		variant, ok := cfg.Variants[sel.Variant]
		if !ok {
			return domain.Detail(domain.ErrVariantNotFound, "variant", sel.Variant)
		}
		if err := drv.SetVariant(ctx, &variant); err != nil {
			return err
		}
	}
	if sel.Preset != "" {
		preset, ok := cfg.FindPreset(sel.Preset)
		if !ok {
			return domain.Detail(domain.ErrPresetNotFound, "preset", sel.Preset)
		}
		// One named preset serves all three roles; each role reads only
		// the fields that concern it.
		triple := domain.SelectedPresets{Configure: preset, Build: preset, Test: preset}
		if err := drv.SetPreset(ctx, triple); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) closeSession(ctx context.Context, drv ports.Driver) {
	if a.stopOnCancel != nil {
		a.stopOnCancel()
		a.stopOnCancel = nil
	}
	if err := drv.Dispose(ctx); err != nil {
		a.logger.Error(err)
	}
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.Error(err)
	}
}

// ensureConfigured configures when the session is stale, preferring the
// cached-configuration fast path.
func (a *App) ensureConfigured(ctx context.Context, drv ports.Driver, outputMode string) (int, error) {
	if !drv.NeedsReconfigure() {
		return domain.RetOK, nil
	}
	consumer := a.consumer(outputMode, "cmake")
	return drv.Configure(ctx, ports.ConfigureRequest{
		Trigger:                domain.TriggerCachedConfig,
		Consumer:               consumer,
		UseCachedConfiguration: true,
	})
}

func (a *App) consumer(outputMode string, prefix string) *console.Consumer {
	mode := detector.ResolveMode(detector.DetectEnvironment(), outputMode)
	if mode == detector.ModePlain {
		prefix = ""
	}
	return console.NewConsumer(a.stdout, a.stderr, prefix)
}

func (a *App) reportCounts(operation string, code int, consumer *console.Consumer) {
	counts := consumer.Counts()
	summary := operation + " finished with " +
		strconv.Itoa(counts.Errors) + " error(s), " +
		strconv.Itoa(counts.Warnings) + " warning(s)"
	if code != domain.RetOK {
		a.logger.Warn(summary + ", exit status " + strconv.Itoa(code))
		return
	}
	a.logger.Info(summary)
}
