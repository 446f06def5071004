// Package driver orchestrates the configure, build and test lifecycle for
// one project root. It owns the single-flight guarantees, the argument
// construction and the cached result snapshots; actually talking to the tool
// is delegated to a backend.
package driver

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"go.trai.ch/zerr"

	"go.trai.ch/mason/internal/adapters/cachefile"
	"go.trai.ch/mason/internal/adapters/fileapi"
	"go.trai.ch/mason/internal/adapters/inputs"
	"go.trai.ch/mason/internal/adapters/probe"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
)

// Params carries the collaborators and the resolved project configuration an
// orchestrator is created from.
type Params struct {
	Logger   ports.Logger
	Tracer   ports.Tracer
	Runner   ports.Runner
	Problems ports.ProblemHandler
	Config   *domain.ProjectConfig

	// CMakePath overrides tool lookup; empty resolves cmake from PATH.
	CMakePath string

	// Prober overrides generator probing, mainly for tests.
	Prober generatorProber

	// Hooks run around every build; nil hooks are no-ops.
	Hooks Hooks
}

// Hooks are the overridable pre and post build extension points.
type Hooks struct {
	PreBuild  func(ctx context.Context) error
	PostBuild func(ctx context.Context) error
}

// Orchestrator implements ports.Driver for one project root.
type Orchestrator struct {
	logger    ports.Logger
	tracer    ports.Tracer
	runner    ports.Runner
	problems  ports.ProblemHandler
	prober    generatorProber
	fileAPI   *fileapi.Reader
	cmakePath string
	hooks     Hooks

	toolVerOnce sync.Once
	toolVer     domain.ToolVersion

	mu               sync.Mutex
	cfg              *domain.ProjectConfig
	activeKit        *domain.Kit
	activeVariant    *domain.Variant
	activePresets    domain.SelectedPresets
	configureRunning bool
	buildRunning     bool
	stopRequested    bool

	sess       *session
	backend    backend
	configured bool
	dirty      bool
	cache      *cachefile.Store
	model      *domain.CodeModel
	inputSet   *inputs.FileSet

	subMu   sync.Mutex
	subs    map[int]func(*domain.CodeModel)
	nextSub int
}

var _ ports.Driver = (*Orchestrator)(nil)

// New creates the orchestrator for the given configuration and resolves the
// tool executable. The initial kit and variant selection comes from the
// configuration's active names.
func New(p Params) (*Orchestrator, error) {
	cmakePath := p.CMakePath
	if cmakePath == "" {
		resolved, err := exec.LookPath("cmake")
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrCMakeNotFound.Error())
		}
		cmakePath = resolved
	}

	prober := p.Prober
	if prober == nil {
		prober = probe.NewProber(p.Logger)
	}

	o := &Orchestrator{
		logger:    p.Logger,
		tracer:    p.Tracer,
		runner:    p.Runner,
		problems:  p.Problems,
		prober:    prober,
		fileAPI:   fileapi.NewReader(p.Logger),
		cmakePath: cmakePath,
		hooks:     p.Hooks,
		cfg:       p.Config,
		subs:      make(map[int]func(*domain.CodeModel)),
	}

	if p.Config.ActiveKit != "" {
		if kit, ok := p.Config.FindKit(p.Config.ActiveKit); ok {
			o.activeKit = kit
		}
	}
	if p.Config.ActiveVariant != "" {
		if variant, ok := p.Config.Variants[p.Config.ActiveVariant]; ok {
			o.activeVariant = &variant
		}
	}
	return o, nil
}

// Configure implements ports.Driver.
func (o *Orchestrator) Configure(ctx context.Context, req ports.ConfigureRequest) (int, error) {
	if code, ok := o.beginConfigure(ctx); !ok {
		return code, nil
	}
	defer o.endConfigure()

	code, err := o.configure(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return code, err
		}
		o.logger.Error(err)
		return domain.RetGeneralError, nil
	}
	return code, nil
}

func (o *Orchestrator) beginConfigure(ctx context.Context) (int, bool) {
	o.mu.Lock()
	configureRunning, buildRunning := o.configureRunning, o.buildRunning
	if !configureRunning && !buildRunning {
		o.configureRunning = true
	}
	o.mu.Unlock()

	switch {
	case configureRunning:
		o.reportProblem(ctx, domain.ProblemConfigureRunning, "")
		return domain.RetConfigureRunning, false
	case buildRunning:
		o.reportProblem(ctx, domain.ProblemBuildRunning, "")
		return domain.RetBuildRunning, false
	}
	return 0, true
}

func (o *Orchestrator) endConfigure() {
	o.mu.Lock()
	o.configureRunning = false
	o.mu.Unlock()
}

func (o *Orchestrator) configure(ctx context.Context, req ports.ConfigureRequest) (int, error) {
	sess, err := o.newSession()
	if err != nil {
		return domain.RetGeneralError, err
	}

	if info, statErr := os.Stat(sess.sourceDir); statErr != nil || !info.IsDir() {
		o.reportProblem(ctx, domain.ProblemNoSourceDirectory, sess.sourceDir)
		return domain.RetNoSourceDirectory, nil
	}
	cmakeLists := filepath.Join(sess.sourceDir, domain.CMakeListsName)
	if _, statErr := os.Stat(cmakeLists); statErr != nil {
		o.reportProblem(ctx, domain.ProblemMissingCMakeLists, cmakeLists)
		return domain.RetMissingCMakeLists, nil
	}

	if o.wantsFastPath(req) && o.loadExisting(sess) {
		return domain.RetOK, nil
	}

	if err := o.cleanIfStale(sess); err != nil {
		return domain.RetGeneralError, err
	}

	b := o.ensureBackend(sess)
	args := trimmedArgs(cacheArguments(sess), expandArgs(sess, sess.settings.ConfigureArgs), req.ExtraArgs)

	ctx, span := o.tracer.StartSpan(ctx, "configure")
	span.SetAttr("generator", sess.generator.Name)
	span.SetAttr("trigger", int(req.Trigger))

	code, err := b.Configure(ctx, sess, args, req.Consumer)
	if err != nil || code != domain.RetOK {
		span.End(err)
		return code, err
	}

	err = o.refresh(ctx, b, sess)
	span.End(err)
	if err != nil {
		return domain.RetGeneralError, err
	}
	return domain.RetOK, nil
}

// wantsFastPath reports whether this configure may reuse an existing
// configuration without invoking the tool. Only the very first configure of
// a session qualifies, and only when configure-on-open is off.
func (o *Orchestrator) wantsFastPath(req ports.ConfigureRequest) bool {
	if !req.UseCachedConfiguration && req.Trigger != domain.TriggerCachedConfig {
		return false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.configured && !o.cfg.Settings.ConfigureOnOpen
}

// loadExisting tries the cached-configuration fast path: parse the persisted
// cache and the file-api replies left by an earlier run. Any missing or
// stale piece falls through to a real configure.
func (o *Orchestrator) loadExisting(sess *session) bool {
	store, err := cachefile.Load(domain.CacheFile(sess.binaryDir), o.logger)
	if err != nil {
		return false
	}
	if gen, ok := store.Get("CMAKE_GENERATOR"); !ok || gen.Value != sess.generator.Name {
		return false
	}
	model, err := o.fileAPI.ReadCodeModel(sess.binaryDir)
	if err != nil {
		return false
	}
	paths, err := o.fileAPI.ReadInputs(sess.binaryDir)
	if err != nil {
		return false
	}
	set := inputs.Create(paths)
	if set.Empty() || set.CheckOutOfDate() {
		return false
	}

	o.mu.Lock()
	o.sess = sess
	o.cache = store
	o.inputSet = set
	o.configured = true
	o.dirty = false
	o.mu.Unlock()
	o.replaceModel(model)
	o.logger.Info("reusing cached configuration in " + sess.binaryDir)
	return true
}

// cleanIfStale removes the persisted cache when the existing configuration
// was produced with a different generator. The tool refuses to reconfigure
// across generators otherwise.
func (o *Orchestrator) cleanIfStale(sess *session) error {
	store, err := cachefile.Load(domain.CacheFile(sess.binaryDir), o.logger)
	if err != nil {
		// No readable cache means nothing to clean.
		return nil
	}
	gen, ok := store.Get("CMAKE_GENERATOR")
	if !ok || gen.Value == sess.generator.Name {
		return nil
	}
	o.logger.Info("generator changed from " + gen.Value + " to " + sess.generator.Name + ", cleaning")
	return o.removeConfiguration(sess.binaryDir)
}

func (o *Orchestrator) removeConfiguration(binaryDir string) error {
	if err := os.Remove(domain.CacheFile(binaryDir)); err != nil && !os.IsNotExist(err) {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := os.RemoveAll(filepath.Join(binaryDir, "CMakeFiles")); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	return nil
}

// ensureBackend returns the backend for the session, replacing a previous
// one when the session parameters no longer match.
func (o *Orchestrator) ensureBackend(sess *session) backend {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.backend == nil {
		if o.cfg.Settings.UseProtocolServer {
			o.backend = newProtocolBackend(o.logger, o.cmakePath, o.markDirty)
		} else {
			o.backend = newOneshotBackend(o.runner, o.fileAPI, o.cmakePath)
		}
	}
	o.sess = sess
	return o.backend
}

func (o *Orchestrator) markDirty() {
	o.mu.Lock()
	o.dirty = true
	o.mu.Unlock()
}

// refresh reloads the cache, code model and input snapshot after a
// successful configure and notifies code model subscribers.
func (o *Orchestrator) refresh(ctx context.Context, b backend, sess *session) error {
	store, err := cachefile.Load(domain.CacheFile(sess.binaryDir), o.logger)
	if err != nil {
		return err
	}
	model, err := b.CodeModel(ctx, sess)
	if err != nil {
		return err
	}
	paths, err := b.InputFiles(ctx, sess)
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.cache = store
	o.inputSet = inputs.Create(paths)
	o.configured = true
	o.dirty = false
	o.mu.Unlock()
	o.replaceModel(model)
	return nil
}

// Build implements ports.Driver.
func (o *Orchestrator) Build(ctx context.Context, targets []string, consumer ports.OutputConsumer) (int, error) {
	o.mu.Lock()
	buildRunning, configureRunning := o.buildRunning, o.configureRunning
	if !buildRunning && !configureRunning {
		o.buildRunning = true
		// A stop requested before this build does not apply to it.
		o.stopRequested = false
	}
	sess := o.sess
	configured := o.configured
	o.mu.Unlock()

	switch {
	case buildRunning:
		o.reportProblem(ctx, domain.ProblemBuildRunning, "")
		return domain.RetBuildRunning, nil
	case configureRunning:
		o.reportProblem(ctx, domain.ProblemConfigureRunning, "")
		return domain.RetConfigureRunning, nil
	}
	defer func() {
		o.mu.Lock()
		o.buildRunning = false
		o.stopRequested = false
		o.mu.Unlock()
	}()

	if !configured || sess == nil {
		return domain.RetGeneralError, domain.Detail(domain.ErrNoBuildProgram, "reason", "not configured")
	}

	if o.hooks.PreBuild != nil {
		if err := o.hooks.PreBuild(ctx); err != nil {
			o.logger.Error(zerr.Wrap(err, domain.ErrBuildFailed.Error()))
			return domain.RetGeneralError, nil
		}
	}

	args := buildArguments(sess, targets, o.toolVersion(ctx))
	ctx, span := o.tracer.StartSpan(ctx, "build")
	span.SetAttr("targets", targets)

	code, err := o.runner.Run(ctx, ports.RunRequest{
		Program: o.cmakePath,
		Args:    args,
		Dir:     sess.binaryDir,
		Env:     sess.env,
	}, consumer)
	span.End(err)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return code, err
		}
		o.logger.Error(zerr.Wrap(err, domain.ErrBuildFailed.Error()))
		return domain.RetGeneralError, nil
	}
	if code == domain.RetOK {
		o.postBuild(ctx, sess)
	}
	return code, nil
}

// toolVersion probes the tool's reported version once per orchestrator. A
// failed or unparsable probe yields the zero version, which argument
// construction treats as too old for the tool-native parallelism flag.
func (o *Orchestrator) toolVersion(ctx context.Context) domain.ToolVersion {
	o.toolVerOnce.Do(func() {
		out, err := o.runner.Capture(ctx, ports.RunRequest{
			Program: o.cmakePath,
			Args:    []string{"--version"},
		})
		if err != nil {
			o.logger.Debug("tool version probe failed: " + err.Error())
			return
		}
		o.toolVer = domain.ParseToolVersion(out)
	})
	return o.toolVer
}

// postBuild runs the post-build hook and reloads the cache and code model.
// The build tool may have re-run the generator, so the snapshots can be
// stale after a successful build. Skipped entirely when a stop was requested
// mid-build.
func (o *Orchestrator) postBuild(ctx context.Context, sess *session) {
	o.mu.Lock()
	stopped := o.stopRequested
	o.mu.Unlock()
	if stopped {
		o.logger.Debug("stop requested, skipping post-build processing")
		return
	}

	if o.hooks.PostBuild != nil {
		if err := o.hooks.PostBuild(ctx); err != nil {
			o.logger.Error(err)
		}
	}

	b := o.ensureBackend(sess)
	if err := o.refresh(ctx, b, sess); err != nil {
		// The build itself succeeded; a failed snapshot reload only
		// degrades the accessors until the next configure.
		o.logger.Warn("post-build snapshot reload failed: " + err.Error())
	}
}

// TestCommand implements ports.Driver.
func (o *Orchestrator) TestCommand() ([]string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.configured || o.sess == nil {
		return nil, domain.Detail(domain.ErrNoBuildProgram, "reason", "not configured")
	}
	return testArguments(o.sess), nil
}

// Stop implements ports.Driver. It is safe to call when nothing is running;
// the stop request only skips post-processing of an operation actually in
// flight.
func (o *Orchestrator) Stop(ctx context.Context) error {
	o.mu.Lock()
	o.stopRequested = true
	b := o.backend
	o.mu.Unlock()

	err := o.runner.Kill()
	if pb, ok := b.(*protocolBackend); ok {
		pb.Interrupt(ctx)
	}
	return err
}

// SetKit implements ports.Driver. Switching to a kit with different
// compilers or toolchain file removes the persisted cache so the next
// configure starts clean.
func (o *Orchestrator) SetKit(_ context.Context, kit *domain.Kit) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.configureRunning {
		return domain.Detail(domain.ErrConfigureRunning, "operation", "set-kit")
	}
	if o.buildRunning {
		return domain.Detail(domain.ErrBuildRunning, "operation", "set-kit")
	}

	if o.configured && o.sess != nil && !kitsCompatible(o.activeKit, kit) {
		if err := o.removeConfiguration(o.sess.binaryDir); err != nil {
			return err
		}
		o.configured = false
	}
	o.activeKit = kit
	o.dirty = true
	return nil
}

// SetVariant implements ports.Driver.
func (o *Orchestrator) SetVariant(_ context.Context, variant *domain.Variant) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.configureRunning {
		return domain.Detail(domain.ErrConfigureRunning, "operation", "set-variant")
	}
	if o.buildRunning {
		return domain.Detail(domain.ErrBuildRunning, "operation", "set-variant")
	}
	o.activeVariant = variant
	o.dirty = true
	return nil
}

// SetPreset switches the session to preset-driven mode with the given
// configure/build/test triple. Passing the zero triple returns to kit-driven
// mode.
func (o *Orchestrator) SetPreset(_ context.Context, presets domain.SelectedPresets) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.configureRunning {
		return domain.Detail(domain.ErrConfigureRunning, "operation", "set-preset")
	}
	if o.buildRunning {
		return domain.Detail(domain.ErrBuildRunning, "operation", "set-preset")
	}
	o.activePresets = presets
	o.dirty = true
	return nil
}

// kitsCompatible reports whether two kits produce the same toolchain
// defines, in which case a switch needs no clean reconfigure.
func kitsCompatible(a, b *domain.Kit) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ToolchainFile != b.ToolchainFile || len(a.Compilers) != len(b.Compilers) {
		return false
	}
	for lang, compiler := range a.Compilers {
		if b.Compilers[lang] != compiler {
			return false
		}
	}
	return true
}

// Generator implements ports.Driver.
func (o *Orchestrator) Generator() *domain.Generator {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.sess == nil {
		return nil
	}
	gen := o.sess.generator
	return &gen
}

// CacheEntries implements ports.Driver.
func (o *Orchestrator) CacheEntries() []domain.CacheEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cache == nil {
		return nil
	}
	return o.cache.Entries()
}

// CodeModel implements ports.Driver.
func (o *Orchestrator) CodeModel() *domain.CodeModel {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.model
}

// InputFiles implements ports.Driver.
func (o *Orchestrator) InputFiles() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inputSet == nil {
		return nil
	}
	return o.inputSet.Paths()
}

// NeedsReconfigure implements ports.Driver.
func (o *Orchestrator) NeedsReconfigure() bool {
	o.mu.Lock()
	configured := o.configured
	dirty := o.dirty
	set := o.inputSet
	o.mu.Unlock()

	if !configured || dirty {
		return true
	}
	return set == nil || set.CheckOutOfDate()
}

// OnCodeModelChanged implements ports.Driver.
func (o *Orchestrator) OnCodeModelChanged(fn func(*domain.CodeModel)) func() {
	o.subMu.Lock()
	id := o.nextSub
	o.nextSub++
	o.subs[id] = fn
	o.subMu.Unlock()
	return func() {
		o.subMu.Lock()
		delete(o.subs, id)
		o.subMu.Unlock()
	}
}

func (o *Orchestrator) replaceModel(model *domain.CodeModel) {
	o.mu.Lock()
	o.model = model
	o.mu.Unlock()

	o.subMu.Lock()
	subs := make([]func(*domain.CodeModel), 0, len(o.subs))
	for _, fn := range o.subs {
		subs = append(subs, fn)
	}
	o.subMu.Unlock()
	for _, fn := range subs {
		fn(model)
	}
}

// Dispose implements ports.Driver.
func (o *Orchestrator) Dispose(ctx context.Context) error {
	o.mu.Lock()
	b := o.backend
	o.backend = nil
	o.mu.Unlock()
	if b == nil {
		return nil
	}
	return b.Dispose(ctx)
}

func (o *Orchestrator) reportProblem(ctx context.Context, problem domain.ConfigureProblem, detail string) {
	if o.problems == nil {
		return
	}
	if err := o.problems.HandleProblem(ctx, problem, detail); err != nil {
		o.logger.Error(err)
	}
}
