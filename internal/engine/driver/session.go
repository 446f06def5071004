package driver

import (
	"os"
	"path/filepath"

	"go.trai.ch/mason/internal/adapters/environ"
	"go.trai.ch/mason/internal/core/domain"
)

// session is the fully resolved state one configure or build runs against:
// expanded directories, the probed generator and the composed environment.
// A session is rebuilt whenever the kit, variant or preset selection changes.
type session struct {
	settings  domain.Settings
	kit       *domain.Kit
	variant   *domain.Variant
	presets   domain.SelectedPresets
	generator domain.Generator

	sourceDir string
	binaryDir string

	ectx environ.Context
	env  []string
}

func (s *session) expand(v string) string {
	return environ.Expand(v, s.ectx)
}

// generatorProber answers whether a named generator is usable on this host.
type generatorProber interface {
	FindUsable(names []string) (*domain.Generator, error)
}

// newSession resolves directories, generator and environment for the current
// selection. The generator preference order is: preset, explicit setting,
// kit preference, settings preference list, built-in defaults.
func (o *Orchestrator) newSession() (*session, error) {
	s := &session{
		settings: o.cfg.Settings,
		kit:      o.activeKit,
		variant:  o.activeVariant,
		presets:  o.activePresets,
	}

	s.ectx = environ.NewContext(o.cfg.Root)
	if s.kit != nil {
		s.ectx.KitName = s.kit.Name
		s.ectx.Triple = domain.ParseTriple(s.kit.TargetTriple)
	}
	if s.presets.Configure != nil {
		s.ectx.PresetName = s.presets.Configure.Name
	}
	if s.variant != nil {
		s.ectx.BuildType = s.variant.BuildType
	}

	s.sourceDir = s.expand(s.settings.SourceDirectory)
	if s.sourceDir == "" {
		s.sourceDir = o.cfg.Root
	}
	if !filepath.IsAbs(s.sourceDir) {
		s.sourceDir = filepath.Join(o.cfg.Root, s.sourceDir)
	}

	gen, err := o.resolveGenerator(s)
	if err != nil {
		return nil, err
	}
	s.generator = *gen
	s.ectx.Generator = gen.Name

	binaryDir := s.settings.BinaryDirectory
	if s.presets.Configure != nil && s.presets.Configure.BinaryDir != "" {
		binaryDir = s.presets.Configure.BinaryDir
	}
	s.binaryDir = s.expand(binaryDir)
	if !filepath.IsAbs(s.binaryDir) {
		s.binaryDir = filepath.Join(o.cfg.Root, s.binaryDir)
	}

	var layers []environ.Layer
	if s.kit != nil {
		layers = append(layers, environ.Layer{Name: "kit", Vars: s.kit.Environment})
	}
	if s.variant != nil {
		layers = append(layers, environ.Layer{Name: "variant", Vars: s.variant.Environment})
	}
	if s.presets.Configure != nil {
		layers = append(layers, environ.Layer{Name: "preset", Vars: s.presets.Configure.Environment})
	}
	layers = append(layers, environ.Layer{Name: "settings", Vars: s.settings.Environment})
	s.env = environ.Environ(os.Environ(), environ.Compose(layers, s.ectx))

	return s, nil
}

func (o *Orchestrator) resolveGenerator(s *session) (*domain.Generator, error) {
	if s.presets.Configure != nil && s.presets.Configure.Generator != "" {
		return o.prober.FindUsable([]string{s.expand(s.presets.Configure.Generator)})
	}
	if s.settings.Generator != "" {
		return o.prober.FindUsable([]string{s.expand(s.settings.Generator)})
	}

	if s.kit != nil && s.kit.PreferredGenerator != nil {
		if g, err := o.prober.FindUsable([]string{s.kit.PreferredGenerator.Name}); err == nil {
			// Keep the kit's platform and toolset with its preferred name.
			pinned := *s.kit.PreferredGenerator
			pinned.Name = g.Name
			return &pinned, nil
		}
	}

	names := make([]string, 0, len(s.settings.PreferredGenerators)+len(domain.DefaultGenerators))
	for _, n := range s.settings.PreferredGenerators {
		names = append(names, s.expand(n))
	}
	names = append(names, domain.DefaultGenerators...)
	return o.prober.FindUsable(names)
}
