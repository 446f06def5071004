// Package config provides the project settings loader for mason.
package config

import (
	"maps"
	"os"
	"path/filepath"
	"regexp"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

var validKitNameRegex = regexp.MustCompile("^[a-zA-Z0-9 ._-]+$")

// DiscoverRoot walks up from cwd looking for a project root. A directory
// carrying mason.yaml wins over one carrying only CMakeLists.txt; the nearest
// match of either kind is used.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	currentDir := cwd
	var listsCandidate string

	for {
		if _, err := os.Stat(filepath.Join(currentDir, domain.SettingsFileName)); err == nil {
			return currentDir, nil
		}
		if listsCandidate == "" {
			if _, err := os.Stat(filepath.Join(currentDir, domain.CMakeListsName)); err == nil {
				listsCandidate = currentDir
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	if listsCandidate != "" {
		return listsCandidate, nil
	}
	return "", domain.Detail(domain.ErrNoSourceDirectory, "cwd", cwd)
}

// Load discovers the project root from cwd and resolves its settings file.
// A root without mason.yaml yields the defaults.
func (l *Loader) Load(cwd string) (*domain.ProjectConfig, error) {
	root, err := l.DiscoverRoot(cwd)
	if err != nil {
		return nil, err
	}

	var file SettingsFile
	settingsPath := filepath.Join(root, domain.SettingsFileName)
	if _, statErr := os.Stat(settingsPath); statErr == nil {
		if err := readAndUnmarshalYAML(settingsPath, &file); err != nil {
			return nil, err
		}
	}

	return l.resolve(root, &file)
}

func (l *Loader) resolve(root string, file *SettingsFile) (*domain.ProjectConfig, error) {
	cfg := &domain.ProjectConfig{
		Root: root,
		Settings: domain.Settings{
			Generator:           file.Settings.Generator,
			PreferredGenerators: file.Settings.PreferredGenerators,
			SourceDirectory:     file.Settings.SourceDirectory,
			BinaryDirectory:     file.Settings.BinaryDirectory,
			InstallPrefix:       file.Settings.InstallPrefix,
			ConfigureOnOpen:     file.Settings.ConfigureOnOpen,
			UseProtocolServer:   file.Settings.UseProtocolServer,
			JobCount:            file.Settings.Jobs,
			ConfigureArgs:       file.Settings.ConfigureArgs,
			BuildArgs:           file.Settings.BuildArgs,
			BuildToolArgs:       file.Settings.BuildToolArgs,
			CacheInitFiles:      file.Settings.CacheInit,
			ConfigureSettings:   file.Settings.ConfigureSettings,
			Environment:         file.Settings.Environment,
		},
		ActiveKit:     file.ActiveKit,
		ActiveVariant: file.ActiveVariant,
	}

	if cfg.Settings.SourceDirectory == "" {
		cfg.Settings.SourceDirectory = root
	}
	if cfg.Settings.BinaryDirectory == "" {
		cfg.Settings.BinaryDirectory = "${workspaceFolder}/build"
	}

	if err := l.resolveKits(cfg, file.Kits); err != nil {
		return nil, err
	}
	if err := l.resolveVariants(cfg, file.Variants); err != nil {
		return nil, err
	}
	l.resolvePresets(cfg, file.Presets)

	if cfg.ActiveKit != "" {
		if _, ok := cfg.FindKit(cfg.ActiveKit); !ok {
			return nil, domain.Detail(domain.ErrKitNotFound, "kit", cfg.ActiveKit)
		}
	}
	if cfg.ActiveVariant != "" {
		if _, ok := cfg.Variants[cfg.ActiveVariant]; !ok {
			err := domain.Detail(domain.ErrConfigParseFailed, "reason", "unknown active variant")
			return nil, zerr.With(err, "variant", cfg.ActiveVariant)
		}
	}

	return cfg, nil
}

func (l *Loader) resolveKits(cfg *domain.ProjectConfig, kits []KitDTO) error {
	seen := make(map[string]bool, len(kits))
	for i := range kits {
		dto := &kits[i]
		if dto.Name == "" || !validKitNameRegex.MatchString(dto.Name) {
			err := domain.Detail(domain.ErrConfigParseFailed, "reason", "invalid kit name")
			return zerr.With(err, "kit", dto.Name)
		}
		if seen[dto.Name] {
			err := domain.Detail(domain.ErrConfigParseFailed, "reason", "duplicate kit name")
			return zerr.With(err, "kit", dto.Name)
		}
		seen[dto.Name] = true

		kit := domain.Kit{
			Name:          dto.Name,
			Compilers:     dto.Compilers,
			ToolchainFile: dto.ToolchainFile,
			Environment:   dto.Environment,
			TargetTriple:  dto.TargetTriple,
		}
		if dto.PreferredGenerator != nil {
			kit.PreferredGenerator = &domain.Generator{
				Name:     dto.PreferredGenerator.Name,
				Platform: dto.PreferredGenerator.Platform,
				Toolset:  dto.PreferredGenerator.Toolset,
			}
		}
		cfg.Kits = append(cfg.Kits, kit)
	}
	return nil
}

// defaultVariants seed projects that define none.
var defaultVariants = map[string]domain.Variant{
	"debug":   {BuildType: "Debug"},
	"release": {BuildType: "Release"},
}

func (l *Loader) resolveVariants(cfg *domain.ProjectConfig, variants map[string]VariantDTO) error {
	if len(variants) == 0 {
		cfg.Variants = maps.Clone(defaultVariants)
		if cfg.ActiveVariant == "" {
			cfg.ActiveVariant = "debug"
		}
		return nil
	}

	cfg.Variants = make(map[string]domain.Variant, len(variants))
	for name, dto := range variants {
		linkage := domain.Linkage(dto.Linkage)
		switch linkage {
		case domain.LinkageDefault, domain.LinkageStatic, domain.LinkageShared:
		default:
			err := domain.Detail(domain.ErrConfigParseFailed, "reason", "invalid linkage")
			err = zerr.With(err, "variant", name)
			return zerr.With(err, "linkage", dto.Linkage)
		}
		cfg.Variants[name] = domain.Variant{
			BuildType:   dto.BuildType,
			Linkage:     linkage,
			Settings:    dto.Settings,
			Environment: dto.Environment,
		}
	}
	return nil
}

func (l *Loader) resolvePresets(cfg *domain.ProjectConfig, presets []PresetDTO) {
	for _, dto := range presets {
		if dto.Name == "" {
			l.Logger.Warn("skipping preset without a name")
			continue
		}
		cfg.Presets = append(cfg.Presets, domain.Preset{
			Name:         dto.Name,
			Generator:    dto.Generator,
			BinaryDir:    dto.BinaryDir,
			CacheVars:    dto.CacheVars,
			Environment:  dto.Environment,
			BuildTargets: dto.BuildTargets,
			Jobs:         dto.Jobs,
			TestArgs:     dto.TestArgs,
		})
	}
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
