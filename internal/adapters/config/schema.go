package config

// SettingsFile represents the structure of the mason.yaml configuration file.
type SettingsFile struct {
	Version       int                   `yaml:"version"`
	Settings      SettingsDTO           `yaml:"settings"`
	Kits          []KitDTO              `yaml:"kits"`
	Variants      map[string]VariantDTO `yaml:"variants"`
	Presets       []PresetDTO           `yaml:"presets"`
	ActiveKit     string                `yaml:"activeKit"`
	ActiveVariant string                `yaml:"activeVariant"`
}

// SettingsDTO mirrors the settings section of mason.yaml.
type SettingsDTO struct {
	Generator           string            `yaml:"generator"`
	PreferredGenerators []string          `yaml:"preferredGenerators"`
	SourceDirectory     string            `yaml:"sourceDirectory"`
	BinaryDirectory     string            `yaml:"binaryDirectory"`
	InstallPrefix       string            `yaml:"installPrefix"`
	ConfigureOnOpen     bool              `yaml:"configureOnOpen"`
	UseProtocolServer   bool              `yaml:"useProtocolServer"`
	Jobs                int               `yaml:"jobs"`
	ConfigureArgs       []string          `yaml:"configureArgs"`
	BuildArgs           []string          `yaml:"buildArgs"`
	BuildToolArgs       []string          `yaml:"buildToolArgs"`
	CacheInit           []string          `yaml:"cacheInit"`
	ConfigureSettings   map[string]string `yaml:"configureSettings"`
	Environment         map[string]string `yaml:"environment"`
}

// KitDTO represents one toolchain kit definition.
type KitDTO struct {
	Name               string            `yaml:"name"`
	Compilers          map[string]string `yaml:"compilers"`
	ToolchainFile      string            `yaml:"toolchainFile"`
	PreferredGenerator *GeneratorDTO     `yaml:"preferredGenerator"`
	Environment        map[string]string `yaml:"environment"`
	TargetTriple       string            `yaml:"targetTriple"`
}

// GeneratorDTO represents a generator selection with optional platform and
// toolset refinements.
type GeneratorDTO struct {
	Name     string `yaml:"name"`
	Platform string `yaml:"platform"`
	Toolset  string `yaml:"toolset"`
}

// VariantDTO represents one build variant definition.
type VariantDTO struct {
	BuildType   string            `yaml:"buildType"`
	Linkage     string            `yaml:"linkage"`
	Settings    map[string]string `yaml:"settings"`
	Environment map[string]string `yaml:"environment"`
}

// PresetDTO represents one preset definition. The configure fields and the
// build/test fields live on the same object; each role reads its own.
type PresetDTO struct {
	Name         string            `yaml:"name"`
	Generator    string            `yaml:"generator"`
	BinaryDir    string            `yaml:"binaryDir"`
	CacheVars    map[string]string `yaml:"cacheVars"`
	Environment  map[string]string `yaml:"environment"`
	BuildTargets []string          `yaml:"buildTargets"`
	Jobs         int               `yaml:"jobs"`
	TestArgs     []string          `yaml:"testArgs"`
}
