package domain

// Settings is the driver-facing slice of the project settings file. String
// fields may contain `${name}` placeholders and are expanded against the
// session's expansion context before use.
type Settings struct {
	// Generator pins the generator explicitly; it outranks the kit preference.
	Generator string

	// PreferredGenerators is consulted after the kit preference and before
	// the built-in defaults.
	PreferredGenerators []string

	// SourceDirectory is the directory holding CMakeLists.txt.
	SourceDirectory string

	// BinaryDirectory is where the configuration is generated.
	BinaryDirectory string

	// InstallPrefix seeds CMAKE_INSTALL_PREFIX when set.
	InstallPrefix string

	// ConfigureOnOpen forces a full configure on session open, disabling the
	// cached-configuration fast path.
	ConfigureOnOpen bool

	// UseProtocolServer selects the persistent-protocol backend when the
	// tool supports it.
	UseProtocolServer bool

	// JobCount is the build parallelism; a flag is appended only when it
	// exceeds one.
	JobCount int

	// ConfigureArgs are extra arguments appended to every configure.
	ConfigureArgs []string

	// BuildArgs are extra arguments placed before the `--` separator.
	BuildArgs []string

	// BuildToolArgs are extra arguments passed through to the native tool.
	BuildToolArgs []string

	// CacheInitFiles are -C seed files, resolved against the source
	// directory when relative.
	CacheInitFiles []string

	// ConfigureSettings are explicit -D defines; they override variant
	// settings which in turn override kit-derived toolchain defines.
	ConfigureSettings map[string]string

	// Environment is the user override environment layer.
	Environment map[string]string
}

// ProjectConfig is everything the settings loader resolves for one project
// root: driver settings plus the already-resolved kit and variant objects the
// driver consumes.
type ProjectConfig struct {
	Root     string
	Settings Settings
	Kits     []Kit
	Variants map[string]Variant
	Presets  []Preset

	// ActiveKit and ActiveVariant name the initial selection, if any.
	ActiveKit     string
	ActiveVariant string
}

// FindPreset returns the named preset, if present.
func (c *ProjectConfig) FindPreset(name string) (*Preset, bool) {
	for i := range c.Presets {
		if c.Presets[i].Name == name {
			return &c.Presets[i], true
		}
	}
	return nil, false
}

// FindKit returns the named kit, if present.
func (c *ProjectConfig) FindKit(name string) (*Kit, bool) {
	for i := range c.Kits {
		if c.Kits[i].Name == name {
			return &c.Kits[i], true
		}
	}
	return nil, false
}
