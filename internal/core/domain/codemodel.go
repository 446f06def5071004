package domain

// TargetType classifies a configured target.
type TargetType string

const (
	// TargetExecutable is a linked executable.
	TargetExecutable TargetType = "EXECUTABLE"
	// TargetStaticLibrary is an archive library.
	TargetStaticLibrary TargetType = "STATIC_LIBRARY"
	// TargetSharedLibrary is a shared library.
	TargetSharedLibrary TargetType = "SHARED_LIBRARY"
	// TargetUtility is a custom or utility target.
	TargetUtility TargetType = "UTILITY"
	// TargetObjectLibrary is an object library.
	TargetObjectLibrary TargetType = "OBJECT_LIBRARY"
	// TargetInterfaceLibrary is a header-only interface library.
	TargetInterfaceLibrary TargetType = "INTERFACE_LIBRARY"
)

// Target is one configured build target.
type Target struct {
	Name      string
	Type      TargetType
	SourceDir string
	Artifacts []string
}

// Project groups the targets declared by one project() call.
type Project struct {
	Name      string
	SourceDir string
	Targets   []Target
}

// CodeModel is a structured snapshot of configured projects and targets
// produced after a successful configure. Snapshots are always replaced
// wholesale, never mutated in place.
type CodeModel struct {
	Configurations []string
	Projects       []Project
}

// TargetNames returns every target name across all projects.
func (m *CodeModel) TargetNames() []string {
	if m == nil {
		return nil
	}
	var names []string
	for _, p := range m.Projects {
		for _, t := range p.Targets {
			names = append(names, t.Name)
		}
	}
	return names
}
