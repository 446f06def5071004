package domain

import "path/filepath"

const (
	// MasonDirName is the name of the internal workspace directory.
	MasonDirName = ".mason"

	// SettingsFileName is the name of the project settings file.
	SettingsFileName = "mason.yaml"

	// CMakeListsName is the root project description file cmake configures from.
	CMakeListsName = "CMakeLists.txt"

	// CacheFileName is the key/value cache cmake persists in the binary directory.
	CacheFileName = "CMakeCache.txt"

	// FileAPIDirName is the relative query/reply directory of the cmake file api.
	FileAPIDirName = ".cmake/api/v1"

	// DebugLogFile is the name of the debug log file.
	DebugLogFile = "debug.log"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultMasonPath returns the default root directory for mason metadata.
func DefaultMasonPath() string {
	return MasonDirName
}

// DefaultDebugLogPath returns the default path for the debug log.
func DefaultDebugLogPath() string {
	return filepath.Join(MasonDirName, DebugLogFile)
}

// CacheFile returns the path of the persisted cache inside a binary directory.
func CacheFile(binaryDir string) string {
	return filepath.Join(binaryDir, CacheFileName)
}

// FileAPIPath returns the file-api root inside a binary directory.
func FileAPIPath(binaryDir string) string {
	return filepath.Join(binaryDir, filepath.FromSlash(FileAPIDirName))
}
