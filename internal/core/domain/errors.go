package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigureRunning is returned when a configure is requested while another configure is in flight.
	ErrConfigureRunning = zerr.New("configure is already running")

	// ErrBuildRunning is returned when an operation is requested while a build is in flight.
	ErrBuildRunning = zerr.New("build is already running")

	// ErrNoSourceDirectory is returned when the source directory cannot be resolved.
	ErrNoSourceDirectory = zerr.New("no source directory found")

	// ErrMissingCMakeLists is returned when the resolved source directory has no CMakeLists.txt.
	ErrMissingCMakeLists = zerr.New("CMakeLists.txt missing from source directory")

	// ErrNoBuildProgram is returned when no build invocation could be constructed.
	// This is an expected steady-state condition (no kit or preset selected yet), not a fault.
	ErrNoBuildProgram = zerr.New("no build program could be constructed")

	// ErrNoKitSelected is returned when an operation needs a kit or preset and none is active.
	ErrNoKitSelected = zerr.New("no kit or preset selected")

	// ErrNoGeneratorFound is returned when none of the candidate generators is usable on this host.
	ErrNoGeneratorFound = zerr.New("no usable generator found")

	// ErrCMakeNotFound is returned when the cmake executable cannot be located.
	ErrCMakeNotFound = zerr.New("cmake executable not found")

	// ErrCompilerUnknown is returned when a compiler binary is not in the known front-end table.
	ErrCompilerUnknown = zerr.New("unknown compiler front-end")

	// ErrCacheEntryType is returned when a cache line carries an unrecognized type tag.
	ErrCacheEntryType = zerr.New("unrecognized cache entry type")

	// ErrCacheMalformed is returned when a cache line cannot be split into key, type and value.
	ErrCacheMalformed = zerr.New("malformed cache entry")

	// ErrCacheReadFailed is returned when the cache file cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read cache file")

	// ErrCacheWriteFailed is returned when the cache file cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write cache file")

	// ErrCacheEntryStatic is returned when a caller attempts to edit a generator-owned entry.
	ErrCacheEntryStatic = zerr.New("cache entry is owned by the generator tool and cannot be edited")

	// ErrCacheKeyNotFound is returned when a cache key is absent from the store.
	ErrCacheKeyNotFound = zerr.New("cache key not found")

	// ErrProtocolMalformed is returned when a server message cannot be decoded.
	ErrProtocolMalformed = zerr.New("malformed protocol message")

	// ErrProtocolError is returned when the server answers a request with an error message.
	ErrProtocolError = zerr.New("protocol request failed")

	// ErrProtocolStopped is returned when a request is issued against a stopped client.
	ErrProtocolStopped = zerr.New("protocol client is stopped")

	// ErrProtocolHandshake is returned when the server hello or handshake exchange fails.
	ErrProtocolHandshake = zerr.New("protocol handshake failed")

	// ErrConfigReadFailed is returned when the settings file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read settings file")

	// ErrConfigParseFailed is returned when the settings file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse settings file")

	// ErrConfigNotFound is returned when no settings file is found walking up from cwd.
	ErrConfigNotFound = zerr.New("could not find mason.yaml")

	// ErrKitNotFound is returned when a named kit is absent from the settings file.
	ErrKitNotFound = zerr.New("kit not found")

	// ErrVariantNotFound is returned when a named variant is absent from the settings file.
	ErrVariantNotFound = zerr.New("variant not found")

	// ErrPresetNotFound is returned when a named preset is absent from the settings file.
	ErrPresetNotFound = zerr.New("preset not found")

	// ErrFileAPIReply is returned when the file-api reply index cannot be located or decoded.
	ErrFileAPIReply = zerr.New("failed to read file-api reply")

	// ErrConfigureFailed is returned when the configure invocation fails.
	ErrConfigureFailed = zerr.New("configure failed")

	// ErrBuildFailed is returned when the build invocation fails.
	ErrBuildFailed = zerr.New("build failed")
)

// Detail attaches a key-value pair to a sentinel error. zerr.With on a bare
// sentinel drops it from the cause chain, so the sentinel is wrapped first to
// keep errors.Is matching it.
func Detail(sentinel error, key string, value any) error {
	return zerr.With(zerr.Wrap(sentinel, ""), key, value)
}
