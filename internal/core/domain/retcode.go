package domain

// Reserved exit codes for configure and build. Positive codes are the tool's
// own exit status passed through unchanged.
const (
	// RetOK signals success.
	RetOK = 0
	// RetProtocolError is the configure result when the persistent server
	// misbehaves; the session survives and the client restarts lazily.
	RetProtocolError = 1
	// RetGeneralError is any caught fault during configure or build.
	RetGeneralError = -1
	// RetConfigureRunning rejects a configure while one is in flight.
	RetConfigureRunning = -2
	// RetBuildRunning rejects an operation while a build is in flight.
	RetBuildRunning = -3
	// RetNoSourceDirectory rejects a configure with no resolvable source directory.
	RetNoSourceDirectory = -4
	// RetMissingCMakeLists rejects a configure when CMakeLists.txt is absent.
	RetMissingCMakeLists = -5
)

// ConfigureTrigger says why a configure was requested.
type ConfigureTrigger uint8

const (
	// TriggerCommand is an explicit user command.
	TriggerCommand ConfigureTrigger = iota
	// TriggerFileSave is a configure-on-save event.
	TriggerFileSave
	// TriggerKitChange follows a kit or preset switch.
	TriggerKitChange
	// TriggerCachedConfig asks for the cached-configuration fast path; it is
	// honored only on the very first configure of a session.
	TriggerCachedConfig
)

// ConfigureProblem names a precondition failure reported through the
// problem handler before any generator invocation.
type ConfigureProblem string

const (
	// ProblemConfigureRunning reports a concurrent configure.
	ProblemConfigureRunning ConfigureProblem = "ConfigureAlreadyRunning"
	// ProblemBuildRunning reports a concurrent build.
	ProblemBuildRunning ConfigureProblem = "BuildAlreadyRunning"
	// ProblemNoSourceDirectory reports an unresolvable source directory.
	ProblemNoSourceDirectory ConfigureProblem = "NoSourceDirectoryFound"
	// ProblemMissingCMakeLists reports an absent CMakeLists.txt.
	ProblemMissingCMakeLists ConfigureProblem = "MissingProjectDescriptorFile"
)
