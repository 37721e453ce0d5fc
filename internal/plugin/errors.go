package plugin

import "errors"

// Plugin system errors.
var (
	// ErrPluginNotFound is returned when a plugin cannot be located.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrNoEntryPoint is returned when a plugin directory has no init.lua.
	ErrNoEntryPoint = errors.New("plugin has no entry point (init.lua)")
)

// Failure phrases raised by generated dispatch code. Classify matches them
// at the end of the first line of a runtime error message.
const (
	KeyNotBound     = "key not bound"
	CommandNotFound = "command not found"
)
