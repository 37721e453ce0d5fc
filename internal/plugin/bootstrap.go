package plugin

import (
	_ "embed"
	"fmt"
)

//go:embed bootstrap.lua
var bootstrapSource string

// Executor runs Lua source. Satisfied by *lua.State.
type Executor interface {
	DoString(code string) error
	DoFile(path string) error
}

// Bootstrap defines the hook and command tables and the helper functions
// user scripts register bindings with. It is safe to run more than once.
func Bootstrap(x Executor) error {
	if err := x.DoString(bootstrapSource); err != nil {
		return fmt.Errorf("plugin bootstrap: %w", err)
	}
	return nil
}
