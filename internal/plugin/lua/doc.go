// Package lua hosts the editor's embedded Lua interpreter.
//
// A State wraps a gopher-lua LState with the library selection, panic
// recovery and execution deadline the editor needs. Script errors are
// returned as gopher-lua *ApiError values so callers can tell syntax errors
// from runtime errors.
//
// # Reentrancy
//
// A State is owned by the editor goroutine and must not be shared. Go
// functions exposed to Lua may call back into the same State (for example a
// prompt that services scheduled tasks while waiting for input), so State
// holds no lock around execution.
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(5 * time.Second))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	if err := state.DoString(`greeting = "hello"`); err != nil {
//	    return err
//	}
//
// # Conversion
//
// ToLua builds Lua values, including tables, from Go values. Slices become
// sequences and maps become tables keyed by string.
package lua
