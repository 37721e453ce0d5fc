// Package editor holds the editor state and runs the main loop.
//
// One Editor exists per process and is owned by the control goroutine. The
// scripting host reaches it through the bindings in plugin/api; every call
// from Lua happens synchronously on the same goroutine, so the state needs
// no locking.
//
// Each loop iteration renders, acquires one event, clears the feedback line,
// runs the key's before hook, lets the editor handle the event, runs the
// after hook, refreshes the highlighter and finally drains any pending
// command.
package editor
