// Package api provides the Lua globals exposed to the configuration file
// and plugins.
//
//   - editor: userdata with read-only properties (editor.cursor,
//     editor.document_type, ...) and methods called with a colon
//     (editor:insert("x"), editor:move_to(0, 1), editor:prompt("Name"))
//   - tasks: the deferred function scheduler (tasks:every(500, "tick"),
//     tasks:after(100, "once"), tasks:cancel(id))
//
// # Architecture
//
// Each API module implements the Module interface:
//
//	type Module interface {
//	    Name() string
//	    Register(L *lua.LState) error
//	}
//
// Modules are collected in a Registry and injected into the single Lua
// state before the configuration runs.
//
// # Coordinates
//
// Rows are 1-based on the Lua side and 0-based inside the editor. Columns
// are 0-based character offsets on both sides.
//
// # Edit sequences
//
// Methods that edit the document mark the editor as being inside a script
// edit, so the highlighter refreshes once per method instead of once per
// primitive edit.
package api
