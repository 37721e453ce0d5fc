// Package hook dispatches key hooks and commands into the Lua host.
//
// Every key event the editor handles is wrapped by two hook lookups in the
// event_mapping table: "before:<key>" runs before the editor's own handling
// and "<key>" runs after it. A missing before hook is silent. A missing after
// hook raises "key not bound", which the classifier reports only for keys a
// user would expect to be bindable.
//
// Commands typed at the command line are looked up in the commands table
// and called with a table of their whitespace separated arguments.
//
//	d := hook.NewDispatcher(state)
//	err := d.RunAfter("ctrl_s")
//	name, err := d.RunCommand("greet world")
package hook
