// Package config holds kite's settings and the live configuration state.
//
// Settings are layered, later layers overriding earlier ones:
//
//  1. built-in defaults
//  2. the TOML settings file (~/.config/kite/kite.toml)
//  3. KITE_* environment variables
//  4. command line flags, applied by the caller
//
// Key bindings, commands and scheduled tasks are not settings: they come from
// the Lua configuration file, which the editor executes through the scripting
// host. The task scheduler those scripts feed is owned by Config so that a
// reload replaces tasks together with the script that registered them.
package config
