// Package plugin connects user scripts to the editor.
//
// It owns three pieces that sit between the Lua host and the editor:
//
//   - the bootstrap prelude, which defines the event_mapping and commands
//     tables that key hooks and commands are looked up in
//   - the Loader, which discovers plugin scripts on disk and runs them
//   - Classify, which turns a failed script execution into a feedback
//     message instead of an editor crash
//
// Key and command dispatch live in the hook subpackage and the editor
// binding surface in the api subpackage.
package plugin
