// Package input decides where the editor's next event comes from.
//
// The Multiplexer is consulted once per main-loop iteration. It resolves the
// next event from a playing macro if there is one, otherwise from the live
// terminal source. In scheduled mode it polls the live source in short
// quanta and lets an Idler run due background work between quanta, which is
// how plugin tasks get serviced while the editor is waiting for a prompt
// answer.
//
// Subpackages:
//
//   - key: key codes, modifiers and the canonical key strings used for hooks
//   - event: the terminal event union (key, resize, paste, mouse)
//   - macro: the macro recorder and player
package input
