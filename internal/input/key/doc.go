// Package key provides key event types and the canonical key strings used
// to bind plugin hooks.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a keyboard key (special keys, function keys, or runes)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: A single key press, repeat or release with modifiers
//
// # Key Strings
//
// Every key event has a canonical string form used to look up hooks in the
// scripting host. Modifiers come first, in the order ctrl, alt, shift,
// separated from each other and from the key name by an underscore:
//
//	a            plain character
//	A            shifted character (shift is implied by the rune)
//	ctrl_s       Ctrl+S
//	alt_shift_up Alt+Shift+Up
//	shift_tab    Shift+Tab
//	space        the space bar
//
// A key string without an underscore therefore names a key with no
// meaningful modifier chord.
package key
