package key

import (
	"unicode"
)

// Kind distinguishes presses from repeats and releases.
type Kind uint8

const (
	// Press is a key going down. This is what most terminals report.
	Press Kind = iota
	// Repeat is an auto-repeated press.
	Repeat
	// Release is a key coming up. Only reported by terminals that
	// implement the progressive keyboard enhancement protocol.
	Release
)

// Event represents a single key event.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Kind is press, repeat or release.
	Kind Kind
}

// NewRuneEvent creates a key press event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key press event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true if this is a printable character.
func (e Event) IsChar() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune)
}

// IsRelease returns true for key-up events.
func (e Event) IsRelease() bool {
	return e.Kind == Release
}

// IsModified returns true if any modifier is pressed.
// For character events, Shift alone is not considered modified
// (since Shift changes the character itself).
func (e Event) IsModified() bool {
	if e.IsRune() {
		return e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0
	}
	return e.Modifiers != ModNone
}

// String returns the canonical key string used for hook lookup.
// Examples: "a", "A", "ctrl_s", "alt_shift_up", "shift_tab", "space".
func (e Event) String() string {
	if e.IsRune() {
		name := string(e.Rune)
		if e.Rune == ' ' {
			name = "space"
		}
		return e.Modifiers.prefix(false) + name
	}
	return e.Modifiers.prefix(true) + e.Key.Name()
}
