// Package event defines the terminal input events flowing from an input
// source, through the macro recorder, to the editor.
package event

import "github.com/dshills/kite/internal/input/key"

// Type identifies the kind of terminal event.
type Type uint8

const (
	TypeNone Type = iota
	TypeKey
	TypeResize
	TypePaste
	TypeMouse
)

// MouseButton represents mouse button state.
type MouseButton uint8

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Event represents a terminal event.
type Event struct {
	Type Type

	// Key event fields
	Key key.Event

	// Resize event fields
	Width, Height int

	// Paste event fields
	Text string

	// Mouse event fields
	X, Y   int
	Button MouseButton
}

// Key wraps a key event.
func Key(ev key.Event) Event {
	return Event{Type: TypeKey, Key: ev}
}

// Resize builds a resize event.
func Resize(w, h int) Event {
	return Event{Type: TypeResize, Width: w, Height: h}
}

// Paste builds a bracketed paste event.
func Paste(text string) Event {
	return Event{Type: TypePaste, Text: text}
}

// Mouse builds a mouse event.
func Mouse(x, y int, button MouseButton) Event {
	return Event{Type: TypeMouse, X: x, Y: y, Button: button}
}

// IsKeyRelease reports whether the event is a key-up.
func (e Event) IsKeyRelease() bool {
	return e.Type == TypeKey && e.Key.IsRelease()
}
