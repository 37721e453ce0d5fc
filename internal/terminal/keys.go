package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/kite/internal/input/event"
	"github.com/dshills/kite/internal/input/key"
)

var specialKeys = map[tcell.Key]key.Key{
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
	tcell.KeyF1:         key.KeyF1,
	tcell.KeyF2:         key.KeyF2,
	tcell.KeyF3:         key.KeyF3,
	tcell.KeyF4:         key.KeyF4,
	tcell.KeyF5:         key.KeyF5,
	tcell.KeyF6:         key.KeyF6,
	tcell.KeyF7:         key.KeyF7,
	tcell.KeyF8:         key.KeyF8,
	tcell.KeyF9:         key.KeyF9,
	tcell.KeyF10:        key.KeyF10,
	tcell.KeyF11:        key.KeyF11,
	tcell.KeyF12:        key.KeyF12,
}

func convertMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModMeta
	}
	return result
}

// convertKey maps a tcell key press to a key event. Control letters become
// the lower-case rune with Ctrl so that Ctrl+S reads as "ctrl_s".
// Unrecognised keys return ok == false.
func convertKey(ev *tcell.EventKey) (key.Event, bool) {
	mods := convertMod(ev.Modifiers())
	k := ev.Key()

	switch {
	case k == tcell.KeyRune:
		return key.NewRuneEvent(ev.Rune(), mods), true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return key.NewRuneEvent('a'+rune(k-tcell.KeyCtrlA), mods.With(key.ModCtrl)), true
	case k == tcell.KeyCtrlSpace || k == tcell.KeyNUL:
		return key.NewRuneEvent(' ', mods.With(key.ModCtrl)), true
	case k == tcell.KeyBacktab:
		return key.NewSpecialEvent(key.KeyTab, mods.With(key.ModShift)), true
	}

	if special, ok := specialKeys[k]; ok {
		return key.NewSpecialEvent(special, mods), true
	}

	// Raw control characters arrive with Ctrl and the lower-case letter.
	if r := ev.Rune(); mods.HasCtrl() && r >= 'a' && r <= 'z' {
		return key.NewRuneEvent(r, mods), true
	}
	return key.Event{}, false
}

func convertMouse(ev *tcell.EventMouse) event.Event {
	x, y := ev.Position()
	b := ev.Buttons()
	var button event.MouseButton
	switch {
	case b&tcell.Button1 != 0:
		button = event.MouseLeft
	case b&tcell.Button3 != 0:
		button = event.MouseMiddle
	case b&tcell.Button2 != 0:
		button = event.MouseRight
	case b&tcell.WheelUp != 0:
		button = event.MouseWheelUp
	case b&tcell.WheelDown != 0:
		button = event.MouseWheelDown
	}
	return event.Mouse(x, y, button)
}
