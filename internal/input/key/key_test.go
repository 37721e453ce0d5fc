package key

import "testing"

func TestEventString(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{"plain rune", NewRuneEvent('a', ModNone), "a"},
		{"upper rune keeps shift implicit", NewRuneEvent('A', ModShift), "A"},
		{"space", NewRuneEvent(' ', ModNone), "space"},
		{"ctrl rune", NewRuneEvent('s', ModCtrl), "ctrl_s"},
		{"ctrl alt rune", NewRuneEvent('x', ModCtrl|ModAlt), "ctrl_alt_x"},
		{"meta folds into alt", NewRuneEvent('x', ModMeta), "alt_x"},
		{"underscore rune", NewRuneEvent('_', ModNone), "_"},
		{"enter", NewSpecialEvent(KeyEnter, ModNone), "enter"},
		{"shift tab", NewSpecialEvent(KeyTab, ModShift), "shift_tab"},
		{"alt shift up", NewSpecialEvent(KeyUp, ModAlt|ModShift), "alt_shift_up"},
		{"function key", NewSpecialEvent(KeyF5, ModCtrl), "ctrl_f5"},
		{"escape", NewSpecialEvent(KeyEscape, ModNone), "esc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyClasses(t *testing.T) {
	for _, k := range []Key{KeyUp, KeyDown, KeyLeft, KeyRight} {
		if !k.IsArrowKey() {
			t.Errorf("%v.IsArrowKey() = false", k)
		}
	}
	for _, k := range []Key{KeyHome, KeyEnter, KeyF1, KeyRune} {
		if k.IsArrowKey() {
			t.Errorf("%v.IsArrowKey() = true", k)
		}
	}
	if !ModNone.IsEmpty() || ModShift.IsEmpty() || !ModShift.Without(ModShift).IsEmpty() {
		t.Error("IsEmpty() disagrees with the modifier set")
	}
}

func TestEventPredicates(t *testing.T) {
	ev := NewRuneEvent('q', ModShift)
	if ev.IsModified() {
		t.Error("shifted rune should not count as modified")
	}
	if !ev.IsChar() {
		t.Error("'q' should be a printable char")
	}

	ev = NewSpecialEvent(KeyLeft, ModShift)
	if !ev.IsModified() {
		t.Error("shift+left should count as modified")
	}

	ev.Kind = Release
	if !ev.IsRelease() {
		t.Error("IsRelease() = false for a release event")
	}
}

func TestKeyString(t *testing.T) {
	if got := KeyF3.String(); got != "F3" {
		t.Errorf("KeyF3.String() = %q, want F3", got)
	}
	if got := KeyPageUp.String(); got != "Pageup" {
		t.Errorf("KeyPageUp.String() = %q, want Pageup", got)
	}
}
