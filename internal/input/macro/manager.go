package macro

import "github.com/dshills/kite/internal/input/event"

// Manager records and replays raw input events.
type Manager struct {
	recording bool
	playing   bool

	events    []event.Event
	cursor    int
	remaining int
}

// NewManager creates an idle manager with an empty buffer.
func NewManager() *Manager {
	return &Manager{}
}

// Record clears the buffer and starts recording.
// Does nothing if already recording or while a macro is playing.
func (m *Manager) Record() {
	if m.recording || m.playing {
		return
	}
	m.events = nil
	m.recording = true
}

// Finish stops recording (keeping the buffer) or stops playback
// (discarding any remaining repeats). Calling it while idle is a no-op.
func (m *Manager) Finish() {
	m.recording = false
	m.playing = false
	m.cursor = 0
	m.remaining = 0
}

// Play starts replaying the buffer times times. A count below one plays the
// buffer once. An in-progress recording is finished first. Play does nothing
// when the buffer is empty.
func (m *Manager) Play(times int) {
	if m.recording {
		m.Finish()
	}
	if len(m.events) == 0 {
		return
	}
	if times < 1 {
		times = 1
	}
	m.playing = true
	m.cursor = 0
	m.remaining = times - 1
}

// Next returns the next buffered event during playback. When the buffer is
// exhausted it either rewinds for the next repeat or ends playback and
// returns false.
func (m *Manager) Next() (event.Event, bool) {
	if !m.playing {
		return event.Event{}, false
	}
	if m.cursor >= len(m.events) {
		if m.remaining == 0 {
			m.playing = false
			m.cursor = 0
			return event.Event{}, false
		}
		m.remaining--
		m.cursor = 0
	}
	ev := m.events[m.cursor]
	m.cursor++
	return ev, true
}

// Append adds an event to the buffer. Does nothing unless recording.
func (m *Manager) Append(ev event.Event) {
	if m.recording {
		m.events = append(m.events, ev)
	}
}

// DropLast removes the most recently recorded event. It is used to keep the
// key that stopped a recording out of the macro.
func (m *Manager) DropLast() {
	if m.recording && len(m.events) > 0 {
		m.events = m.events[:len(m.events)-1]
	}
}

// Recording returns true while events are being captured.
func (m *Manager) Recording() bool {
	return m.recording
}

// Playing returns true while a macro is being replayed.
func (m *Manager) Playing() bool {
	return m.playing
}

// Pending returns true when playback has an event ready for Next.
func (m *Manager) Pending() bool {
	return m.playing && (m.cursor < len(m.events) || m.remaining > 0)
}

// Len returns the number of buffered events.
func (m *Manager) Len() int {
	return len(m.events)
}
