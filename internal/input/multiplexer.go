package input

import (
	"errors"
	"time"

	"github.com/dshills/kite/internal/input/event"
	"github.com/dshills/kite/internal/input/macro"
	"github.com/dshills/kite/internal/logging"
)

// DefaultQuantum is the poll interval used in scheduled mode.
const DefaultQuantum = 50 * time.Millisecond

// ErrClosed is returned by a Source that will never produce another event.
var ErrClosed = errors.New("input source closed")

// Source is the live terminal event stream.
type Source interface {
	// Poll waits up to timeout for an event to become readable.
	Poll(timeout time.Duration) (bool, error)

	// Read returns the next event, blocking until one is available.
	Read() (event.Event, error)
}

// Idler is called once for every quantum that passes without input in
// scheduled mode.
type Idler interface {
	Idle()
}

// IdlerFunc adapts a function to the Idler interface.
type IdlerFunc func()

// Idle calls f.
func (f IdlerFunc) Idle() { f() }

// Multiplexer chooses between macro playback and the live source.
type Multiplexer struct {
	source  Source
	macros  *macro.Manager
	idler   Idler
	quantum time.Duration
	logger  *logging.Logger
}

// Option configures a Multiplexer.
type Option func(*Multiplexer)

// WithIdler sets the work run between poll quanta in scheduled mode.
func WithIdler(idler Idler) Option {
	return func(m *Multiplexer) {
		m.idler = idler
	}
}

// WithQuantum sets the scheduled-mode poll interval.
func WithQuantum(d time.Duration) Option {
	return func(m *Multiplexer) {
		if d > 0 {
			m.quantum = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Multiplexer) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMultiplexer creates a multiplexer over a live source and a macro manager.
func NewMultiplexer(source Source, macros *macro.Manager, opts ...Option) *Multiplexer {
	m := &Multiplexer{
		source:  source,
		macros:  macros,
		quantum: DefaultQuantum,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Quantum returns the scheduled-mode poll interval.
func (m *Multiplexer) Quantum() time.Duration {
	return m.quantum
}

// SetQuantum changes the scheduled-mode poll interval. Non-positive values
// are ignored.
func (m *Multiplexer) SetQuantum(d time.Duration) {
	if d > 0 {
		m.quantum = d
	}
}

// Acquire returns the next event without servicing background work.
// A playing macro is drained first; otherwise Acquire blocks on the live
// source. Key releases are never returned. The only error is ErrClosed.
func (m *Multiplexer) Acquire() (event.Event, error) {
	for {
		ev, ok, err := m.resolve()
		if err != nil {
			return event.Event{}, err
		}
		if ok {
			return ev, nil
		}
	}
}

// AcquireScheduled returns the next event, running the Idler on every empty
// poll quantum while no macro event is pending. While a macro has events
// left, they come straight from the macro buffer and the live source is not
// touched.
func (m *Multiplexer) AcquireScheduled() (event.Event, error) {
	for {
		for !m.macros.Pending() {
			ready, err := m.source.Poll(m.quantum)
			if err != nil {
				if errors.Is(err, ErrClosed) {
					return event.Event{}, err
				}
				m.logger.Debug("poll failed: %v", err)
			}
			if ready {
				break
			}
			if m.idler != nil {
				m.idler.Idle()
			}
		}

		ev, ok, err := m.resolve()
		if err != nil {
			return event.Event{}, err
		}
		if ok {
			return ev, nil
		}
	}
}

// resolve produces at most one event: macro first, then a live read.
// Returns false when there is nothing usable yet.
func (m *Multiplexer) resolve() (event.Event, bool, error) {
	ev, ok := m.macros.Next()
	if !ok {
		var err error
		ev, err = m.source.Read()
		if err != nil {
			if errors.Is(err, ErrClosed) {
				return event.Event{}, false, err
			}
			m.logger.Debug("read failed: %v", err)
			return event.Event{}, false, nil
		}
	}

	if ev.IsKeyRelease() || ev.Type == event.TypeNone {
		return event.Event{}, false, nil
	}

	m.macros.Append(ev)
	return ev, true, nil
}
