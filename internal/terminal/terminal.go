// Package terminal adapts a tcell screen into the editor's input source and
// drawing surface.
//
// A reader goroutine forwards converted tcell events into a buffered
// channel and touches nothing else. Poll and Read are called from the
// editor's control goroutine only.
package terminal

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/kite/internal/input"
	"github.com/dshills/kite/internal/input/event"
	"github.com/dshills/kite/internal/logging"
)

const eventBuffer = 64

// Terminal owns a tcell screen and the goroutine reading from it.
type Terminal struct {
	screen tcell.Screen
	logger *logging.Logger

	events chan event.Event
	head   *event.Event

	pending  atomic.Bool
	started  bool
	quit     chan struct{}
	stopOnce sync.Once
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(t *Terminal) {
		if l != nil {
			t.logger = l.WithComponent("terminal")
		}
	}
}

// New creates a terminal on the controlling tty.
func New(opts ...Option) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, opts...), nil
}

// NewWithScreen wraps an existing screen, such as a simulation screen.
func NewWithScreen(screen tcell.Screen, opts ...Option) *Terminal {
	t := &Terminal{
		screen: screen,
		logger: logging.Nop(),
		events: make(chan event.Event, eventBuffer),
		quit:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start enters raw mode and begins reading events.
func (t *Terminal) Start() error {
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	t.screen.EnablePaste()
	t.started = true
	go t.read()
	return nil
}

// Stop restores the terminal. Pending and later reads fail with
// input.ErrClosed once buffered events are drained.
func (t *Terminal) Stop() {
	t.stopOnce.Do(func() {
		close(t.quit)
		if t.started {
			t.screen.Fini()
		}
	})
}

// Screen returns the underlying screen for drawing.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// Size returns the screen size in cells.
func (t *Terminal) Size() (int, int) {
	return t.screen.Size()
}

// TakePendingChange reports whether the terminal was resized since the last
// call, and clears the flag.
func (t *Terminal) TakePendingChange() bool {
	return t.pending.Swap(false)
}

// read runs on its own goroutine until the screen is finalised.
func (t *Terminal) read() {
	defer close(t.events)

	var paste *strings.Builder
	for {
		raw := t.screen.PollEvent()
		if raw == nil {
			return
		}

		var ev event.Event
		switch e := raw.(type) {
		case *tcell.EventKey:
			if paste != nil {
				if e.Key() == tcell.KeyRune {
					paste.WriteRune(e.Rune())
				} else if e.Key() == tcell.KeyEnter {
					paste.WriteByte('\n')
				}
				continue
			}
			k, ok := convertKey(e)
			if !ok {
				t.logger.Debug("unmapped key %s", e.Name())
				continue
			}
			ev = event.Key(k)
		case *tcell.EventPaste:
			if e.Start() {
				paste = &strings.Builder{}
				continue
			}
			if paste == nil {
				continue
			}
			ev = event.Paste(paste.String())
			paste = nil
		case *tcell.EventResize:
			w, h := e.Size()
			t.pending.Store(true)
			ev = event.Resize(w, h)
		case *tcell.EventMouse:
			ev = convertMouse(e)
		default:
			continue
		}

		select {
		case t.events <- ev:
		case <-t.quit:
			return
		}
	}
}

// Poll reports whether an event is ready within timeout.
func (t *Terminal) Poll(timeout time.Duration) (bool, error) {
	if t.head != nil {
		return true, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev, ok := <-t.events:
		if !ok {
			return false, input.ErrClosed
		}
		t.head = &ev
		return true, nil
	case <-timer.C:
		return false, nil
	}
}

// Read returns the next event, blocking until one is available.
func (t *Terminal) Read() (event.Event, error) {
	if t.head != nil {
		ev := *t.head
		t.head = nil
		return ev, nil
	}
	ev, ok := <-t.events
	if !ok {
		return event.Event{}, input.ErrClosed
	}
	return ev, nil
}
