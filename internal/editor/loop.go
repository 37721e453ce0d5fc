package editor

import (
	"errors"
	"fmt"

	"github.com/dshills/kite/internal/document"
	"github.com/dshills/kite/internal/feedback"
	"github.com/dshills/kite/internal/input"
	"github.com/dshills/kite/internal/input/event"
	"github.com/dshills/kite/internal/input/key"
	"github.com/dshills/kite/internal/render"
)

// Run runs the main loop until the last document is closed or the input
// source ends.
func (e *Editor) Run() error {
	e.EnsureDocument()
	e.running = true
	defer func() { e.running = false }()

	for e.running {
		e.Render()
		ev, err := e.mux.Acquire()
		if err != nil {
			if errors.Is(err, input.ErrClosed) {
				return nil
			}
			return err
		}
		e.Step(ev)
	}
	return nil
}

// Stop ends the main loop after the current iteration.
func (e *Editor) Stop() {
	e.running = false
}

// Step processes one event: hooks, built-in handling, highlighter refresh
// and the pending command.
func (e *Editor) Step(ev event.Event) {
	e.Feedback = feedback.None
	e.checkConfig()

	name := ""
	if ev.Type == event.TypeKey {
		name = ev.Key.String()
		e.classify(name, e.hooks.RunBefore(name))
	}

	handled := e.handle(ev)
	if e.fail(handled) {
		e.logger.Debug("handling %q failed: %v", name, handled)
	} else if ev.Type == event.TypeKey {
		e.classify(name, e.hooks.RunAfter(name))
	}

	e.UpdateHighlighter()

	if line, ok := e.takeCommand(); ok {
		cmd, err := e.hooks.RunCommand(line)
		e.classify(cmd, err)
	}
}

// RunCommand runs a command line immediately.
func (e *Editor) RunCommand(line string) {
	cmd, err := e.hooks.RunCommand(line)
	e.classify(cmd, err)
}

// UpdateHighlighter rehighlights the active buffer if it changed. It does
// nothing while a script edit sequence is running.
func (e *Editor) UpdateHighlighter() {
	if e.pluginActive || len(e.buffers) == 0 {
		return
	}
	if b := e.Current(); b.stale() {
		b.refresh()
	}
}

// Idle runs due tasks. The multiplexer calls it for every quantum that
// passes without input in scheduled mode.
func (e *Editor) Idle() {
	ran := false
	for _, name := range e.config.Tasks.Due() {
		ran = true
		fn, ok := e.lua.Function(name)
		if !ok {
			e.Feedback = feedback.Warning(fmt.Sprintf("Function '%s' was not found", name))
			continue
		}
		_, err := e.lua.CallFunction(fn)
		e.classify(name, err)
	}
	if ran {
		e.UpdateHighlighter()
	}

	changed := e.changes != nil && e.changes.TakePendingChange()
	if changed {
		for _, b := range e.buffers {
			e.resize(b)
		}
	}
	if ran || changed {
		e.Render()
	}
}

func (e *Editor) checkConfig() {
	if e.watcher == nil || !e.watcher.Changed() {
		return
	}
	e.logger.Info("configuration changed on disk")
	if e.ReloadConfig() {
		e.Feedback = feedback.Info("Configuration reloaded")
	}
}

// handle applies the built-in behaviour for ev. Modified keys are left to
// scripts.
func (e *Editor) handle(ev event.Event) error {
	switch ev.Type {
	case event.TypeKey:
		return e.handleKey(ev.Key)
	case event.TypePaste:
		return e.insertText(ev.Text)
	case event.TypeResize:
		for _, b := range e.buffers {
			e.resize(b)
		}
		return nil
	case event.TypeMouse:
		e.handleMouse(ev)
		return nil
	}
	return nil
}

func (e *Editor) handleKey(k key.Event) error {
	d := e.Doc()
	mods := k.Modifiers
	if k.IsRune() {
		if k.IsModified() || !k.IsChar() {
			return nil
		}
		if err := deleteSelection(d); err != nil {
			return err
		}
		return d.Character(k.Rune)
	}

	shift := mods.HasShift()
	if !mods.Without(key.ModShift).IsEmpty() {
		return nil
	}

	if k.Key.IsArrowKey() {
		switch k.Key {
		case key.KeyUp:
			pick(shift, d.SelectUp, d.MoveUp)()
		case key.KeyDown:
			pick(shift, d.SelectDown, d.MoveDown)()
		case key.KeyLeft:
			pick(shift, d.SelectLeft, d.MoveLeft)()
		case key.KeyRight:
			pick(shift, d.SelectRight, d.MoveRight)()
		}
		return nil
	}
	if shift {
		return nil
	}

	switch k.Key {
	case key.KeyEnter:
		if err := deleteSelection(d); err != nil {
			return err
		}
		return d.Enter()
	case key.KeyBackspace:
		if _, _, ok := d.Selection(); ok {
			return d.DeleteSelection()
		}
		return d.Backspace()
	case key.KeyDelete:
		if _, _, ok := d.Selection(); ok {
			return d.DeleteSelection()
		}
		return d.DeleteForward()
	case key.KeyTab:
		if err := deleteSelection(d); err != nil {
			return err
		}
		return d.Character('\t')
	case key.KeyHome:
		d.MoveHome()
	case key.KeyEnd:
		d.MoveEnd()
	case key.KeyPageUp:
		d.MovePageUp()
	case key.KeyPageDown:
		d.MovePageDown()
	case key.KeyEscape:
		d.CancelSelection()
	}
	return nil
}

func (e *Editor) handleMouse(ev event.Event) {
	d := e.Doc()
	switch ev.Button {
	case event.MouseWheelUp:
		d.MoveUp()
	case event.MouseWheelDown:
		d.MoveDown()
	case event.MouseLeft:
		y := ev.Y - 1
		if y < 0 || e.screen == nil || y >= e.screen.DocumentHeight() {
			return
		}
		off := d.Offset()
		line, _ := d.Line(off.Y + y)
		x := max(ev.X-render.GutterWidth(d.LenLines()), 0)
		d.MoveTo(document.Loc{X: render.RuneAt(line, x, e.config.TabWidth), Y: off.Y + y})
	}
}

func (e *Editor) insertText(text string) error {
	d := e.Doc()
	if err := deleteSelection(d); err != nil {
		return err
	}
	return d.InsertText(text)
}

func deleteSelection(d Document) error {
	if _, _, ok := d.Selection(); !ok {
		return nil
	}
	return d.DeleteSelection()
}

func pick(cond bool, a, b func()) func() {
	if cond {
		return a
	}
	return b
}
