package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/kite/internal/input/event"
	"github.com/dshills/kite/internal/input/key"
	"github.com/dshills/kite/internal/render"
)

// Prompt reads a line of input on the feedback line. Tasks keep running
// while it waits. Escape cancels with ErrPromptCancelled.
func (e *Editor) Prompt(label string) (string, error) {
	p := &render.Prompt{Label: label}
	outer := e.prompt
	e.prompt = p
	defer func() { e.prompt = outer }()

	for {
		e.Render()
		ev, err := e.mux.AcquireScheduled()
		if err != nil {
			return "", err
		}
		switch ev.Type {
		case event.TypePaste:
			insertPrompt(p, strings.ReplaceAll(ev.Text, "\n", " "))
		case event.TypeKey:
			done, err := editPrompt(p, ev.Key)
			if err != nil {
				return "", err
			}
			if done {
				return p.Input, nil
			}
		}
	}
}

// OpenCommandLine prompts for a command and queues it to run at the end of
// the iteration.
func (e *Editor) OpenCommandLine() {
	line, err := e.Prompt("Command")
	if err != nil {
		return
	}
	e.SetCommand(line)
}

func editPrompt(p *render.Prompt, k key.Event) (bool, error) {
	if k.IsRune() {
		if k.IsChar() && !k.IsModified() {
			insertPrompt(p, string(k.Rune))
		}
		return false, nil
	}
	switch k.Key {
	case key.KeyEnter:
		return true, nil
	case key.KeyEscape:
		return false, ErrPromptCancelled
	case key.KeyBackspace:
		if p.Cursor > 0 {
			_, n := utf8.DecodeLastRuneInString(p.Input[:p.Cursor])
			p.Input = p.Input[:p.Cursor-n] + p.Input[p.Cursor:]
			p.Cursor -= n
		}
	case key.KeyDelete:
		if p.Cursor < len(p.Input) {
			_, n := utf8.DecodeRuneInString(p.Input[p.Cursor:])
			p.Input = p.Input[:p.Cursor] + p.Input[p.Cursor+n:]
		}
	case key.KeyLeft:
		if p.Cursor > 0 {
			_, n := utf8.DecodeLastRuneInString(p.Input[:p.Cursor])
			p.Cursor -= n
		}
	case key.KeyRight:
		if p.Cursor < len(p.Input) {
			_, n := utf8.DecodeRuneInString(p.Input[p.Cursor:])
			p.Cursor += n
		}
	case key.KeyHome:
		p.Cursor = 0
	case key.KeyEnd:
		p.Cursor = len(p.Input)
	}
	return false, nil
}

func insertPrompt(p *render.Prompt, text string) {
	p.Input = p.Input[:p.Cursor] + text + p.Input[p.Cursor:]
	p.Cursor += len(text)
}
