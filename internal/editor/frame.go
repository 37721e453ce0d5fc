package editor

import (
	"github.com/dshills/kite/internal/render"
)

const unnamed = "[No Name]"

func displayName(d Document) string {
	if name := d.Name(); name != "" {
		return name
	}
	return unnamed
}

// byteOffset converts a rune column into a byte offset within line.
func byteOffset(line string, x int) int {
	n := 0
	for i := range line {
		if n == x {
			return i
		}
		n++
	}
	return len(line)
}

// Frame builds the frame for the current state.
func (e *Editor) Frame() render.Frame {
	b := e.Current()
	d := b.Doc
	f := render.Frame{
		Active:   e.active,
		Feedback: e.Feedback,
		Prompt:   e.prompt,
	}
	for _, buf := range e.buffers {
		f.Tabs = append(f.Tabs, displayName(buf.Doc))
	}

	height := d.LenLines()
	if e.screen != nil {
		height = e.screen.DocumentHeight()
	}
	off := d.Offset()
	from, to, selected := d.Selection()
	f.First = off.Y
	for y := off.Y; y < d.LenLines() && y < off.Y+height; y++ {
		text, _ := d.Line(y)
		line := render.Line{Text: text, Spans: b.Highlighter.Spans(y)}
		if selected && y >= from.Y && y <= to.Y {
			line.SelEnd = len(text)
			if y == from.Y {
				line.SelStart = byteOffset(text, from.X)
			}
			if y == to.Y {
				line.SelEnd = byteOffset(text, to.X)
			}
		}
		f.Lines = append(f.Lines, line)
	}

	c := d.Loc()
	current, _ := d.Line(c.Y)
	f.CursorX = byteOffset(current, c.X)
	f.CursorY = -1
	if screen, ok := d.CursorInScreen(); ok {
		f.CursorY = screen.Y
	}
	f.Status = render.Status{
		Name:      displayName(d),
		FileType:  b.Type.Name,
		Modified:  d.Modified(),
		ReadOnly:  d.ReadOnly(),
		Recording: e.macros.Recording(),
		Line:      c.Y + 1,
		Column:    c.X + 1,
		Total:     d.LenLines(),
	}
	return f
}

// Render draws the whole screen.
func (e *Editor) Render() {
	if e.screen == nil || len(e.buffers) == 0 {
		return
	}
	e.screen.Draw(e.Frame())
}

// RenderStatus redraws only the status line.
func (e *Editor) RenderStatus() {
	if e.screen == nil || len(e.buffers) == 0 {
		return
	}
	e.screen.DrawStatus(e.Frame())
}

// RenderFeedback redraws only the feedback line.
func (e *Editor) RenderFeedback() {
	if e.screen == nil || len(e.buffers) == 0 {
		return
	}
	e.screen.DrawFeedback(e.Frame())
}

// ResetTerminal repaints the terminal from scratch.
func (e *Editor) ResetTerminal() {
	if e.screen == nil {
		return
	}
	e.screen.Sync()
	e.Render()
}
