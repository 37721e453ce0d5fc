package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/kite/internal/feedback"
	"github.com/dshills/kite/internal/highlight"
)

// DefaultTabWidth is used when no width is configured.
const DefaultTabWidth = 4

// Renderer draws frames.
type Renderer struct {
	screen   tcell.Screen
	theme    *highlight.Theme
	tabWidth int
}

// New creates a renderer. A nil theme selects the default theme.
func New(screen tcell.Screen, theme *highlight.Theme, tabWidth int) *Renderer {
	r := &Renderer{screen: screen}
	r.SetTheme(theme)
	r.SetTabWidth(tabWidth)
	return r
}

// SetTheme replaces the colour theme.
func (r *Renderer) SetTheme(theme *highlight.Theme) {
	if theme == nil {
		theme = highlight.DefaultTheme()
	}
	r.theme = theme
}

// SetTabWidth sets how many cells a tab advances to.
func (r *Renderer) SetTabWidth(w int) {
	if w <= 0 {
		w = DefaultTabWidth
	}
	r.tabWidth = w
}

// Size returns the screen size in cells.
func (r *Renderer) Size() (int, int) {
	return r.screen.Size()
}

// DocumentHeight returns the rows available for document lines.
func (r *Renderer) DocumentHeight() int {
	_, h := r.screen.Size()
	if h <= chromeRows {
		return 1
	}
	return h - chromeRows
}

// Sync redraws the whole terminal from scratch.
func (r *Renderer) Sync() {
	r.screen.Sync()
}

// Beep rings the terminal bell.
func (r *Renderer) Beep() {
	_ = r.screen.Beep()
}

// Draw renders the whole frame and flushes it.
func (r *Renderer) Draw(f Frame) {
	r.screen.SetStyle(r.base())
	r.screen.Clear()
	r.drawTabs(f)
	r.drawDocument(f)
	r.drawStatus(f)
	r.drawFeedback(f)
	r.screen.Show()
}

// DrawStatus renders only the status line.
func (r *Renderer) DrawStatus(f Frame) {
	r.drawStatus(f)
	r.screen.Show()
}

// DrawFeedback renders only the feedback line.
func (r *Renderer) DrawFeedback(f Frame) {
	r.drawFeedback(f)
	r.screen.Show()
}

func tcellColor(c colorful.Color) tcell.Color {
	red, green, blue := c.RGB255()
	return tcell.NewRGBColor(int32(red), int32(green), int32(blue))
}

func (r *Renderer) base() tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcellColor(r.theme.Foreground)).
		Background(tcellColor(r.theme.Background))
}

// bar is the style of the tab and status lines.
func (r *Renderer) bar() tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcellColor(r.theme.Background)).
		Background(tcellColor(r.theme.Accent))
}

// put writes s from column x and returns the column after it.
func (r *Renderer) put(x, y, limit int, s string, style tcell.Style) int {
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			w = 1
		}
		if x+w > limit {
			break
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x += w
	}
	return x
}

func (r *Renderer) fill(y, width int, style tcell.Style) {
	for x := 0; x < width; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}

func (r *Renderer) drawTabs(f Frame) {
	w, _ := r.screen.Size()
	bar := r.bar()
	r.fill(0, w, bar)
	x := 0
	for i, name := range f.Tabs {
		style := bar
		if i == f.Active {
			style = r.base().Bold(true)
		}
		x = r.put(x, 0, w, " "+name+" ", style)
		if x >= w {
			break
		}
	}
}

// GutterWidth returns the width of the line number gutter for a document
// of total lines.
func GutterWidth(total int) int {
	return len(strconv.Itoa(max(total, 1))) + 2
}

// RuneAt returns the rune index shown at display column col of text.
// Columns past the end map to the end of the line.
func RuneAt(text string, col, tabWidth int) int {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	x, n := 0, 0
	for _, ch := range text {
		w := runewidth.RuneWidth(ch)
		if ch == '\t' {
			w = (x/tabWidth+1)*tabWidth - x
		}
		if col < x+w {
			return n
		}
		x += w
		n++
	}
	return n
}

func (r *Renderer) drawDocument(f Frame) {
	w, _ := r.screen.Size()
	gutter := GutterWidth(f.Status.Total)
	height := r.DocumentHeight()
	numStyle := r.base().Foreground(tcellColor(r.theme.Color(highlight.KindComment)))

	for row := 0; row < height && row < len(f.Lines); row++ {
		y := row + 1
		num := strconv.Itoa(f.First + row + 1)
		r.put(gutter-1-len(num), y, gutter, num, numStyle)
		r.drawLine(f.Lines[row], gutter, y, w)
	}

	if f.Prompt == nil && f.CursorY >= 0 && f.CursorY < len(f.Lines) && f.CursorY < height {
		x := gutter + r.column(f.Lines[f.CursorY].Text, f.CursorX)
		r.screen.ShowCursor(min(x, w-1), f.CursorY+1)
	} else if f.Prompt == nil {
		r.screen.HideCursor()
	}
}

func (r *Renderer) drawLine(line Line, x0, y, width int) {
	x := x0
	span := 0
	for i, ch := range line.Text {
		for span < len(line.Spans) && line.Spans[span].End <= i {
			span++
		}
		style := r.base()
		if span < len(line.Spans) && line.Spans[span].Start <= i {
			style = style.Foreground(tcellColor(r.theme.Color(line.Spans[span].Kind)))
		}
		if i >= line.SelStart && i < line.SelEnd {
			style = style.Reverse(true)
		}

		if ch == '\t' {
			next := x0 + ((x-x0)/r.tabWidth+1)*r.tabWidth
			for ; x < next && x < width; x++ {
				r.screen.SetContent(x, y, ' ', nil, style)
			}
			continue
		}
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if x+w > width {
			return
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x += w
	}
}

// column converts a byte offset into a display column.
func (r *Renderer) column(text string, offset int) int {
	col := 0
	for i, ch := range text {
		if i >= offset {
			break
		}
		if ch == '\t' {
			col = (col/r.tabWidth + 1) * r.tabWidth
			continue
		}
		col += runewidth.RuneWidth(ch)
	}
	return col
}

func (r *Renderer) drawStatus(f Frame) {
	w, h := r.screen.Size()
	if h < chromeRows {
		return
	}
	y := h - 2
	bar := r.bar()
	r.fill(y, w, bar)

	s := f.Status
	left := " " + s.Name
	if s.Modified {
		left += " [+]"
	}
	if s.ReadOnly {
		left += " [RO]"
	}
	if s.Recording {
		left += " [REC]"
	}
	left += " | " + s.FileType

	right := fmt.Sprintf("%d / %d, %d ", s.Line, s.Total, s.Column)
	rightX := w - runewidth.StringWidth(right)
	r.put(0, y, max(rightX-1, 0), left, bar)
	if rightX > 0 {
		r.put(rightX, y, w, right, bar)
	}
}

func (r *Renderer) drawFeedback(f Frame) {
	w, h := r.screen.Size()
	y := h - 1
	style := r.base()
	r.fill(y, w, style)

	if p := f.Prompt; p != nil {
		label := p.Label + ": "
		x := r.put(0, y, w, label, style.Bold(true))
		r.put(x, y, w, p.Input, style)
		cx := x + runewidth.StringWidth(p.Input[:min(p.Cursor, len(p.Input))])
		r.screen.ShowCursor(min(cx, w-1), y)
		return
	}

	switch f.Feedback.Kind {
	case feedback.KindError:
		style = style.Foreground(tcell.ColorRed).Bold(true)
	case feedback.KindWarning:
		style = style.Foreground(tcell.ColorYellow)
	case feedback.KindInfo:
		style = style.Foreground(tcellColor(r.theme.Accent))
	}
	r.put(0, y, w, strings.ReplaceAll(f.Feedback.String(), "\n", " "), style)
}
