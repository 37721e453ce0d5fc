package document

import (
	"unicode"

	"github.com/rivo/uniseg"
)

// Loc returns the cursor location.
func (d *Document) Loc() Loc {
	return d.cursor
}

// SelectionEnd returns the fixed end of the selection. It equals Loc when
// nothing is selected.
func (d *Document) SelectionEnd() Loc {
	return d.selEnd
}

// Selection returns the ordered selection bounds.
func (d *Document) Selection() (from, to Loc, ok bool) {
	if d.cursor == d.selEnd {
		return d.cursor, d.cursor, false
	}
	if d.cursor.Before(d.selEnd) {
		return d.cursor, d.selEnd, true
	}
	return d.selEnd, d.cursor, true
}

// place moves the cursor. extend keeps the selection anchor; vertical
// keeps the remembered column.
func (d *Document) place(l Loc, extend, vertical bool) {
	l = d.clamp(l)
	d.cursor = l
	if !extend {
		d.selEnd = l
	}
	if !vertical {
		d.wantX = l.X
	}
	d.BringCursorInViewport()
}

// MoveTo moves the cursor to l, clamped to the document, and cancels the
// selection.
func (d *Document) MoveTo(l Loc) {
	d.place(l, false, false)
}

// MoveToY moves the cursor to row y keeping the remembered column.
func (d *Document) MoveToY(y int) {
	d.place(Loc{X: d.wantX, Y: y}, false, true)
}

// SnapCursor makes the current column the one vertical motion returns to.
func (d *Document) SnapCursor() {
	d.wantX = d.cursor.X
}

// SelectTo extends the selection to l.
func (d *Document) SelectTo(l Loc) {
	d.place(l, true, false)
}

// CancelSelection collapses the selection onto the cursor.
func (d *Document) CancelSelection() {
	d.selEnd = d.cursor
}

// SelectAll selects the whole document, leaving the cursor at the end.
func (d *Document) SelectAll() {
	d.MoveTo(Loc{})
	last := len(d.lines) - 1
	d.SelectTo(Loc{X: runeLen(d.lines[last]), Y: last})
}

func (d *Document) up(extend bool) {
	if d.cursor.Y == 0 {
		d.place(Loc{X: 0, Y: 0}, extend, false)
		return
	}
	d.place(Loc{X: d.wantX, Y: d.cursor.Y - 1}, extend, true)
}

func (d *Document) down(extend bool) {
	last := len(d.lines) - 1
	if d.cursor.Y == last {
		d.place(Loc{X: runeLen(d.lines[last]), Y: last}, extend, false)
		return
	}
	d.place(Loc{X: d.wantX, Y: d.cursor.Y + 1}, extend, true)
}

func (d *Document) left(extend bool) {
	c := d.cursor
	switch {
	case c.X > 0:
		d.place(Loc{X: c.X - 1, Y: c.Y}, extend, false)
	case c.Y > 0:
		d.place(Loc{X: runeLen(d.lines[c.Y-1]), Y: c.Y - 1}, extend, false)
	}
}

func (d *Document) right(extend bool) {
	c := d.cursor
	switch {
	case c.X < runeLen(d.lines[c.Y]):
		d.place(Loc{X: c.X + 1, Y: c.Y}, extend, false)
	case c.Y+1 < len(d.lines):
		d.place(Loc{X: 0, Y: c.Y + 1}, extend, false)
	}
}

// MoveUp moves the cursor one line up.
func (d *Document) MoveUp() { d.up(false) }

// MoveDown moves the cursor one line down.
func (d *Document) MoveDown() { d.down(false) }

// MoveLeft moves the cursor one character left, wrapping to the previous line.
func (d *Document) MoveLeft() { d.left(false) }

// MoveRight moves the cursor one character right, wrapping to the next line.
func (d *Document) MoveRight() { d.right(false) }

// SelectUp extends the selection one line up.
func (d *Document) SelectUp() { d.up(true) }

// SelectDown extends the selection one line down.
func (d *Document) SelectDown() { d.down(true) }

// SelectLeft extends the selection one character left.
func (d *Document) SelectLeft() { d.left(true) }

// SelectRight extends the selection one character right.
func (d *Document) SelectRight() { d.right(true) }

// MoveHome moves to the start of the line.
func (d *Document) MoveHome() {
	d.MoveTo(Loc{X: 0, Y: d.cursor.Y})
}

// MoveEnd moves to the end of the line.
func (d *Document) MoveEnd() {
	d.MoveTo(Loc{X: runeLen(d.lines[d.cursor.Y]), Y: d.cursor.Y})
}

// MoveTop moves to the first line.
func (d *Document) MoveTop() {
	d.MoveTo(Loc{})
}

// MoveBottom moves to the start of the last line.
func (d *Document) MoveBottom() {
	d.MoveTo(Loc{X: 0, Y: len(d.lines) - 1})
}

// MovePageUp moves one screen height up.
func (d *Document) MovePageUp() {
	d.place(Loc{X: d.wantX, Y: d.cursor.Y - d.pageSize()}, false, true)
}

// MovePageDown moves one screen height down.
func (d *Document) MovePageDown() {
	d.place(Loc{X: d.wantX, Y: d.cursor.Y + d.pageSize()}, false, true)
}

func (d *Document) pageSize() int {
	if d.height < 1 {
		return 1
	}
	return d.height
}

// MovePrevWord moves to the start of the previous word, or the end of the
// previous line from the start of a line.
func (d *Document) MovePrevWord() {
	c := d.cursor
	if c.X == 0 {
		d.left(false)
		return
	}
	d.MoveTo(Loc{X: prevWordStart(d.lines[c.Y], c.X), Y: c.Y})
}

// MoveNextWord moves to the start of the next word, or the start of the
// next line from the end of a line.
func (d *Document) MoveNextWord() {
	c := d.cursor
	line := d.lines[c.Y]
	if c.X >= runeLen(line) {
		d.right(false)
		return
	}
	d.MoveTo(Loc{X: nextWordStart(line, c.X), Y: c.Y})
}

// wordStarts returns the rune columns where non-space word segments begin,
// followed by the line length.
func wordStarts(line string) []int {
	var starts []int
	state := -1
	col := 0
	rest := line
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		r := []rune(word)
		if len(r) > 0 && !unicode.IsSpace(r[0]) {
			starts = append(starts, col)
		}
		col += len(r)
	}
	return append(starts, col)
}

func prevWordStart(line string, x int) int {
	best := 0
	for _, s := range wordStarts(line) {
		if s >= x {
			break
		}
		best = s
	}
	return best
}

func nextWordStart(line string, x int) int {
	for _, s := range wordStarts(line) {
		if s > x {
			return s
		}
	}
	return runeLen(line)
}
