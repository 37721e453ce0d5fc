package document

import (
	"strings"
	"unicode/utf8"
)

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// byteIndex converts a rune column to a byte offset within s.
func byteIndex(s string, x int) int {
	if x <= 0 {
		return 0
	}
	i := 0
	for pos := range s {
		if i == x {
			return pos
		}
		i++
	}
	return len(s)
}

func (d *Document) clamp(l Loc) Loc {
	if l.Y < 0 {
		l.Y = 0
	}
	if l.Y >= len(d.lines) {
		l.Y = len(d.lines) - 1
	}
	if l.X < 0 {
		l.X = 0
	}
	if n := runeLen(d.lines[l.Y]); l.X > n {
		l.X = n
	}
	return l
}

func (d *Document) touch() error {
	if d.readOnly {
		return ErrReadOnly
	}
	d.modified = true
	d.dirty = true
	d.revision++
	return nil
}

// Insert inserts text at l. Newlines in text split lines.
// Returns the location just after the inserted text.
func (d *Document) Insert(l Loc, text string) (Loc, error) {
	if err := d.touch(); err != nil {
		return l, err
	}
	l = d.clamp(l)
	line := d.lines[l.Y]
	at := byteIndex(line, l.X)
	head, tail := line[:at], line[at:]

	parts := strings.Split(text, "\n")
	if len(parts) == 1 {
		d.lines[l.Y] = head + text + tail
		return Loc{X: l.X + runeLen(text), Y: l.Y}, nil
	}

	inserted := make([]string, len(parts))
	inserted[0] = head + parts[0]
	copy(inserted[1:], parts[1:])
	last := len(parts) - 1
	end := Loc{X: runeLen(parts[last]), Y: l.Y + last}
	inserted[last] += tail

	lines := make([]string, 0, len(d.lines)+last)
	lines = append(lines, d.lines[:l.Y]...)
	lines = append(lines, inserted...)
	lines = append(lines, d.lines[l.Y+1:]...)
	d.lines = lines
	return end, nil
}

// Delete removes the text between from and to.
func (d *Document) Delete(from, to Loc) error {
	from, to = d.clamp(from), d.clamp(to)
	if to.Before(from) {
		from, to = to, from
	}
	if from == to {
		return nil
	}
	if err := d.touch(); err != nil {
		return err
	}
	head := d.lines[from.Y][:byteIndex(d.lines[from.Y], from.X)]
	tail := d.lines[to.Y][byteIndex(d.lines[to.Y], to.X):]

	lines := make([]string, 0, len(d.lines)-(to.Y-from.Y))
	lines = append(lines, d.lines[:from.Y]...)
	lines = append(lines, head+tail)
	lines = append(lines, d.lines[to.Y+1:]...)
	d.lines = lines
	return nil
}

// Character inserts r at the cursor and advances it.
func (d *Document) Character(r rune) error {
	if r == '\n' {
		return d.Enter()
	}
	end, err := d.Insert(d.cursor, string(r))
	if err != nil {
		return err
	}
	d.MoveTo(end)
	return nil
}

// InsertText inserts text at the cursor and moves past it.
func (d *Document) InsertText(text string) error {
	end, err := d.Insert(d.cursor, text)
	if err != nil {
		return err
	}
	d.MoveTo(end)
	return nil
}

// Enter splits the current line at the cursor.
func (d *Document) Enter() error {
	end, err := d.Insert(d.cursor, "\n")
	if err != nil {
		return err
	}
	d.MoveTo(end)
	return nil
}

// Backspace deletes the character before the cursor, joining lines at the
// start of a line.
func (d *Document) Backspace() error {
	c := d.cursor
	var from Loc
	switch {
	case c.X > 0:
		from = Loc{X: c.X - 1, Y: c.Y}
	case c.Y > 0:
		from = Loc{X: runeLen(d.lines[c.Y-1]), Y: c.Y - 1}
	default:
		return nil
	}
	if err := d.Delete(from, c); err != nil {
		return err
	}
	d.MoveTo(from)
	return nil
}

// DeleteForward deletes the character under the cursor, joining the next
// line at the end of a line.
func (d *Document) DeleteForward() error {
	c := d.cursor
	var to Loc
	switch {
	case c.X < runeLen(d.lines[c.Y]):
		to = Loc{X: c.X + 1, Y: c.Y}
	case c.Y+1 < len(d.lines):
		to = Loc{X: 0, Y: c.Y + 1}
	default:
		return nil
	}
	if err := d.Delete(c, to); err != nil {
		return err
	}
	d.MoveTo(c)
	return nil
}

// DeleteLine removes the cursor's line. The last remaining line is emptied
// instead.
func (d *Document) DeleteLine() error {
	if err := d.touch(); err != nil {
		return err
	}
	y := d.cursor.Y
	if len(d.lines) == 1 {
		d.lines[0] = ""
	} else {
		d.lines = append(d.lines[:y:y], d.lines[y+1:]...)
	}
	d.MoveTo(Loc{X: d.cursor.X, Y: y})
	return nil
}

// DeleteWord removes from the start of the previous word to the cursor.
func (d *Document) DeleteWord() error {
	c := d.cursor
	start := Loc{X: prevWordStart(d.lines[c.Y], c.X), Y: c.Y}
	if start == c {
		return d.Backspace()
	}
	if err := d.Delete(start, c); err != nil {
		return err
	}
	d.MoveTo(start)
	return nil
}

// SwapLineUp exchanges the cursor's line with the one above.
func (d *Document) SwapLineUp() error {
	y := d.cursor.Y
	if y == 0 {
		return nil
	}
	if err := d.touch(); err != nil {
		return err
	}
	d.lines[y-1], d.lines[y] = d.lines[y], d.lines[y-1]
	d.MoveTo(Loc{X: d.cursor.X, Y: y - 1})
	return nil
}

// SwapLineDown exchanges the cursor's line with the one below.
func (d *Document) SwapLineDown() error {
	y := d.cursor.Y
	if y+1 >= len(d.lines) {
		return nil
	}
	if err := d.touch(); err != nil {
		return err
	}
	d.lines[y+1], d.lines[y] = d.lines[y], d.lines[y+1]
	d.MoveTo(Loc{X: d.cursor.X, Y: y + 1})
	return nil
}

// SelectedText returns the selected text, empty without a selection.
func (d *Document) SelectedText() string {
	from, to, ok := d.Selection()
	if !ok {
		return ""
	}
	if from.Y == to.Y {
		line := d.lines[from.Y]
		return line[byteIndex(line, from.X):byteIndex(line, to.X)]
	}
	var b strings.Builder
	first := d.lines[from.Y]
	b.WriteString(first[byteIndex(first, from.X):])
	for y := from.Y + 1; y < to.Y; y++ {
		b.WriteByte('\n')
		b.WriteString(d.lines[y])
	}
	b.WriteByte('\n')
	last := d.lines[to.Y]
	b.WriteString(last[:byteIndex(last, to.X)])
	return b.String()
}

// DeleteSelection removes the selected text and collapses the cursor to
// its start.
func (d *Document) DeleteSelection() error {
	from, to, ok := d.Selection()
	if !ok {
		return nil
	}
	if err := d.Delete(from, to); err != nil {
		return err
	}
	d.MoveTo(from)
	return nil
}
