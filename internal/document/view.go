package document

import "strings"

// SetSize sets the viewport size used for scrolling and page motion.
func (d *Document) SetSize(width, height int) {
	d.width, d.height = width, height
	d.BringCursorInViewport()
}

// Offset returns the top-left location of the viewport.
func (d *Document) Offset() Loc {
	return d.offset
}

// BringCursorInViewport scrolls so the cursor is visible.
func (d *Document) BringCursorInViewport() {
	c := d.cursor
	if c.Y < d.offset.Y {
		d.offset.Y = c.Y
	}
	if d.height > 0 && c.Y >= d.offset.Y+d.height {
		d.offset.Y = c.Y - d.height + 1
	}
	if c.X < d.offset.X {
		d.offset.X = c.X
	}
	if d.width > 0 && c.X >= d.offset.X+d.width {
		d.offset.X = c.X - d.width + 1
	}
}

// CursorInScreen returns the cursor relative to the viewport.
func (d *Document) CursorInScreen() (Loc, bool) {
	l := Loc{X: d.cursor.X - d.offset.X, Y: d.cursor.Y - d.offset.Y}
	if l.X < 0 || l.Y < 0 || (d.height > 0 && l.Y >= d.height) || (d.width > 0 && l.X >= d.width) {
		return l, false
	}
	return l, true
}

// NextMatch moves the cursor to the next occurrence of query after the
// cursor, wrapping around the end. Returns false if there is none.
func (d *Document) NextMatch(query string) bool {
	if query == "" {
		return false
	}
	c := d.cursor
	n := len(d.lines)
	for i := 0; i <= n; i++ {
		y := (c.Y + i) % n
		line := d.lines[y]
		from := 0
		if i == 0 {
			from = byteIndex(line, c.X+1)
			if c.X+1 > runeLen(line) {
				continue
			}
		}
		if i == n {
			// Wrapped back to the start line: only what precedes the cursor.
			if idx := strings.Index(line, query); idx >= 0 && runeLen(line[:idx]) <= c.X {
				d.MoveTo(Loc{X: runeLen(line[:idx]), Y: y})
				return true
			}
			return false
		}
		if idx := strings.Index(line[from:], query); idx >= 0 {
			d.MoveTo(Loc{X: runeLen(line[:from+idx]), Y: y})
			return true
		}
	}
	return false
}

// PrevMatch moves the cursor to the previous occurrence of query before the
// cursor, wrapping around the start. Returns false if there is none.
func (d *Document) PrevMatch(query string) bool {
	if query == "" {
		return false
	}
	c := d.cursor
	n := len(d.lines)
	for i := 0; i <= n; i++ {
		y := ((c.Y-i)%n + n) % n
		line := d.lines[y]
		limit := len(line)
		if i == 0 {
			limit = byteIndex(line, c.X)
		}
		if i == n {
			idx := strings.LastIndex(line, query)
			if idx >= 0 && runeLen(line[:idx]) >= c.X {
				d.MoveTo(Loc{X: runeLen(line[:idx]), Y: y})
				return true
			}
			return false
		}
		if idx := strings.LastIndex(line[:limit], query); idx >= 0 {
			d.MoveTo(Loc{X: runeLen(line[:idx]), Y: y})
			return true
		}
	}
	return false
}

// ReplaceAll replaces every occurrence of query with with, returning the
// number of replacements. Matches do not span lines.
func (d *Document) ReplaceAll(query, with string) (int, error) {
	if query == "" {
		return 0, nil
	}
	count := 0
	for _, line := range d.lines {
		count += strings.Count(line, query)
	}
	if count == 0 {
		return 0, nil
	}
	if err := d.touch(); err != nil {
		return 0, err
	}
	for y, line := range d.lines {
		d.lines[y] = strings.ReplaceAll(line, query, with)
	}
	d.MoveTo(d.cursor)
	return count, nil
}
