// Package render draws editor frames onto a tcell screen.
//
// The screen is split into a tab line, the document area, a status line and
// the feedback line. The feedback line doubles as the prompt while one is
// open.
package render

import (
	"github.com/dshills/kite/internal/feedback"
	"github.com/dshills/kite/internal/highlight"
)

// Rows taken by the tab, status and feedback lines.
const chromeRows = 3

// Line is one visible document line.
type Line struct {
	Text  string
	Spans []highlight.Span

	// SelStart and SelEnd bound the selected byte range. Equal values mean
	// nothing on this line is selected.
	SelStart int
	SelEnd   int
}

// Status is the content of the status line.
type Status struct {
	Name      string
	FileType  string
	Modified  bool
	ReadOnly  bool
	Recording bool
	Line      int // 1-based
	Column    int // 1-based
	Total     int
}

// Prompt is an open line-input prompt.
type Prompt struct {
	Label  string
	Input  string
	Cursor int // byte offset into Input
}

// Frame is everything needed to draw the editor once.
type Frame struct {
	Tabs   []string
	Active int

	// Lines are the visible lines; First is the 0-based document row of
	// Lines[0].
	Lines []Line
	First int

	// CursorX is a byte offset into Lines[CursorY].Text.
	CursorX int
	CursorY int

	Status   Status
	Feedback feedback.Feedback
	Prompt   *Prompt
}
