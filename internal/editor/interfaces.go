package editor

import (
	"github.com/dshills/kite/internal/document"
	"github.com/dshills/kite/internal/highlight"
	"github.com/dshills/kite/internal/render"
)

// Document is the text engine behind a buffer. *document.Document
// implements it.
type Document interface {
	Path() string
	SetPath(path string)
	Name() string
	ReadOnly() bool
	SetReadOnly(ro bool)
	Modified() bool
	Revision() uint64

	LenLines() int
	Line(y int) (string, bool)
	Lines() []string
	Text() string
	LoadTo(y int)
	Save() error
	SaveAs(path string) error

	Insert(l document.Loc, text string) (document.Loc, error)
	Delete(from, to document.Loc) error
	Character(r rune) error
	InsertText(text string) error
	Enter() error
	Backspace() error
	DeleteForward() error
	DeleteLine() error
	DeleteWord() error
	SwapLineUp() error
	SwapLineDown() error
	SelectedText() string
	DeleteSelection() error

	Commit()
	Undo() error
	Redo() error

	Loc() document.Loc
	SelectionEnd() document.Loc
	Selection() (from, to document.Loc, ok bool)
	MoveTo(l document.Loc)
	MoveToY(y int)
	SnapCursor()
	SelectTo(l document.Loc)
	CancelSelection()
	SelectAll()
	MoveUp()
	MoveDown()
	MoveLeft()
	MoveRight()
	SelectUp()
	SelectDown()
	SelectLeft()
	SelectRight()
	MoveHome()
	MoveEnd()
	MoveTop()
	MoveBottom()
	MovePageUp()
	MovePageDown()
	MovePrevWord()
	MoveNextWord()

	SetSize(width, height int)
	Offset() document.Loc
	CursorInScreen() (document.Loc, bool)
	BringCursorInViewport()
	NextMatch(query string) bool
	PrevMatch(query string) bool
	ReplaceAll(query, with string) (int, error)
}

// Highlighter computes spans for a buffer. *highlight.Highlighter
// implements it.
type Highlighter interface {
	Run(lines []string)
	Spans(y int) []highlight.Span
	SetLanguage(lang *highlight.Language)
}

// Screen draws frames. *render.Renderer implements it.
type Screen interface {
	DocumentHeight() int
	Draw(f render.Frame)
	DrawStatus(f render.Frame)
	DrawFeedback(f render.Frame)
	Sync()
	SetTheme(theme *highlight.Theme)
	SetTabWidth(w int)
}

// ChangeSignal reports terminal changes that need a redraw.
type ChangeSignal interface {
	TakePendingChange() bool
}

// ChangeWatcher reports configuration file changes.
type ChangeWatcher interface {
	Changed() bool
}

// Clipboard stores text for cut, copy and paste.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

var (
	_ Document    = (*document.Document)(nil)
	_ Highlighter = (*highlight.Highlighter)(nil)
	_ Screen      = (*render.Renderer)(nil)
)
