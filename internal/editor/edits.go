package editor

import (
	"errors"
	"fmt"

	"github.com/dshills/kite/internal/document"
	"github.com/dshills/kite/internal/feedback"
)

var (
	// ErrNothingSelected is returned by cut and copy without a selection.
	ErrNothingSelected = errors.New("nothing is selected")

	// ErrNoDocument is returned by edits made before any document is open.
	ErrNoDocument = errors.New("no document is open")
)

// Edit runs fn against the active document as a script edit sequence. The
// highlighter is refreshed once, when the outermost sequence ends. A failure
// is shown on the feedback line.
func (e *Editor) Edit(fn func(d Document) error) {
	if len(e.buffers) == 0 {
		e.fail(ErrNoDocument)
		return
	}
	d := e.Doc()
	if e.pluginActive {
		e.fail(fn(d))
		return
	}

	e.pluginActive = true
	defer func() { e.pluginActive = false }()
	e.fail(fn(d))
	e.pluginActive = false
	e.UpdateHighlighter()
}

// at runs fn with the cursor moved to l and puts the cursor back after.
func at(d Document, l document.Loc, fn func() error) error {
	saved := d.Loc()
	d.MoveTo(l)
	err := fn()
	d.MoveTo(saved)
	return err
}

// Insert types text at the cursor.
func (e *Editor) Insert(text string) {
	e.Edit(func(d Document) error { return d.InsertText(text) })
}

// Remove deletes the character before the cursor.
func (e *Editor) Remove() {
	e.Edit(func(d Document) error { return d.Backspace() })
}

// InsertLine splits the line at the cursor.
func (e *Editor) InsertLine() {
	e.Edit(func(d Document) error { return d.Enter() })
}

// RemoveLine deletes the cursor's line.
func (e *Editor) RemoveLine() {
	e.Edit(func(d Document) error { return d.DeleteLine() })
}

// RemoveWord deletes the word before the cursor.
func (e *Editor) RemoveWord() {
	e.Edit(func(d Document) error { return d.DeleteWord() })
}

// MoveLineUp swaps the cursor's line with the one above.
func (e *Editor) MoveLineUp() {
	e.Edit(func(d Document) error { return d.SwapLineUp() })
}

// MoveLineDown swaps the cursor's line with the one below.
func (e *Editor) MoveLineDown() {
	e.Edit(func(d Document) error { return d.SwapLineDown() })
}

// InsertAt inserts text at (x, y) leaving the cursor where it was.
func (e *Editor) InsertAt(text string, x, y int) {
	e.Edit(func(d Document) error {
		return at(d, document.Loc{X: x, Y: y}, func() error {
			return d.InsertText(text)
		})
	})
}

// RemoveAt deletes the character at (x, y) leaving the cursor where it was.
func (e *Editor) RemoveAt(x, y int) {
	e.Edit(func(d Document) error {
		return at(d, document.Loc{X: x, Y: y}, d.DeleteForward)
	})
}

// InsertLineAt inserts text as a new line before row y, or after the last
// line when y is past the end. The cursor stays where it was.
func (e *Editor) InsertLineAt(text string, y int) {
	e.Edit(func(d Document) error {
		saved := d.Loc()
		defer d.MoveTo(saved)
		if y < d.LenLines() {
			d.MoveTo(document.Loc{Y: y})
			if err := d.Enter(); err != nil {
				return err
			}
			d.MoveUp()
		} else {
			d.MoveBottom()
			d.MoveEnd()
			if err := d.Enter(); err != nil {
				return err
			}
		}
		return d.InsertText(text)
	})
}

// RemoveLineAt deletes row y leaving the cursor where it was.
func (e *Editor) RemoveLineAt(y int) {
	e.Edit(func(d Document) error {
		return at(d, document.Loc{Y: y}, d.DeleteLine)
	})
}

// Cut moves the selection to the clipboard.
func (e *Editor) Cut() {
	text := e.Doc().SelectedText()
	if text == "" {
		e.fail(ErrNothingSelected)
		return
	}
	if e.fail(e.clipboard.WriteAll(text)) {
		return
	}
	var err error
	e.Edit(func(d Document) error {
		err = d.DeleteSelection()
		return err
	})
	if err == nil {
		e.Feedback = feedback.Info("Text cut to clipboard")
	}
}

// Copy puts the selection on the clipboard.
func (e *Editor) Copy() {
	text := e.Doc().SelectedText()
	if text == "" {
		e.fail(ErrNothingSelected)
		return
	}
	if e.fail(e.clipboard.WriteAll(text)) {
		return
	}
	e.Feedback = feedback.Info("Text copied to clipboard")
}

// Paste inserts the clipboard contents, replacing the selection.
func (e *Editor) Paste() {
	text, err := e.clipboard.ReadAll()
	if e.fail(err) {
		return
	}
	e.Edit(func(d Document) error {
		if err := deleteSelection(d); err != nil {
			return err
		}
		return d.InsertText(text)
	})
}

// Undo reverts the last committed change.
func (e *Editor) Undo() {
	e.fail(e.Doc().Undo())
}

// Redo reapplies the last undone change.
func (e *Editor) Redo() {
	e.fail(e.Doc().Redo())
}

// Commit records an undo point.
func (e *Editor) Commit() {
	e.Doc().Commit()
}

// Search prompts for a query and moves to its next occurrence.
func (e *Editor) Search() {
	query, err := e.Prompt("Search")
	if err != nil || query == "" {
		return
	}
	e.NextMatch(query)
}

// NextMatch moves to the next occurrence of query.
func (e *Editor) NextMatch(query string) {
	d := e.Doc()
	if !d.NextMatch(query) {
		e.Feedback = feedback.Warning(fmt.Sprintf("No matches for '%s'", query))
	}
	d.CancelSelection()
}

// PreviousMatch moves to the previous occurrence of query.
func (e *Editor) PreviousMatch(query string) {
	d := e.Doc()
	if !d.PrevMatch(query) {
		e.Feedback = feedback.Warning(fmt.Sprintf("No matches for '%s'", query))
	}
	d.CancelSelection()
}

// Replace prompts for a query and a replacement and replaces every
// occurrence.
func (e *Editor) Replace() {
	query, err := e.Prompt("Replace")
	if err != nil || query == "" {
		return
	}
	with, err := e.Prompt("Replace with")
	if err != nil {
		return
	}
	var n int
	e.Edit(func(d Document) error {
		n, err = d.ReplaceAll(query, with)
		return err
	})
	if err == nil {
		e.Feedback = feedback.Info(fmt.Sprintf("Replaced %d occurrences", n))
	}
}

// MacroRecordStart starts recording. The key that started it is not part
// of the macro.
func (e *Editor) MacroRecordStart() {
	e.macros.Record()
}

// MacroRecordStop finishes the recording, dropping the key that stopped it.
func (e *Editor) MacroRecordStop() {
	e.macros.DropLast()
	e.macros.Finish()
}

// MacroPlay replays the recorded macro n times.
func (e *Editor) MacroPlay(n int) {
	e.macros.Finish()
	e.macros.Play(n)
}
