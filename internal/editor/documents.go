package editor

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dshills/kite/internal/document"
	"github.com/dshills/kite/internal/feedback"
	"github.com/dshills/kite/internal/highlight"
)

// NewDocument opens a blank document in a new tab.
func (e *Editor) NewDocument() {
	e.Add(document.New())
}

// OpenFile opens path in a new tab, or switches to it if it is already
// open. A missing file becomes a new document bound to path.
func (e *Editor) OpenFile(path string, readOnly bool) error {
	if i, ok := e.find(path); ok {
		e.active = i
		return nil
	}
	doc, err := document.OpenOrNew(path)
	if err != nil {
		return err
	}
	doc.SetReadOnly(readOnly)
	e.Add(doc)
	return nil
}

// Open prompts for a file and opens it.
func (e *Editor) Open() {
	path, err := e.Prompt("File to open")
	if err != nil || path == "" {
		return
	}
	if err := e.OpenFile(path, false); err != nil {
		e.Feedback = feedback.Error(fmt.Sprintf("File couldn't be opened: %v", err))
	}
}

func (e *Editor) find(path string) (int, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, false
	}
	for i, b := range e.buffers {
		if b.Doc.Path() == "" {
			continue
		}
		if other, err := filepath.Abs(b.Doc.Path()); err == nil && other == abs {
			return i, true
		}
	}
	return 0, false
}

// Save writes the active document, prompting for a name if it has none.
func (e *Editor) Save() {
	d := e.Doc()
	if d.Path() == "" {
		e.SaveAs()
		return
	}
	if err := d.Save(); err != nil {
		e.Feedback = feedback.Error(fmt.Sprintf("Failed to save file: %v", err))
		return
	}
	e.Feedback = feedback.Info(fmt.Sprintf("Saved %s", d.Name()))
}

// SaveAs prompts for a path and writes the active document there.
func (e *Editor) SaveAs() {
	path, err := e.Prompt("Save as")
	if err != nil || path == "" {
		return
	}
	b := e.Current()
	if err := b.Doc.SaveAs(path); err != nil {
		e.Feedback = feedback.Error(fmt.Sprintf("Failed to save file: %v", err))
		return
	}
	if b.Type == highlight.Unknown {
		b.SetType(highlight.Detect(path))
	}
	e.Feedback = feedback.Info(fmt.Sprintf("Saved %s", b.Doc.Name()))
}

// SaveAll writes every document that has a path.
func (e *Editor) SaveAll() {
	var errs []error
	for _, b := range e.buffers {
		if b.Doc.Path() == "" {
			continue
		}
		if err := b.Doc.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		e.Feedback = feedback.Error(fmt.Sprintf("Failed to save all files: %v", err))
		return
	}
	e.Feedback = feedback.Info("Saved all documents")
}

// Quit closes the active document, asking first if it has unsaved
// changes. Closing the last document stops the main loop; the document
// stays open so the editor is never left without one.
func (e *Editor) Quit() {
	if e.Doc().Modified() {
		answer, err := e.Prompt("Lose changes? (y/n)")
		if err != nil || (answer != "y" && answer != "Y") {
			return
		}
	}
	if len(e.buffers) == 1 {
		e.Stop()
		return
	}
	e.buffers = append(e.buffers[:e.active], e.buffers[e.active+1:]...)
	if e.active >= len(e.buffers) {
		e.active = len(e.buffers) - 1
	}
}

// PreviousTab switches to the tab on the left.
func (e *Editor) PreviousTab() {
	if e.active > 0 {
		e.active--
	}
}

// NextTab switches to the tab on the right.
func (e *Editor) NextTab() {
	if e.active+1 < len(e.buffers) {
		e.active++
	}
}

// MoveToDocument switches to tab id. Returns false if there is no such tab.
func (e *Editor) MoveToDocument(id int) bool {
	if id < 0 || id >= len(e.buffers) {
		return false
	}
	e.active = id
	return true
}

// SetReadOnly sets the read-only flag of the active document.
func (e *Editor) SetReadOnly(ro bool) {
	e.Doc().SetReadOnly(ro)
}

// SetFileType changes the language of the active document by name.
func (e *Editor) SetFileType(name string) {
	lang, ok := highlight.ByName(name)
	if !ok {
		e.Feedback = feedback.Error(fmt.Sprintf("Invalid file type: %s", name))
		return
	}
	e.Current().SetType(lang)
}
