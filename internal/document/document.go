package document

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Loc is a location in a document.
type Loc struct {
	X, Y int
}

// Before reports whether l comes before o.
func (l Loc) Before(o Loc) bool {
	return l.Y < o.Y || (l.Y == o.Y && l.X < o.X)
}

type snapshot struct {
	lines  []string
	cursor Loc
}

// Document is a line-based text buffer with a cursor.
type Document struct {
	lines []string

	cursor Loc
	// selEnd is the fixed end of the selection. It equals cursor when
	// nothing is selected.
	selEnd Loc
	// wantX is the column vertical motion tries to return to.
	wantX int

	path            string
	trailingNewline bool
	readOnly        bool
	modified        bool

	undo  []snapshot
	redo  []snapshot
	dirty bool
	// revision counts content changes, including undo and redo.
	revision uint64

	offset        Loc
	width, height int
}

// New creates an empty unnamed document.
func New() *Document {
	d := &Document{lines: []string{""}, height: 24, width: 80}
	d.undo = []snapshot{d.snapshot()}
	return d
}

// FromString creates an unnamed document holding text.
func FromString(text string) *Document {
	d := New()
	d.setText(text)
	d.undo = []snapshot{d.snapshot()}
	return d
}

// Open reads the file at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &OperationError{Op: "open", Target: path, Err: err}
	}
	d := FromString(string(data))
	d.path = path
	return d, nil
}

// OpenOrNew reads the file at path, or returns an empty document bound to
// path when the file does not exist yet.
func OpenOrNew(path string) (*Document, error) {
	d, err := Open(path)
	if err == nil {
		return d, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		d = New()
		d.path = path
		return d, nil
	}
	return nil, err
}

func (d *Document) setText(text string) {
	d.trailingNewline = strings.HasSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\n")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	d.lines = strings.Split(text, "\n")
}

func (d *Document) snapshot() snapshot {
	lines := make([]string, len(d.lines))
	copy(lines, d.lines)
	return snapshot{lines: lines, cursor: d.cursor}
}

// Path returns the file path, empty for unnamed documents.
func (d *Document) Path() string {
	return d.path
}

// SetPath binds the document to a new file path.
func (d *Document) SetPath(path string) {
	d.path = path
}

// Name returns the base name of the file, empty for unnamed documents.
func (d *Document) Name() string {
	if d.path == "" {
		return ""
	}
	return filepath.Base(d.path)
}

// ReadOnly reports whether edits are rejected.
func (d *Document) ReadOnly() bool {
	return d.readOnly
}

// SetReadOnly sets the read-only flag.
func (d *Document) SetReadOnly(ro bool) {
	d.readOnly = ro
}

// Modified reports whether the document changed since it was loaded or saved.
func (d *Document) Modified() bool {
	return d.modified
}

// Revision changes whenever the content changes.
func (d *Document) Revision() uint64 {
	return d.revision
}

// LenLines returns the number of lines.
func (d *Document) LenLines() int {
	return len(d.lines)
}

// Line returns the text of line y.
func (d *Document) Line(y int) (string, bool) {
	if y < 0 || y >= len(d.lines) {
		return "", false
	}
	return d.lines[y], true
}

// Lines returns a copy of all lines.
func (d *Document) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// Text returns the whole document joined with newlines.
func (d *Document) Text() string {
	return strings.Join(d.lines, "\n")
}

// LoadTo ensures lines up to n are available. Documents are read in full
// on open so this only exists for callers written against lazy engines.
func (d *Document) LoadTo(int) {}

// Save writes the document to its path.
func (d *Document) Save() error {
	if d.path == "" {
		return ErrNoFileName
	}
	return d.SaveAs(d.path)
}

// SaveAs writes the document to path and binds it there.
func (d *Document) SaveAs(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &OperationError{Op: "save", Target: path, Err: err}
	}
	w := bufio.NewWriter(f)
	_, err = w.WriteString(d.Text())
	if err == nil && d.trailingNewline {
		err = w.WriteByte('\n')
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &OperationError{Op: "save", Target: path, Err: err}
	}
	d.path = path
	d.modified = false
	return nil
}

// Commit closes the current undo step.
func (d *Document) Commit() {
	if !d.dirty {
		return
	}
	d.undo = append(d.undo, d.snapshot())
	d.redo = nil
	d.dirty = false
}

// Undo reverts to the previous committed state.
func (d *Document) Undo() error {
	d.Commit()
	if len(d.undo) < 2 {
		return ErrNothingToUndo
	}
	top := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	d.redo = append(d.redo, top)
	d.restore(d.undo[len(d.undo)-1])
	return nil
}

// Redo re-applies the most recently undone step.
func (d *Document) Redo() error {
	d.Commit()
	if len(d.redo) == 0 {
		return ErrNothingToRedo
	}
	s := d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]
	d.undo = append(d.undo, s)
	d.restore(s)
	return nil
}

func (d *Document) restore(s snapshot) {
	d.lines = make([]string, len(s.lines))
	copy(d.lines, s.lines)
	d.modified = true
	d.revision++
	d.MoveTo(s.cursor)
}
