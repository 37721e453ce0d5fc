package api

import (
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/kite/internal/document"
	"github.com/dshills/kite/internal/editor"
	"github.com/dshills/kite/internal/feedback"
	luahost "github.com/dshills/kite/internal/plugin/lua"
)

// EditorModule exposes the editor to scripts as the global "editor".
//
// Properties are read with a dot (editor.cursor) and methods are called
// with a colon (editor:insert("x")). Rows are 1-based on the Lua side and
// columns are 0-based.
type EditorModule struct {
	ed *editor.Editor
}

// NewEditorModule creates the module for ed.
func NewEditorModule(ed *editor.Editor) *EditorModule {
	return &EditorModule{ed: ed}
}

// Name returns the module name.
func (m *EditorModule) Name() string {
	return "editor"
}

// documentFree lists the members that work before any document is open.
// Everything else raises "no document is open".
var documentFree = map[string]bool{
	"panic":                  true,
	"reset_terminal":         true,
	"reload_config":          true,
	"reload_plugins":         true,
	"display_error":          true,
	"display_warning":        true,
	"display_info":           true,
	"run":                    true,
	"new":                    true,
	"rerender":               true,
	"rerender_status_line":   true,
	"rerender_feedback_line": true,
	"macro_record_start":     true,
	"macro_record_stop":      true,
	"macro_play":             true,

	"version":             true,
	"cwd":                 true,
	"document_count":      true,
	"current_document_id": true,
	"macro_recording":     true,
	"macro_playing":       true,
}

func (m *EditorModule) requireDocument(L *lua.LState, name string) {
	if !documentFree[name] && len(m.ed.Buffers()) == 0 {
		L.RaiseError("editor.%s: %v", name, editor.ErrNoDocument)
	}
}

// Register installs the editor global.
func (m *EditorModule) Register(L *lua.LState) error {
	funcs := m.methods()
	for name, fn := range funcs {
		funcs[name] = func(L *lua.LState) int {
			m.requireDocument(L, name)
			return fn(L)
		}
	}
	methods := L.SetFuncs(L.NewTable(), funcs)
	props := m.properties()

	mt := L.NewTable()
	L.SetField(mt, "__index", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(2)
		if fn := methods.RawGetString(name); fn != lua.LNil {
			L.Push(fn)
			return 1
		}
		if get, ok := props[name]; ok {
			m.requireDocument(L, name)
			L.Push(get(L))
			return 1
		}
		L.Push(lua.LNil)
		return 1
	}))
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("editor.%s is read-only", L.CheckString(2))
		return 0
	}))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString("editor"))
		return 1
	}))

	ud := L.NewUserData()
	ud.Value = m.ed
	L.SetMetatable(ud, mt)
	L.SetGlobal("editor", ud)
	return nil
}

func loc(L *lua.LState, l document.Loc) lua.LValue {
	return luahost.ToLua(L, map[string]any{"x": l.X, "y": l.Y + 1})
}

// row converts a 1-based row argument to a document row.
func row(L *lua.LState, n int) int {
	return max(L.CheckInt(n)-1, 0)
}

func column(L *lua.LState, n int) int {
	return max(L.CheckInt(n), 0)
}

func optString(s string) lua.LValue {
	if s == "" {
		return lua.LNil
	}
	return lua.LString(s)
}

func (m *EditorModule) properties() map[string]func(L *lua.LState) lua.LValue {
	ed := m.ed
	path := func() string { return ed.Doc().Path() }
	return map[string]func(L *lua.LState) lua.LValue{
		"cursor": func(L *lua.LState) lua.LValue {
			return loc(L, ed.Doc().Loc())
		},
		"selection": func(L *lua.LState) lua.LValue {
			return loc(L, ed.Doc().SelectionEnd())
		},
		"document_name": func(*lua.LState) lua.LValue {
			return optString(path())
		},
		"document_length": func(*lua.LState) lua.LValue {
			return lua.LNumber(ed.Doc().LenLines())
		},
		"version": func(*lua.LState) lua.LValue {
			return lua.LString(ed.Version())
		},
		"current_document_id": func(*lua.LState) lua.LValue {
			return lua.LNumber(ed.Active())
		},
		"document_count": func(*lua.LState) lua.LValue {
			return lua.LNumber(len(ed.Buffers()))
		},
		"document_type": func(*lua.LState) lua.LValue {
			return lua.LString(ed.Current().Type.Name)
		},
		"file_name": func(*lua.LState) lua.LValue {
			if path() == "" {
				return lua.LString("")
			}
			return lua.LString(filepath.Base(path()))
		},
		"file_extension": func(*lua.LState) lua.LValue {
			return lua.LString(strings.TrimPrefix(filepath.Ext(path()), "."))
		},
		"file_path": func(*lua.LState) lua.LValue {
			if path() == "" {
				return lua.LString("")
			}
			abs, err := filepath.Abs(path())
			if err != nil {
				return lua.LString(path())
			}
			return lua.LString(abs)
		},
		"cwd": func(*lua.LState) lua.LValue {
			wd, err := os.Getwd()
			if err != nil {
				return lua.LNil
			}
			return lua.LString(wd)
		},
		"macro_recording": func(*lua.LState) lua.LValue {
			return lua.LBool(ed.Macros().Recording())
		},
		"macro_playing": func(*lua.LState) lua.LValue {
			return lua.LBool(ed.Macros().Playing())
		},
		"read_only": func(*lua.LState) lua.LValue {
			return lua.LBool(ed.Doc().ReadOnly())
		},
		"modified": func(*lua.LState) lua.LValue {
			return lua.LBool(ed.Doc().Modified())
		},
	}
}

// do wraps a method without arguments.
func (m *EditorModule) do(fn func()) lua.LGFunction {
	return func(*lua.LState) int {
		fn()
		return 0
	}
}

// motion wraps a cursor motion on the active document.
func (m *EditorModule) motion(fn func(d editor.Document)) lua.LGFunction {
	return func(*lua.LState) int {
		fn(m.ed.Doc())
		m.ed.UpdateHighlighter()
		return 0
	}
}

// message wraps a method setting the feedback line.
func (m *EditorModule) message(kind func(string) feedback.Feedback) lua.LGFunction {
	return func(L *lua.LState) int {
		m.ed.Feedback = kind(L.CheckString(2))
		return 0
	}
}

func (m *EditorModule) methods() map[string]lua.LGFunction {
	ed := m.ed
	return map[string]lua.LGFunction{
		// Lifecycle
		"panic": func(L *lua.LState) int {
			ed.Fatal(L.OptString(2, "panic called from a script"))
			return 0
		},
		"reset_terminal":  m.do(ed.ResetTerminal),
		"reload_config":   m.do(func() { ed.ReloadConfig() }),
		"reload_plugins":  m.do(ed.ReloadPlugins),
		"display_error":   m.message(feedback.Error),
		"display_warning": m.message(feedback.Warning),
		"display_info":    m.message(feedback.Info),
		"prompt":          m.prompt,
		"run": func(L *lua.LState) int {
			ed.SetCommand(L.CheckString(2))
			return 0
		},

		// Relative edits
		"insert": func(L *lua.LState) int {
			ed.Insert(L.CheckString(2))
			return 0
		},
		"remove":         m.do(ed.Remove),
		"insert_line":    m.do(ed.InsertLine),
		"remove_line":    m.do(ed.RemoveLine),
		"remove_word":    m.do(ed.RemoveWord),
		"move_line_up":   m.do(ed.MoveLineUp),
		"move_line_down": m.do(ed.MoveLineDown),

		// Motion
		"move_to": func(L *lua.LState) int {
			ed.Doc().MoveTo(document.Loc{X: column(L, 2), Y: row(L, 3)})
			ed.UpdateHighlighter()
			return 0
		},
		"move_up":            m.motion(editor.Document.MoveUp),
		"move_down":          m.motion(editor.Document.MoveDown),
		"move_left":          m.motion(editor.Document.MoveLeft),
		"move_right":         m.motion(editor.Document.MoveRight),
		"move_home":          m.motion(editor.Document.MoveHome),
		"move_end":           m.motion(editor.Document.MoveEnd),
		"move_page_up":       m.motion(editor.Document.MovePageUp),
		"move_page_down":     m.motion(editor.Document.MovePageDown),
		"move_top":           m.motion(editor.Document.MoveTop),
		"move_bottom":        m.motion(editor.Document.MoveBottom),
		"move_previous_word": m.motion(editor.Document.MovePrevWord),
		"move_next_word":     m.motion(editor.Document.MoveNextWord),
		"cursor_snap":        m.motion(editor.Document.SnapCursor),
		"cursor_to_viewport": m.motion(editor.Document.BringCursorInViewport),

		// Selection
		"select_up":        m.motion(editor.Document.SelectUp),
		"select_down":      m.motion(editor.Document.SelectDown),
		"select_left":      m.motion(editor.Document.SelectLeft),
		"select_right":     m.motion(editor.Document.SelectRight),
		"select_all":       m.motion(editor.Document.SelectAll),
		"cancel_selection": m.motion(editor.Document.CancelSelection),
		"select_to": func(L *lua.LState) int {
			ed.Doc().SelectTo(document.Loc{X: column(L, 2), Y: row(L, 3)})
			ed.UpdateHighlighter()
			return 0
		},

		// Clipboard
		"cut":   m.do(ed.Cut),
		"copy":  m.do(ed.Copy),
		"paste": m.do(ed.Paste),

		// Absolute edits
		"insert_at": func(L *lua.LState) int {
			ed.InsertAt(L.CheckString(2), column(L, 3), row(L, 4))
			return 0
		},
		"remove_at": func(L *lua.LState) int {
			ed.RemoveAt(column(L, 2), row(L, 3))
			return 0
		},
		"insert_line_at": func(L *lua.LState) int {
			ed.InsertLineAt(L.CheckString(2), row(L, 3))
			return 0
		},
		"remove_line_at": func(L *lua.LState) int {
			ed.RemoveLineAt(row(L, 2))
			return 0
		},

		// Reading
		"get": func(L *lua.LState) int {
			d := ed.Doc()
			d.LoadTo(d.LenLines())
			L.Push(lua.LString(d.Text()))
			return 1
		},
		"get_character": func(L *lua.LState) int {
			c := ed.Doc().Loc()
			L.Push(lua.LString(character(ed.Doc(), c.X, c.Y)))
			return 1
		},
		"get_character_at": func(L *lua.LState) int {
			y := row(L, 3)
			ed.Doc().LoadTo(y + 1)
			L.Push(lua.LString(character(ed.Doc(), column(L, 2), y)))
			return 1
		},
		"get_line": func(L *lua.LState) int {
			line, _ := ed.Doc().Line(ed.Doc().Loc().Y)
			L.Push(lua.LString(line))
			return 1
		},
		"get_line_at": func(L *lua.LState) int {
			y := row(L, 2)
			ed.Doc().LoadTo(y + 1)
			line, _ := ed.Doc().Line(y)
			L.Push(lua.LString(line))
			return 1
		},

		// Documents
		"previous_tab": m.do(ed.PreviousTab),
		"next_tab":     m.do(ed.NextTab),
		"move_to_document": func(L *lua.LState) int {
			ed.MoveToDocument(L.CheckInt(2))
			return 0
		},
		"new":      m.do(ed.NewDocument),
		"open":     m.do(ed.Open),
		"save":     m.do(ed.Save),
		"save_as":  m.do(ed.SaveAs),
		"save_all": m.do(ed.SaveAll),
		"quit":     m.do(ed.Quit),
		"set_read_only": func(L *lua.LState) int {
			ed.SetReadOnly(L.CheckBool(2))
			return 0
		},
		"set_file_type": func(L *lua.LState) int {
			ed.SetFileType(L.CheckString(2))
			return 0
		},

		// History
		"undo":   m.do(ed.Undo),
		"redo":   m.do(ed.Redo),
		"commit": m.do(ed.Commit),

		// Search
		"search":  m.do(ed.Search),
		"replace": m.do(ed.Replace),
		"move_next_match": func(L *lua.LState) int {
			ed.NextMatch(L.CheckString(2))
			ed.UpdateHighlighter()
			return 0
		},
		"move_previous_match": func(L *lua.LState) int {
			ed.PreviousMatch(L.CheckString(2))
			ed.UpdateHighlighter()
			return 0
		},

		// Drawing
		"rerender":               m.do(ed.Render),
		"rerender_status_line":   m.do(ed.RenderStatus),
		"rerender_feedback_line": m.do(ed.RenderFeedback),
		"open_command_line":      m.do(ed.OpenCommandLine),

		// Macros
		"macro_record_start": m.do(ed.MacroRecordStart),
		"macro_record_stop":  m.do(ed.MacroRecordStop),
		"macro_play": func(L *lua.LState) int {
			ed.MacroPlay(L.OptInt(2, 1))
			return 0
		},
	}
}

// prompt(question) -> string or nil
// Returns nil when the prompt was cancelled.
func (m *EditorModule) prompt(L *lua.LState) int {
	answer, err := m.ed.Prompt(L.CheckString(2))
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(answer))
	return 1
}

func character(d editor.Document, x, y int) string {
	line, ok := d.Line(y)
	if !ok {
		return ""
	}
	i := 0
	for _, r := range line {
		if i == x {
			return string(r)
		}
		i++
	}
	return ""
}
