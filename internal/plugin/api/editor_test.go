package api

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/kite/internal/config"
	"github.com/dshills/kite/internal/document"
	"github.com/dshills/kite/internal/editor"
	"github.com/dshills/kite/internal/feedback"
	"github.com/dshills/kite/internal/highlight"
	"github.com/dshills/kite/internal/input"
	"github.com/dshills/kite/internal/input/event"
	"github.com/dshills/kite/internal/input/key"
	"github.com/dshills/kite/internal/plugin"
	luahost "github.com/dshills/kite/internal/plugin/lua"
	"github.com/dshills/kite/internal/render"
)

type fakeSource struct {
	events []event.Event
}

func (s *fakeSource) Poll(time.Duration) (bool, error) { return true, nil }

func (s *fakeSource) Read() (event.Event, error) {
	if len(s.events) == 0 {
		return event.Event{}, input.ErrClosed
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

type fakeScreen struct {
	draws int
}

func (s *fakeScreen) DocumentHeight() int       { return 20 }
func (s *fakeScreen) Draw(render.Frame)         { s.draws++ }
func (s *fakeScreen) DrawStatus(render.Frame)   {}
func (s *fakeScreen) DrawFeedback(render.Frame) {}
func (s *fakeScreen) Sync()                     {}
func (s *fakeScreen) SetTheme(*highlight.Theme) {}
func (s *fakeScreen) SetTabWidth(int)           {}

type env struct {
	ed    *editor.Editor
	state *luahost.State
	src   *fakeSource
	doc   *document.Document
}

func newEnv(t *testing.T, text string) *env {
	t.Helper()
	e := newEmptyEnv(t)
	e.doc = document.FromString(text)
	e.ed.Add(e.doc)
	return e
}

// newEmptyEnv is newEnv before any document is opened, the state init.lua
// runs in.
func newEmptyEnv(t *testing.T) *env {
	t.Helper()
	state, err := luahost.NewState()
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	t.Cleanup(func() { state.Close() })

	src := &fakeSource{}
	ed := editor.New(config.New(t.TempDir()), state, src,
		editor.WithScreen(&fakeScreen{}),
		editor.WithClipboard(&editor.MemoryClipboard{}),
		editor.WithPluginLoader(plugin.NewLoader(plugin.WithPaths(t.TempDir()))),
		editor.WithVersion("1.2.3"),
	)
	if err := ed.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	reg, err := DefaultRegistry(ed)
	if err != nil {
		t.Fatalf("DefaultRegistry() error = %v", err)
	}
	if err := reg.InjectAll(state.LuaState()); err != nil {
		t.Fatalf("InjectAll() error = %v", err)
	}

	return &env{ed: ed, state: state, src: src}
}

func (e *env) run(t *testing.T, src string) {
	t.Helper()
	if err := e.state.DoString(src); err != nil {
		t.Fatalf("DoString(%q) error = %v", src, err)
	}
}

func (e *env) eval(t *testing.T, expr string) lua.LValue {
	t.Helper()
	e.run(t, "result = "+expr)
	return e.state.GetGlobal("result")
}

func keyEvent(r rune, mods key.Modifier) event.Event {
	return event.Key(key.NewRuneEvent(r, mods))
}

func TestProperties(t *testing.T) {
	e := newEnv(t, "one\ntwo\nthree")
	e.doc.SetPath(filepath.Join("dir", "notes.md"))
	e.ed.SetFileType("markdown")
	e.doc.MoveTo(document.Loc{X: 2, Y: 1})

	tests := []struct {
		expr string
		want string
	}{
		{"editor.cursor.x", "2"},
		{"editor.cursor.y", "2"},
		{"editor.selection.y", "2"},
		{"editor.document_length", "3"},
		{"editor.document_count", "1"},
		{"editor.current_document_id", "0"},
		{"editor.document_type", "Markdown"},
		{"editor.document_name", filepath.Join("dir", "notes.md")},
		{"editor.file_name", "notes.md"},
		{"editor.file_extension", "md"},
		{"editor.version", "1.2.3"},
		{"editor.macro_recording", "false"},
		{"editor.macro_playing", "false"},
		{"editor.read_only", "false"},
		{"editor.modified", "false"},
		{"editor.no_such_thing", "nil"},
		{"tostring(editor)", "editor"},
	}
	for _, tt := range tests {
		if got := e.eval(t, tt.expr).String(); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.expr, got, tt.want)
		}
	}

	if !strings.HasSuffix(e.eval(t, "editor.file_path").String(), filepath.Join("dir", "notes.md")) {
		t.Errorf("file_path = %s", e.eval(t, "editor.file_path"))
	}
}

func TestPropertiesAreReadOnly(t *testing.T) {
	e := newEnv(t, "")
	err := e.state.DoString(`editor.cursor = {x = 1, y = 1}`)
	if err == nil || !strings.Contains(err.Error(), "editor.cursor is read-only") {
		t.Errorf("assignment error = %v", err)
	}
}

func TestCoordinates(t *testing.T) {
	e := newEnv(t, "alpha\nbeta\ngamma")

	e.run(t, `editor:move_to(3, 2)`)
	if diff := cmp.Diff(document.Loc{X: 3, Y: 1}, e.doc.Loc()); diff != "" {
		t.Errorf("move_to mismatch (-want +got):\n%s", diff)
	}
	if got := e.eval(t, "editor.cursor.y").String(); got != "2" {
		t.Errorf("cursor.y = %s, want 2", got)
	}

	e.run(t, `editor:select_to(1, 3)`)
	if diff := cmp.Diff(document.Loc{X: 1, Y: 2}, e.doc.Loc()); diff != "" {
		t.Errorf("select_to mismatch (-want +got):\n%s", diff)
	}
	if got := e.eval(t, "editor.selection.y").String(); got != "2" {
		t.Errorf("selection.y = %s, want 2", got)
	}
}

func TestPositionalEditsKeepCursor(t *testing.T) {
	e := newEnv(t, "first\nsecond\nthird")

	e.run(t, `
		editor:insert_at("X", 3, 2)
		editor:remove_at(0, 3)
		editor:insert_line_at("new", 1)
		editor:remove_line_at(4)
	`)

	if diff := cmp.Diff([]string{"new", "first", "secXond"}, e.doc.Lines()); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
	if got := e.eval(t, "editor.cursor.x .. ',' .. editor.cursor.y").String(); got != "0,1" {
		t.Errorf("cursor = %s, want 0,1", got)
	}
}

func TestReading(t *testing.T) {
	e := newEnv(t, "héllo\nworld")
	e.doc.MoveTo(document.Loc{X: 1})

	tests := []struct {
		expr string
		want string
	}{
		{"editor:get()", "héllo\nworld"},
		{"editor:get_character()", "é"},
		{"editor:get_character_at(4, 2)", "d"},
		{"editor:get_character_at(9, 2)", ""},
		{"editor:get_line()", "héllo"},
		{"editor:get_line_at(2)", "world"},
		{"editor:get_line_at(7)", ""},
	}
	for _, tt := range tests {
		if got := e.eval(t, tt.expr).String(); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.expr, got, tt.want)
		}
	}
}

func TestRelativeEdits(t *testing.T) {
	e := newEnv(t, "")
	e.run(t, `
		editor:insert("hello world")
		editor:remove_word()
		editor:remove()
		editor:insert_line()
		editor:insert("next")
		editor:move_line_up()
	`)
	if diff := cmp.Diff([]string{"next", "hello"}, e.doc.Lines()); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
	e.run(t, `editor:remove_line()`)
	if diff := cmp.Diff([]string{"hello"}, e.doc.Lines()); diff != "" {
		t.Errorf("after remove_line (-want +got):\n%s", diff)
	}
}

func TestScriptEditRefreshesHighlighterOnce(t *testing.T) {
	e := newEnv(t, "")
	h := e.ed.Current().Highlighter.(*highlight.Highlighter)
	before := h.Runs()

	e.run(t, `editor:insert_line_at("local x = 1", 1)`)

	if got := h.Runs() - before; got != 1 {
		t.Errorf("highlighter ran %d times, want 1", got)
	}
}

func TestHooksSeeTextAroundHandling(t *testing.T) {
	e := newEnv(t, "")
	e.ed.SetFileType("lua")
	e.run(t, `
		bind_before("x", function() before_text = editor:get() end)
		bind("x", function()
			after_text = editor:get()
			editor:insert(" = 1")
		end)
	`)
	h := e.ed.Current().Highlighter.(*highlight.Highlighter)
	runs := h.Runs()

	e.ed.Step(keyEvent('x', key.ModNone))

	if got := e.state.GetGlobal("before_text").String(); got != "" {
		t.Errorf("before hook saw %q, want empty", got)
	}
	if got := e.state.GetGlobal("after_text").String(); got != "x" {
		t.Errorf("after hook saw %q, want x", got)
	}
	if got := e.doc.Text(); got != "x = 1" {
		t.Errorf("Text() = %q, want %q", got, "x = 1")
	}
	if got := h.Runs() - runs; got != 1 {
		t.Errorf("highlighter ran %d times during the step, want 1", got)
	}

	// The after hook's edit is already highlighted.
	e.ed.UpdateHighlighter()
	if got := h.Runs() - runs; got != 1 {
		t.Errorf("highlighter ran again after the step: %d runs", got)
	}
}

func TestNoDocumentOpen(t *testing.T) {
	e := newEmptyEnv(t)

	for _, src := range []string{
		`editor:insert("x")`,
		`editor:get()`,
		`editor:move_to(0, 1)`,
		`x = editor.cursor`,
		`x = editor.document_name`,
	} {
		err := e.state.DoString(src)
		if err == nil || !strings.Contains(err.Error(), "no document is open") {
			t.Errorf("%s error = %v, want no document is open", src, err)
		}
	}
	if e.ed.PluginActive() {
		t.Fatal("PluginActive() = true after a failed edit")
	}

	if got := e.eval(t, "editor.version").String(); got != "1.2.3" {
		t.Errorf("version = %q", got)
	}
	if got := e.eval(t, "editor.document_count").String(); got != "0" {
		t.Errorf("document_count = %s, want 0", got)
	}
	e.run(t, `editor:display_info("configured")`)
	if diff := cmp.Diff(feedback.Info("configured"), e.ed.Feedback); diff != "" {
		t.Errorf("Feedback mismatch (-want +got):\n%s", diff)
	}

	e.run(t, `editor:new() editor:insert("x")`)
	if got := e.ed.Doc().Text(); got != "x" {
		t.Errorf("Text() = %q after opening a document, want x", got)
	}
}

func TestFeedbackMethods(t *testing.T) {
	tests := []struct {
		src  string
		want feedback.Feedback
	}{
		{`editor:display_info("saved")`, feedback.Info("saved")},
		{`editor:display_warning("careful")`, feedback.Warning("careful")},
		{`editor:display_error("broken")`, feedback.Error("broken")},
		{`editor:set_file_type("brainfuck")`, feedback.Error("Invalid file type: brainfuck")},
	}
	for _, tt := range tests {
		e := newEnv(t, "")
		e.run(t, tt.src)
		if diff := cmp.Diff(tt.want, e.ed.Feedback); diff != "" {
			t.Errorf("%s feedback mismatch (-want +got):\n%s", tt.src, diff)
		}
	}
}

func TestClipboardMethods(t *testing.T) {
	e := newEnv(t, "copy me")
	e.run(t, `
		editor:select_all()
		editor:copy()
		editor:move_end()
		editor:paste()
	`)
	if got := e.doc.Text(); got != "copy mecopy me" {
		t.Errorf("Text() = %q", got)
	}
}

func TestDocumentMethods(t *testing.T) {
	e := newEnv(t, "")
	e.run(t, `
		editor:new()
		editor:new()
		editor:previous_tab()
		editor:set_read_only(true)
	`)
	if got := e.eval(t, "editor.document_count").String(); got != "3" {
		t.Errorf("document_count = %s", got)
	}
	if got := e.eval(t, "editor.current_document_id").String(); got != "1" {
		t.Errorf("current_document_id = %s", got)
	}
	if e.eval(t, "editor.read_only") != lua.LTrue {
		t.Error("read_only = false after set_read_only(true)")
	}
	e.run(t, `editor:move_to_document(0) editor:next_tab() editor:next_tab()`)
	if e.ed.Active() != 2 {
		t.Errorf("Active() = %d, want 2", e.ed.Active())
	}
}

func TestUndoRedo(t *testing.T) {
	e := newEnv(t, "")
	e.run(t, `
		editor:insert("a")
		editor:commit()
		editor:insert("b")
		editor:commit()
		editor:undo()
	`)
	if got := e.doc.Text(); got != "a" {
		t.Errorf("after undo Text() = %q, want a", got)
	}
	e.run(t, `editor:redo()`)
	if got := e.doc.Text(); got != "ab" {
		t.Errorf("after redo Text() = %q, want ab", got)
	}
}

func TestMatchNavigation(t *testing.T) {
	e := newEnv(t, "foo bar foo")
	e.run(t, `editor:move_next_match("foo")`)
	if diff := cmp.Diff(document.Loc{X: 8}, e.doc.Loc()); diff != "" {
		t.Errorf("move_next_match (-want +got):\n%s", diff)
	}
	e.run(t, `editor:move_previous_match("foo")`)
	if diff := cmp.Diff(document.Loc{}, e.doc.Loc()); diff != "" {
		t.Errorf("move_previous_match (-want +got):\n%s", diff)
	}
	if _, _, ok := e.doc.Selection(); ok {
		t.Error("match navigation left a selection")
	}
}

func TestPrompt(t *testing.T) {
	e := newEnv(t, "")
	e.src.events = []event.Event{
		keyEvent('o', key.ModNone),
		keyEvent('k', key.ModNone),
		event.Key(key.NewSpecialEvent(key.KeyEnter, key.ModNone)),
		event.Key(key.NewSpecialEvent(key.KeyEscape, key.ModNone)),
	}
	if got := e.eval(t, `editor:prompt("Name")`).String(); got != "ok" {
		t.Errorf("prompt = %q, want ok", got)
	}
	if got := e.eval(t, `editor:prompt("Name")`); got != lua.LNil {
		t.Errorf("cancelled prompt = %v, want nil", got)
	}
}

func TestMacroMethods(t *testing.T) {
	e := newEnv(t, "")
	e.run(t, `editor:macro_record_start()`)
	if e.eval(t, "editor.macro_recording") != lua.LTrue {
		t.Fatal("macro_recording = false")
	}
	e.ed.Macros().Append(keyEvent('x', key.ModNone))
	e.ed.Macros().Append(keyEvent('e', key.ModAlt))
	e.run(t, `editor:macro_record_stop()`)
	if e.ed.Macros().Len() != 1 {
		t.Errorf("Len() = %d, want 1", e.ed.Macros().Len())
	}
	e.run(t, `editor:macro_play(3)`)
	if e.eval(t, "editor.macro_playing") != lua.LTrue {
		t.Error("macro_playing = false")
	}
}

func TestCommandScenarios(t *testing.T) {
	tests := []struct {
		line string
		kind feedback.Kind
		text string
	}{
		{"greet world", feedback.KindInfo, "Hello, world"},
		{"foo bar", feedback.KindError, "The command 'foo' is not defined"},
		{"fail", feedback.KindError, "command exploded"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			e := newEnv(t, "")
			e.run(t, `
				command("greet", function(args) editor:display_info("Hello, " .. args[1]) end)
				command("fail", function() error("command exploded") end)
				bind("ctrl_k", function() editor:run(line) end)
			`)
			e.state.SetGlobal("line", lua.LString(tt.line))

			e.ed.Step(keyEvent('k', key.ModCtrl))

			if e.ed.Feedback.Kind != tt.kind || !strings.Contains(e.ed.Feedback.Text, tt.text) {
				t.Errorf("Feedback = %+v, want %v containing %q", e.ed.Feedback, tt.kind, tt.text)
			}
		})
	}
}

func TestDefaultConfigBindings(t *testing.T) {
	e := newEnv(t, "some text")
	if !e.ed.LoadConfig() {
		t.Fatalf("LoadConfig() failed: %v", e.ed.Feedback)
	}

	e.ed.Step(keyEvent('a', key.ModCtrl))
	if got := e.doc.SelectedText(); got != "some text" {
		t.Errorf("ctrl_a selected %q", got)
	}
	e.ed.Step(keyEvent('c', key.ModCtrl))
	if diff := cmp.Diff(feedback.Info("Text copied to clipboard"), e.ed.Feedback); diff != "" {
		t.Errorf("ctrl_c feedback (-want +got):\n%s", diff)
	}

	e.ed.SetCommand("filetype lua")
	e.ed.Step(event.Resize(80, 24))
	if got := e.ed.Current().Type.Name; got != "Lua" {
		t.Errorf("document type = %s, want Lua", got)
	}
}

func TestPanic(t *testing.T) {
	state, err := luahost.NewState()
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	var msg string
	ed := editor.New(config.New(t.TempDir()), state, &fakeSource{},
		editor.WithFatal(func(m string) { msg = m }))
	if err := NewEditorModule(ed).Register(state.LuaState()); err != nil {
		t.Fatal(err)
	}
	ed.EnsureDocument()

	if err := state.DoString(`editor:panic("giving up")`); err != nil {
		t.Fatal(err)
	}
	if msg != "giving up" {
		t.Errorf("fatal message = %q", msg)
	}
}
