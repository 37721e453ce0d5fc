package editor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/kite/internal/config"
	"github.com/dshills/kite/internal/document"
	"github.com/dshills/kite/internal/feedback"
	"github.com/dshills/kite/internal/highlight"
	"github.com/dshills/kite/internal/input"
	"github.com/dshills/kite/internal/input/event"
	"github.com/dshills/kite/internal/input/key"
	"github.com/dshills/kite/internal/plugin"
	luahost "github.com/dshills/kite/internal/plugin/lua"
	"github.com/dshills/kite/internal/render"
)

// fakeSource serves queued events and then reports ErrClosed. It is
// always ready so scheduled mode never spins.
type fakeSource struct {
	events []event.Event
}

func (s *fakeSource) Poll(time.Duration) (bool, error) {
	return true, nil
}

func (s *fakeSource) Read() (event.Event, error) {
	if len(s.events) == 0 {
		return event.Event{}, input.ErrClosed
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

type fakeScreen struct {
	draws    int
	statuses int
	feedback int
	syncs    int
	last     render.Frame
	tabWidth int
}

func (s *fakeScreen) DocumentHeight() int { return 20 }

func (s *fakeScreen) Draw(f render.Frame) {
	s.draws++
	s.last = f
}

func (s *fakeScreen) DrawStatus(f render.Frame) {
	s.statuses++
	s.last = f
}

func (s *fakeScreen) DrawFeedback(f render.Frame) {
	s.feedback++
	s.last = f
}

func (s *fakeScreen) Sync()                     { s.syncs++ }
func (s *fakeScreen) SetTheme(*highlight.Theme) {}
func (s *fakeScreen) SetTabWidth(w int)         { s.tabWidth = w }
func (s *fakeScreen) frames() int               { return s.draws }

type onceWatcher struct {
	fired bool
}

func (w *onceWatcher) Changed() bool {
	if w.fired {
		return false
	}
	w.fired = true
	return true
}

type fixture struct {
	ed     *Editor
	src    *fakeSource
	screen *fakeScreen
	state  *luahost.State
	cfg    *config.Config
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	state, err := luahost.NewState()
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	t.Cleanup(func() { state.Close() })

	f := &fixture{
		src:    &fakeSource{},
		screen: &fakeScreen{},
		state:  state,
		cfg:    config.New(t.TempDir()),
	}
	opts = append([]Option{
		WithScreen(f.screen),
		WithClipboard(&MemoryClipboard{}),
		WithPluginLoader(plugin.NewLoader(plugin.WithPaths(t.TempDir()))),
	}, opts...)
	f.ed = New(f.cfg, state, f.src, opts...)
	if err := f.ed.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	return f
}

// open replaces the document list with one document holding text.
func (f *fixture) open(text string) Document {
	f.ed.buffers = nil
	return f.ed.Add(document.FromString(text)).Doc
}

func (f *fixture) exec(t *testing.T, src string) {
	t.Helper()
	if err := f.state.DoString(src); err != nil {
		t.Fatalf("DoString(%q) error = %v", src, err)
	}
}

func (f *fixture) global(name string) string {
	return f.state.GetGlobal(name).String()
}

func runeKey(r rune) event.Event {
	return event.Key(key.NewRuneEvent(r, key.ModNone))
}

func special(k key.Key, mods key.Modifier) event.Event {
	return event.Key(key.NewSpecialEvent(k, mods))
}

func ctrl(r rune) event.Event {
	return event.Key(key.NewRuneEvent(r, key.ModCtrl))
}

func runs(t *testing.T, b *Buffer) int {
	t.Helper()
	h, ok := b.Highlighter.(*highlight.Highlighter)
	if !ok {
		t.Fatalf("Highlighter is %T", b.Highlighter)
	}
	return h.Runs()
}

func TestRunTypesAndStopsWhenSourceCloses(t *testing.T) {
	f := newFixture(t)
	f.src.events = []event.Event{runeKey('h'), runeKey('i'), special(key.KeyEnter, key.ModNone), runeKey('!')}

	if err := f.ed.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := f.ed.Doc().Text(); got != "hi\n!" {
		t.Errorf("Text() = %q, want %q", got, "hi\n!")
	}
	if f.screen.frames() != 5 {
		t.Errorf("draws = %d, want 5", f.screen.frames())
	}
	if f.ed.Running() {
		t.Error("Running() = true after Run returned")
	}
}

func TestStepRunsHooksAroundHandling(t *testing.T) {
	f := newFixture(t)
	f.open("")
	f.exec(t, `
		log = ""
		bind_before("ctrl_s", function() log = log .. "before," end)
		bind("ctrl_s", function() log = log .. "after" end)
	`)

	f.ed.Step(ctrl('s'))

	if got := f.global("log"); got != "before,after" {
		t.Errorf("log = %q, want %q", got, "before,after")
	}
	if !f.ed.Feedback.IsNone() {
		t.Errorf("Feedback = %v, want none", f.ed.Feedback)
	}
}

func TestStepRunsBothHooksForCharacters(t *testing.T) {
	f := newFixture(t)
	f.open("")
	f.exec(t, `
		calls = 0
		bind_before("x", function() calls = calls + 1 end)
		bind("x", function() calls = calls + 10 end)
	`)

	f.ed.Step(runeKey('x'))

	if got := f.global("calls"); got != "11" {
		t.Errorf("calls = %s, want 11", got)
	}
	if got := f.ed.Doc().Text(); got != "x" {
		t.Errorf("Text() = %q, want x", got)
	}
}

func TestStepUnboundKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   event.Event
		want feedback.Feedback
	}{
		{"plain character", runeKey('a'), feedback.None},
		{"shifted arrow", special(key.KeyUp, key.ModShift), feedback.None},
		{"control key", ctrl('k'), feedback.Warning("The key ctrl_k is not bound")},
		{"alt arrow", special(key.KeyDown, key.ModAlt), feedback.Warning("The key alt_down is not bound")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.open("")
			f.ed.Step(tt.ev)
			if diff := cmp.Diff(tt.want, f.ed.Feedback); diff != "" {
				t.Errorf("Feedback mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStepClearsFeedback(t *testing.T) {
	f := newFixture(t)
	f.open("")
	f.ed.Feedback = feedback.Error("old")
	f.ed.Step(event.Resize(80, 24))
	if !f.ed.Feedback.IsNone() {
		t.Errorf("Feedback = %v, want none", f.ed.Feedback)
	}
}

func TestStepHandleErrorSkipsAfterHook(t *testing.T) {
	f := newFixture(t)
	d := f.open("abc")
	d.SetReadOnly(true)
	f.exec(t, `
		after = false
		bind("z", function() after = true end)
	`)

	f.ed.Step(runeKey('z'))

	if f.global("after") != "false" {
		t.Error("after hook ran although handling failed")
	}
	want := feedback.Error(document.ErrReadOnly.Error())
	if diff := cmp.Diff(want, f.ed.Feedback); diff != "" {
		t.Errorf("Feedback mismatch (-want +got):\n%s", diff)
	}
}

func TestPendingCommand(t *testing.T) {
	f := newFixture(t)
	f.open("")
	f.exec(t, `
		greeting = ""
		command("greet", function(args) greeting = "hello " .. args[1] end)
	`)

	f.ed.SetCommand("greet world")
	f.ed.Step(event.Resize(80, 24))

	if got := f.global("greeting"); got != "hello world" {
		t.Errorf("greeting = %q, want %q", got, "hello world")
	}
	if _, ok := f.ed.takeCommand(); ok {
		t.Error("pending command not consumed")
	}
}

func TestPendingCommandNotDefined(t *testing.T) {
	f := newFixture(t)
	f.open("")
	f.ed.SetCommand("foo bar")
	f.ed.Step(event.Resize(80, 24))

	want := feedback.Error("The command 'foo' is not defined")
	if diff := cmp.Diff(want, f.ed.Feedback); diff != "" {
		t.Errorf("Feedback mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleKeys(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		start  document.Loc
		events []event.Event
		want   string
		cursor document.Loc
	}{
		{
			name:   "backspace joins lines",
			text:   "ab\ncd",
			start:  document.Loc{X: 0, Y: 1},
			events: []event.Event{special(key.KeyBackspace, key.ModNone)},
			want:   "abcd",
			cursor: document.Loc{X: 2, Y: 0},
		},
		{
			name:   "delete removes forward",
			text:   "abc",
			events: []event.Event{special(key.KeyDelete, key.ModNone)},
			want:   "bc",
		},
		{
			name:   "tab inserts a tab",
			text:   "x",
			events: []event.Event{special(key.KeyTab, key.ModNone)},
			want:   "\tx",
			cursor: document.Loc{X: 1},
		},
		{
			name: "typing replaces the selection",
			text: "hello",
			events: []event.Event{
				special(key.KeyRight, key.ModShift),
				special(key.KeyRight, key.ModShift),
				runeKey('J'),
			},
			want:   "Jllo",
			cursor: document.Loc{X: 1},
		},
		{
			name: "end and home",
			text: "hello",
			events: []event.Event{
				special(key.KeyEnd, key.ModNone),
				runeKey('!'),
				special(key.KeyHome, key.ModNone),
			},
			want: "hello!",
		},
		{
			name: "modified keys are left to scripts",
			text: "abc",
			events: []event.Event{
				ctrl('x'),
				special(key.KeyBackspace, key.ModAlt),
			},
			want: "abc",
		},
		{
			name:   "paste inserts text",
			text:   "",
			events: []event.Event{event.Paste("one\ntwo")},
			want:   "one\ntwo",
			cursor: document.Loc{X: 3, Y: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			d := f.open(tt.text)
			d.MoveTo(tt.start)
			for _, ev := range tt.events {
				f.ed.Step(ev)
			}
			if got := d.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
			if diff := cmp.Diff(tt.cursor, d.Loc()); diff != "" {
				t.Errorf("cursor mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMouseClickMovesCursor(t *testing.T) {
	f := newFixture(t)
	d := f.open("hello\nworld")
	// One line number digit plus two cells of padding.
	f.ed.Step(event.Mouse(5, 2, event.MouseLeft))
	if diff := cmp.Diff(document.Loc{X: 2, Y: 1}, d.Loc()); diff != "" {
		t.Errorf("cursor mismatch (-want +got):\n%s", diff)
	}
	f.ed.Step(event.Mouse(0, 0, event.MouseLeft))
	if diff := cmp.Diff(document.Loc{X: 2, Y: 1}, d.Loc()); diff != "" {
		t.Errorf("click on the tab line moved the cursor (-want +got):\n%s", diff)
	}
	f.ed.Step(event.Mouse(0, 0, event.MouseWheelUp))
	if d.Loc().Y != 0 {
		t.Errorf("wheel up: Y = %d, want 0", d.Loc().Y)
	}
}

func TestPositionalEditKeepsCursor(t *testing.T) {
	f := newFixture(t)
	d := f.open("first\nsecond\nthird")

	f.ed.InsertAt("X", 3, 1)
	if got, _ := d.Line(1); got != "secXond" {
		t.Errorf("line 1 = %q, want %q", got, "secXond")
	}
	if diff := cmp.Diff(document.Loc{}, d.Loc()); diff != "" {
		t.Errorf("cursor moved (-want +got):\n%s", diff)
	}

	f.ed.RemoveAt(0, 2)
	if got, _ := d.Line(2); got != "hird" {
		t.Errorf("line 2 = %q, want %q", got, "hird")
	}
	if diff := cmp.Diff(document.Loc{}, d.Loc()); diff != "" {
		t.Errorf("cursor moved (-want +got):\n%s", diff)
	}
}

func TestInsertLineAt(t *testing.T) {
	f := newFixture(t)
	d := f.open("a\nb")
	d.MoveTo(document.Loc{X: 1, Y: 1})

	f.ed.InsertLineAt("middle", 1)
	f.ed.InsertLineAt("last", 99)
	f.ed.InsertLineAt("top", 0)

	if diff := cmp.Diff([]string{"top", "a", "middle", "b", "last"}, d.Lines()); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(document.Loc{X: 1, Y: 1}, d.Loc()); diff != "" {
		t.Errorf("cursor mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveLineAt(t *testing.T) {
	f := newFixture(t)
	d := f.open("a\nb\nc")
	f.ed.RemoveLineAt(1)
	if diff := cmp.Diff([]string{"a", "c"}, d.Lines()); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
}

func TestEditRefreshesHighlighterOnce(t *testing.T) {
	f := newFixture(t)
	f.open("")
	b := f.ed.Current()
	before := runs(t, b)

	f.ed.Edit(func(d Document) error {
		for i := 0; i < 5; i++ {
			f.ed.Insert("a")
		}
		f.ed.InsertAt("b", 0, 0)
		return nil
	})

	if got := runs(t, b) - before; got != 1 {
		t.Errorf("highlighter ran %d times, want 1", got)
	}
	if got := b.Doc.Text(); got != "baaaaa" {
		t.Errorf("Text() = %q", got)
	}
	if f.ed.PluginActive() {
		t.Error("PluginActive() = true after the sequence ended")
	}
}

func TestEditWithoutChangeSkipsHighlighter(t *testing.T) {
	f := newFixture(t)
	f.open("abc")
	b := f.ed.Current()
	before := runs(t, b)
	f.ed.Edit(func(d Document) error {
		d.MoveEnd()
		return nil
	})
	if runs(t, b) != before {
		t.Error("highlighter ran for a motion")
	}
}

func TestEditWithoutDocument(t *testing.T) {
	f := newFixture(t)
	f.ed.Insert("x")

	if diff := cmp.Diff(feedback.Error(ErrNoDocument.Error()), f.ed.Feedback); diff != "" {
		t.Errorf("Feedback mismatch (-want +got):\n%s", diff)
	}
	if f.ed.PluginActive() {
		t.Fatal("PluginActive() = true after an edit with no document")
	}

	f.open("")
	b := f.ed.Current()
	before := runs(t, b)
	f.ed.Step(runeKey('a'))
	if got := runs(t, b) - before; got != 1 {
		t.Errorf("highlighter ran %d times after typing, want 1", got)
	}
}

func TestEditPanicClearsPluginActive(t *testing.T) {
	f := newFixture(t)
	f.open("")

	func() {
		defer func() { _ = recover() }()
		f.ed.Edit(func(Document) error { panic("boom") })
	}()

	if f.ed.PluginActive() {
		t.Error("PluginActive() = true after a panicking edit")
	}
}

func TestEditReportsFailure(t *testing.T) {
	f := newFixture(t)
	d := f.open("abc")
	d.SetReadOnly(true)
	f.ed.Insert("x")
	want := feedback.Error(document.ErrReadOnly.Error())
	if diff := cmp.Diff(want, f.ed.Feedback); diff != "" {
		t.Errorf("Feedback mismatch (-want +got):\n%s", diff)
	}
}

func TestClipboard(t *testing.T) {
	f := newFixture(t)
	d := f.open("hello world")

	f.ed.Copy()
	if diff := cmp.Diff(feedback.Error(ErrNothingSelected.Error()), f.ed.Feedback); diff != "" {
		t.Errorf("Copy() without selection (-want +got):\n%s", diff)
	}

	d.SelectTo(document.Loc{X: 5})
	f.ed.Copy()
	if diff := cmp.Diff(feedback.Info("Text copied to clipboard"), f.ed.Feedback); diff != "" {
		t.Errorf("Copy() feedback (-want +got):\n%s", diff)
	}

	f.ed.Cut()
	if diff := cmp.Diff(feedback.Info("Text cut to clipboard"), f.ed.Feedback); diff != "" {
		t.Errorf("Cut() feedback (-want +got):\n%s", diff)
	}
	if got := d.Text(); got != " world" {
		t.Errorf("after Cut() Text() = %q", got)
	}

	d.MoveEnd()
	f.ed.Paste()
	if got := d.Text(); got != " worldhello" {
		t.Errorf("after Paste() Text() = %q", got)
	}
}

func TestSetFileType(t *testing.T) {
	f := newFixture(t)
	f.open("local x = 1")

	f.ed.SetFileType("cobol")
	if diff := cmp.Diff(feedback.Error("Invalid file type: cobol"), f.ed.Feedback); diff != "" {
		t.Errorf("Feedback mismatch (-want +got):\n%s", diff)
	}

	f.ed.SetFileType("lua")
	b := f.ed.Current()
	if b.Type.Name != "Lua" {
		t.Errorf("Type = %s, want Lua", b.Type.Name)
	}
	if spans := b.Highlighter.Spans(0); len(spans) == 0 || spans[0].Kind != highlight.KindKeyword {
		t.Errorf("Spans(0) = %v, want a leading keyword", spans)
	}
}

func TestTabs(t *testing.T) {
	f := newFixture(t)
	f.ed.EnsureDocument()
	f.ed.NewDocument()
	f.ed.NewDocument()

	if f.ed.Active() != 2 {
		t.Fatalf("Active() = %d, want 2", f.ed.Active())
	}
	f.ed.NextTab()
	if f.ed.Active() != 2 {
		t.Errorf("NextTab() past the end: Active() = %d", f.ed.Active())
	}
	f.ed.PreviousTab()
	f.ed.PreviousTab()
	f.ed.PreviousTab()
	if f.ed.Active() != 0 {
		t.Errorf("Active() = %d, want 0", f.ed.Active())
	}
	if !f.ed.MoveToDocument(1) || f.ed.Active() != 1 {
		t.Errorf("MoveToDocument(1) failed")
	}
	if f.ed.MoveToDocument(3) {
		t.Error("MoveToDocument(3) = true")
	}
}

func TestOpenFileSwitchesToOpenDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	if err := os.WriteFile(path, []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := newFixture(t)
	f.ed.EnsureDocument()
	if err := f.ed.OpenFile(path, true); err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	f.ed.PreviousTab()
	if err := f.ed.OpenFile(path, false); err != nil {
		t.Fatalf("OpenFile() again error = %v", err)
	}

	if len(f.ed.Buffers()) != 2 || f.ed.Active() != 1 {
		t.Fatalf("buffers = %d active = %d, want 2 and 1", len(f.ed.Buffers()), f.ed.Active())
	}
	b := f.ed.Current()
	if b.Type.Name != "Go" || !b.Doc.ReadOnly() {
		t.Errorf("Type = %s ReadOnly = %v", b.Type.Name, b.Doc.ReadOnly())
	}
}

func TestQuit(t *testing.T) {
	f := newFixture(t)
	f.ed.EnsureDocument()
	f.ed.NewDocument()
	f.ed.running = true

	f.ed.Quit()
	if len(f.ed.Buffers()) != 1 || !f.ed.Running() {
		t.Fatalf("buffers = %d running = %v", len(f.ed.Buffers()), f.ed.Running())
	}

	f.ed.Quit()
	if len(f.ed.Buffers()) != 1 {
		t.Errorf("last document was removed")
	}
	if f.ed.Running() {
		t.Error("Running() = true after quitting the last document")
	}
}

func TestQuitAsksAboutChanges(t *testing.T) {
	f := newFixture(t)
	f.open("")
	f.ed.Insert("unsaved")
	f.ed.running = true

	f.src.events = []event.Event{runeKey('n'), special(key.KeyEnter, key.ModNone)}
	f.ed.Quit()
	if !f.ed.Running() {
		t.Fatal("quit without confirmation")
	}

	f.src.events = []event.Event{runeKey('y'), special(key.KeyEnter, key.ModNone)}
	f.ed.Quit()
	if f.ed.Running() {
		t.Error("confirmed quit kept running")
	}
}

func TestPrompt(t *testing.T) {
	f := newFixture(t)
	f.open("")
	f.src.events = []event.Event{
		runeKey('h'), runeKey('x'),
		special(key.KeyBackspace, key.ModNone),
		runeKey('o'),
		special(key.KeyHome, key.ModNone),
		runeKey('>'),
		event.Paste("a\nb"),
		special(key.KeyEnter, key.ModNone),
	}

	got, err := f.ed.Prompt("Name")
	if err != nil {
		t.Fatalf("Prompt() error = %v", err)
	}
	if got != ">a bho" {
		t.Errorf("Prompt() = %q, want %q", got, ">a bho")
	}
	if f.screen.last.Prompt == nil || f.screen.last.Prompt.Label != "Name" {
		t.Errorf("last frame prompt = %+v", f.screen.last.Prompt)
	}
	if f.ed.Frame().Prompt != nil {
		t.Error("prompt still open after Prompt returned")
	}
}

func TestPromptCancel(t *testing.T) {
	f := newFixture(t)
	f.open("")
	f.src.events = []event.Event{runeKey('a'), special(key.KeyEscape, key.ModNone)}
	if _, err := f.ed.Prompt("Name"); !errors.Is(err, ErrPromptCancelled) {
		t.Errorf("Prompt() error = %v, want ErrPromptCancelled", err)
	}

	if _, err := f.ed.Prompt("Name"); !errors.Is(err, input.ErrClosed) {
		t.Errorf("Prompt() on closed source error = %v, want ErrClosed", err)
	}
}

func TestOpenCommandLine(t *testing.T) {
	f := newFixture(t)
	f.open("")
	f.exec(t, `
		ran = ""
		command("echo", function(args) ran = table.concat(args, "+") end)
	`)
	f.src.events = []event.Event{ctrl('k')}
	for _, r := range "echo a b" {
		f.src.events = append(f.src.events, runeKey(r))
	}
	f.src.events = append(f.src.events, special(key.KeyEnter, key.ModNone))

	f.exec(t, `bind("ctrl_k", function() open_command_line() end)`)
	f.state.SetGlobal("open_command_line", f.state.L.NewFunction(func(L *lua.LState) int {
		f.ed.OpenCommandLine()
		return 0
	}))

	if err := f.ed.Run(); err != nil {
		t.Fatal(err)
	}
	if got := f.global("ran"); got != "a+b" {
		t.Errorf("ran = %q, want %q", got, "a+b")
	}
}

func TestIdleRunsDueTasks(t *testing.T) {
	f := newFixture(t)
	f.open("")
	f.exec(t, `
		ticks = 0
		function tick() ticks = ticks + 1 end
	`)
	if _, err := f.cfg.Tasks.After(0, "tick"); err != nil {
		t.Fatal(err)
	}
	draws := f.screen.frames()

	f.ed.Idle()
	f.ed.Idle()

	if got := f.global("ticks"); got != "1" {
		t.Errorf("ticks = %s, want 1", got)
	}
	if f.screen.frames() != draws+1 {
		t.Errorf("draws = %d, want %d", f.screen.frames(), draws+1)
	}
}

func TestIdleMissingTask(t *testing.T) {
	f := newFixture(t)
	f.open("")
	if _, err := f.cfg.Tasks.After(0, "nowhere"); err != nil {
		t.Fatal(err)
	}
	f.ed.Idle()
	want := feedback.Warning("Function 'nowhere' was not found")
	if diff := cmp.Diff(want, f.ed.Feedback); diff != "" {
		t.Errorf("Feedback mismatch (-want +got):\n%s", diff)
	}
}

func TestIdleTaskError(t *testing.T) {
	f := newFixture(t)
	f.open("")
	f.exec(t, `function broken() error("task exploded") end`)
	if _, err := f.cfg.Tasks.After(0, "broken"); err != nil {
		t.Fatal(err)
	}
	f.ed.Idle()
	if f.ed.Feedback.Kind != feedback.KindError || !strings.HasSuffix(f.ed.Feedback.Text, "task exploded") {
		t.Errorf("Feedback = %+v", f.ed.Feedback)
	}
}

func TestMacroRecordAndPlay(t *testing.T) {
	f := newFixture(t)
	f.open("")

	f.ed.MacroRecordStart()
	f.src.events = []event.Event{runeKey('a'), runeKey('b')}
	if err := f.ed.Run(); err != nil {
		t.Fatal(err)
	}
	f.ed.MacroPlay(2)
	if err := f.ed.Run(); err != nil {
		t.Fatal(err)
	}

	if got := f.ed.Doc().Text(); got != "ababab" {
		t.Errorf("Text() = %q, want %q", got, "ababab")
	}
	if f.ed.Macros().Recording() || f.ed.Macros().Playing() {
		t.Error("macro manager not idle")
	}
}

func TestMacroRecordStopDropsStopKey(t *testing.T) {
	f := newFixture(t)
	f.open("")
	f.ed.MacroRecordStart()
	f.ed.Macros().Append(runeKey('a'))
	f.ed.Macros().Append(ctrl('e'))
	f.ed.MacroRecordStop()
	if got := f.ed.Macros().Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestFrame(t *testing.T) {
	f := newFixture(t)
	d := f.open("héllo\nworld")
	d.MoveTo(document.Loc{X: 2})
	d.SelectTo(document.Loc{X: 3, Y: 1})
	f.ed.Macros().Record()

	fr := f.ed.Frame()
	if diff := cmp.Diff([]string{unnamed}, fr.Tabs); diff != "" {
		t.Errorf("Tabs mismatch (-want +got):\n%s", diff)
	}
	if fr.Lines[0].SelStart != 3 || fr.Lines[0].SelEnd != len("héllo") {
		t.Errorf("line 0 selection = [%d,%d)", fr.Lines[0].SelStart, fr.Lines[0].SelEnd)
	}
	if fr.Lines[1].SelStart != 0 || fr.Lines[1].SelEnd != 3 {
		t.Errorf("line 1 selection = [%d,%d)", fr.Lines[1].SelStart, fr.Lines[1].SelEnd)
	}
	want := render.Status{
		Name:      unnamed,
		FileType:  highlight.UnknownName,
		Recording: true,
		Line:      2,
		Column:    4,
		Total:     2,
	}
	if diff := cmp.Diff(want, fr.Status); diff != "" {
		t.Errorf("Status mismatch (-want +got):\n%s", diff)
	}
	if fr.CursorX != 3 || fr.CursorY != 1 {
		t.Errorf("cursor = (%d,%d), want (3,1)", fr.CursorX, fr.CursorY)
	}
}

func TestRenderVariants(t *testing.T) {
	f := newFixture(t)
	f.open("")
	f.ed.RenderStatus()
	f.ed.RenderFeedback()
	f.ed.ResetTerminal()
	if f.screen.statuses != 1 || f.screen.feedback != 1 || f.screen.syncs != 1 || f.screen.draws != 1 {
		t.Errorf("status=%d feedback=%d syncs=%d draws=%d",
			f.screen.statuses, f.screen.feedback, f.screen.syncs, f.screen.draws)
	}
}

func TestLoadConfigRunsDefaults(t *testing.T) {
	f := newFixture(t)
	f.open("")
	if !f.ed.LoadConfig() {
		t.Fatalf("LoadConfig() = false, Feedback = %v", f.ed.Feedback)
	}
	if f.state.GetGlobal("event_mapping").(*lua.LTable).RawGetString("ctrl_s") == lua.LNil {
		t.Error("default configuration did not bind ctrl_s")
	}
	if f.screen.tabWidth != config.DefaultTabWidth {
		t.Errorf("tab width = %d", f.screen.tabWidth)
	}
}

func TestLoadConfigFailure(t *testing.T) {
	f := newFixture(t)
	f.open("")
	if err := os.WriteFile(f.cfg.LuaPath(), []byte(`error("broken config")`), 0o644); err != nil {
		t.Fatal(err)
	}
	if f.ed.LoadConfig() {
		t.Fatal("LoadConfig() = true")
	}
	if diff := cmp.Diff(feedback.Error("Failed to load configuration file"), f.ed.Feedback); diff != "" {
		t.Errorf("Feedback mismatch (-want +got):\n%s", diff)
	}
	if f.ed.ReloadConfig() {
		t.Fatal("ReloadConfig() = true")
	}
	if diff := cmp.Diff(feedback.Error("Failed to reload config"), f.ed.Feedback); diff != "" {
		t.Errorf("Feedback mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigChangeReloads(t *testing.T) {
	f := newFixture(t, WithWatcher(&onceWatcher{}))
	f.open("")
	f.ed.Step(event.Resize(80, 24))
	if diff := cmp.Diff(feedback.Info("Configuration reloaded"), f.ed.Feedback); diff != "" {
		t.Errorf("Feedback mismatch (-want +got):\n%s", diff)
	}
}

func TestRunPluginsReportsFailures(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "good.lua"), []byte(`good_loaded = true`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.lua"), []byte(`error("bad plugin")`), 0o644); err != nil {
		t.Fatal(err)
	}

	f := newFixture(t, WithPluginLoader(plugin.NewLoader(plugin.WithPaths(dir))))
	f.open("")
	f.ed.RunPlugins()

	if f.global("good_loaded") != "true" {
		t.Error("good plugin did not run")
	}
	if f.ed.Feedback.Kind != feedback.KindError || !strings.HasSuffix(f.ed.Feedback.Text, "bad plugin") {
		t.Errorf("Feedback = %+v", f.ed.Feedback)
	}
}

func TestFatal(t *testing.T) {
	var got string
	f := newFixture(t, WithFatal(func(msg string) { got = msg }))
	f.ed.Fatal("boom")
	if got != "boom" {
		t.Errorf("fatal handler got %q", got)
	}
}
