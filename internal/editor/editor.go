package editor

import (
	"errors"
	"fmt"
	"os"

	"github.com/dshills/kite/internal/config"
	"github.com/dshills/kite/internal/feedback"
	"github.com/dshills/kite/internal/highlight"
	"github.com/dshills/kite/internal/input"
	"github.com/dshills/kite/internal/input/macro"
	"github.com/dshills/kite/internal/logging"
	"github.com/dshills/kite/internal/plugin"
	"github.com/dshills/kite/internal/plugin/hook"
	luahost "github.com/dshills/kite/internal/plugin/lua"
	"github.com/dshills/kite/internal/render"
)

// DefaultVersion is reported when no version is configured.
const DefaultVersion = "dev"

// ErrPromptCancelled is returned by Prompt when the user presses Escape.
var ErrPromptCancelled = errors.New("prompt cancelled")

// Buffer is an open document with its highlighting state.
type Buffer struct {
	Doc         Document
	Highlighter Highlighter
	Type        *highlight.Language

	highlighted uint64
}

func newBuffer(doc Document) *Buffer {
	lang := highlight.Detect(doc.Path())
	b := &Buffer{Doc: doc, Type: lang, Highlighter: highlight.New(lang)}
	b.refresh()
	return b
}

// SetType changes the buffer language and rehighlights.
func (b *Buffer) SetType(lang *highlight.Language) {
	b.Type = lang
	b.Highlighter.SetLanguage(lang)
	b.refresh()
}

func (b *Buffer) refresh() {
	b.Highlighter.Run(b.Doc.Lines())
	b.highlighted = b.Doc.Revision()
}

func (b *Buffer) stale() bool {
	return b.Doc.Revision() != b.highlighted
}

// Editor is the editor state.
type Editor struct {
	buffers []*Buffer
	active  int

	// Feedback is shown on the feedback line until the next iteration.
	Feedback feedback.Feedback

	macros  *macro.Manager
	config  *config.Config
	mux     *input.Multiplexer
	lua     *luahost.State
	hooks   *hook.Dispatcher
	plugins *plugin.Loader

	screen    Screen
	changes   ChangeSignal
	watcher   ChangeWatcher
	clipboard Clipboard
	logger    *logging.Logger
	version   string
	fatal     func(msg string)

	pluginActive bool
	command      *string
	prompt       *render.Prompt
	running      bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithScreen sets the screen frames are drawn on.
func WithScreen(s Screen) Option {
	return func(e *Editor) {
		e.screen = s
	}
}

// WithChangeSignal sets the source of terminal changes needing a redraw.
func WithChangeSignal(c ChangeSignal) Option {
	return func(e *Editor) {
		e.changes = c
	}
}

// WithWatcher sets the configuration file watcher.
func WithWatcher(w ChangeWatcher) Option {
	return func(e *Editor) {
		e.watcher = w
	}
}

// WithClipboard sets the clipboard used by cut, copy and paste.
func WithClipboard(c Clipboard) Option {
	return func(e *Editor) {
		if c != nil {
			e.clipboard = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPluginLoader sets the loader used to discover plugins.
func WithPluginLoader(l *plugin.Loader) Option {
	return func(e *Editor) {
		if l != nil {
			e.plugins = l
		}
	}
}

// WithVersion sets the version reported to scripts.
func WithVersion(v string) Option {
	return func(e *Editor) {
		if v != "" {
			e.version = v
		}
	}
}

// WithFatal sets the function that ends the process on a fatal error.
// It must not return.
func WithFatal(fn func(msg string)) Option {
	return func(e *Editor) {
		e.fatal = fn
	}
}

// New creates an editor reading events from source and running scripts in
// state.
func New(cfg *config.Config, state *luahost.State, source input.Source, opts ...Option) *Editor {
	e := &Editor{
		macros:    macro.NewManager(),
		config:    cfg,
		lua:       state,
		hooks:     hook.NewDispatcher(state),
		plugins:   plugin.NewLoader(),
		clipboard: &SystemClipboard{},
		logger:    logging.Nop(),
		version:   DefaultVersion,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithComponent("editor")
	e.mux = input.NewMultiplexer(source, e.macros,
		input.WithIdler(e),
		input.WithQuantum(cfg.PollQuantum()),
		input.WithLogger(e.logger),
	)
	e.applySettings()
	return e
}

// Add opens doc in a new buffer and makes it active.
func (e *Editor) Add(doc Document) *Buffer {
	b := newBuffer(doc)
	e.buffers = append(e.buffers, b)
	e.active = len(e.buffers) - 1
	e.resize(b)
	return b
}

// EnsureDocument opens a blank document when none is open.
func (e *Editor) EnsureDocument() {
	if len(e.buffers) == 0 {
		e.NewDocument()
	}
}

// Current returns the active buffer.
func (e *Editor) Current() *Buffer {
	return e.buffers[e.active]
}

// Doc returns the active document.
func (e *Editor) Doc() Document {
	return e.Current().Doc
}

// Buffers returns the open buffers in tab order.
func (e *Editor) Buffers() []*Buffer {
	return e.buffers
}

// Active returns the index of the active buffer.
func (e *Editor) Active() int {
	return e.active
}

// Macros returns the macro manager.
func (e *Editor) Macros() *macro.Manager {
	return e.macros
}

// Config returns the active configuration.
func (e *Editor) Config() *config.Config {
	return e.config
}

// Lua returns the scripting host.
func (e *Editor) Lua() *luahost.State {
	return e.lua
}

// Version returns the editor version.
func (e *Editor) Version() string {
	return e.version
}

// Running reports whether the main loop is active.
func (e *Editor) Running() bool {
	return e.running
}

// PluginActive reports whether a script is in the middle of an edit
// sequence.
func (e *Editor) PluginActive() bool {
	return e.pluginActive
}

// SetCommand queues a command line to run at the end of the iteration.
// A later call replaces an earlier one.
func (e *Editor) SetCommand(line string) {
	e.command = &line
}

// takeCommand clears and returns the pending command.
func (e *Editor) takeCommand() (string, bool) {
	if e.command == nil {
		return "", false
	}
	line := *e.command
	e.command = nil
	return line, true
}

// Fatal logs msg and ends the process. It does not return.
func (e *Editor) Fatal(msg string) {
	e.logger.Error("fatal: %s", msg)
	if e.fatal != nil {
		e.fatal(msg)
		return
	}
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

// classify reports a script result against key on the feedback line.
func (e *Editor) classify(key string, err error) {
	if err != nil {
		e.logger.Debug("script for %q failed: %v", key, err)
	}
	if fb, ok := plugin.Classify(key, err); ok {
		e.Feedback = fb
	}
}

// fail shows err as an error message. It returns true if err was not nil.
func (e *Editor) fail(err error) bool {
	if err == nil {
		return false
	}
	e.Feedback = feedback.Error(err.Error())
	return true
}

func (e *Editor) applySettings() {
	if e.screen == nil {
		return
	}
	e.screen.SetTheme(e.config.Theme)
	e.screen.SetTabWidth(e.config.TabWidth)
	for _, b := range e.buffers {
		e.resize(b)
	}
}

func (e *Editor) resize(b *Buffer) {
	if e.screen == nil {
		return
	}
	b.Doc.SetSize(0, e.screen.DocumentHeight())
}
