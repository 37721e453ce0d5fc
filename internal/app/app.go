// Package app wires the kite editor together: configuration, logging, the
// terminal, the scripting host and the Lua API, and manages the
// application lifecycle.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/kite/internal/config"
	"github.com/dshills/kite/internal/document"
	"github.com/dshills/kite/internal/editor"
	"github.com/dshills/kite/internal/feedback"
	"github.com/dshills/kite/internal/logging"
	"github.com/dshills/kite/internal/plugin/api"
	luahost "github.com/dshills/kite/internal/plugin/lua"
	"github.com/dshills/kite/internal/render"
	"github.com/dshills/kite/internal/terminal"
)

// Application owns every long-lived component of the editor.
type Application struct {
	opts Options

	logger  *logging.Logger
	closers []io.Closer

	config  *config.Config
	term    *terminal.Terminal
	lua     *luahost.State
	watcher *config.Watcher
	editor  *editor.Editor

	running      atomic.Bool
	shutdownOnce sync.Once
	shutdown     atomic.Bool
}

// Options configures the application.
type Options struct {
	// ConfigDir is the configuration directory. Empty uses config.Dir().
	ConfigDir string

	// LogLevel overrides the log_level setting.
	LogLevel string

	// LogFile overrides the log_file setting. Without either nothing is
	// logged, since the terminal is in raw mode.
	LogFile string

	// Files are opened on startup, in order.
	Files []string

	// ReadOnly opens Files and Stdin read-only.
	ReadOnly bool

	// FileType forces the language of every document opened from Files.
	FileType string

	// Stdin, when set, is read into an extra unnamed document.
	Stdin io.Reader

	// Version is reported to scripts as editor.version.
	Version string

	// Screen replaces the controlling terminal. Used by tests.
	Screen tcell.Screen

	// Fatal replaces the default handling of unrecoverable script errors,
	// which restores the terminal, prints the message and exits.
	Fatal func(msg string)
}

// New creates the application and runs the startup sequence: settings,
// logging, terminal, scripting host, Lua API, bootstrap, configuration,
// files, plugins.
func New(opts Options) (*Application, error) {
	if opts.ConfigDir == "" {
		opts.ConfigDir = config.Dir()
	}
	app := &Application{opts: opts, logger: logging.Nop()}

	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

func (app *Application) bootstrap() error {
	// 1. Settings. Errors are reported again by the editor when the
	// configuration runs, so only log them here.
	cfg, cfgErr := config.Load(app.opts.ConfigDir)
	app.config = cfg

	// 2. Logging
	if err := app.openLog(); err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	if cfgErr != nil {
		app.logger.Warn("settings: %v", cfgErr)
	}

	// 3. Terminal
	var err error
	if app.opts.Screen != nil {
		app.term = terminal.NewWithScreen(app.opts.Screen, terminal.WithLogger(app.logger))
	} else if app.term, err = terminal.New(terminal.WithLogger(app.logger)); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	if err := app.term.Start(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	screen := render.New(app.term.Screen(), cfg.Theme, cfg.TabWidth)

	// 4. Scripting host. Both options apply for the whole session.
	app.lua, err = luahost.NewState(
		luahost.WithExecutionTimeout(cfg.ScriptTimeout()),
		luahost.WithSystemLibs(!cfg.SandboxScripts),
	)
	if err != nil {
		return &InitError{Component: "lua", Err: err}
	}

	// 5. Config watcher. Live reload is optional.
	app.watcher, err = config.NewWatcher(app.logger, cfg.SettingsPath(), cfg.LuaPath())
	if err != nil {
		app.logger.Warn("config watcher disabled: %v", err)
		app.watcher = nil
	}

	// 6. Editor
	edOpts := []editor.Option{
		editor.WithScreen(screen),
		editor.WithChangeSignal(app.term),
		editor.WithLogger(app.logger),
		editor.WithFatal(app.fatal),
	}
	if app.opts.Version != "" {
		edOpts = append(edOpts, editor.WithVersion(app.opts.Version))
	}
	if app.watcher != nil {
		edOpts = append(edOpts, editor.WithWatcher(app.watcher))
	}
	app.editor = editor.New(cfg, app.lua, app.term, edOpts...)

	// 7. Lua API
	registry, err := api.DefaultRegistry(app.editor)
	if err != nil {
		return &InitError{Component: "lua api", Err: err}
	}
	if err := registry.InjectAll(app.lua.LuaState()); err != nil {
		return &InitError{Component: "lua api", Err: err}
	}

	// 8. Bootstrap and configuration
	if err := app.editor.Bootstrap(); err != nil {
		return &InitError{Component: "bootstrap", Err: err}
	}
	app.editor.LoadConfig()

	// 9. Documents
	if err := app.openDocuments(); err != nil {
		app.logger.Error("%v", err)
		app.editor.Feedback = feedback.Error(fmt.Sprintf("File couldn't be opened: %v", err))
	}
	app.editor.EnsureDocument()

	// 10. Plugins
	app.editor.RunPlugins()

	app.logger.Info("started with %d documents", len(app.editor.Buffers()))
	return nil
}

func (app *Application) openLog() error {
	level := app.config.Level()
	if app.opts.LogLevel != "" {
		level = logging.ParseLevel(app.opts.LogLevel)
	}
	path := app.config.LogFile
	if app.opts.LogFile != "" {
		path = app.opts.LogFile
	}
	if path == "" {
		return nil
	}

	logger, closer, err := logging.Open(path, level)
	if err != nil {
		return err
	}
	app.logger = logger.WithComponent("app")
	app.closers = append(app.closers, closer)
	return nil
}

// openDocuments opens the command line files, then stdin. Every file is
// attempted; the errors are joined.
func (app *Application) openDocuments() error {
	var errs []error
	for _, path := range app.opts.Files {
		if err := app.editor.OpenFile(path, app.opts.ReadOnly); err != nil {
			errs = append(errs, &OpenError{Path: path, Err: err})
			continue
		}
		if app.opts.FileType != "" {
			app.editor.SetFileType(app.opts.FileType)
		}
	}

	if app.opts.Stdin != nil {
		data, err := io.ReadAll(app.opts.Stdin)
		if err != nil {
			errs = append(errs, &OpenError{Path: "stdin", Err: err})
		} else {
			doc := document.FromString(string(data))
			doc.SetReadOnly(app.opts.ReadOnly)
			app.editor.Add(doc)
		}
	}
	return errors.Join(errs...)
}

// Editor returns the editor.
func (app *Application) Editor() *editor.Editor {
	return app.editor
}

// Run runs the editor until the last document is closed or the terminal
// goes away, then shuts down.
func (app *Application) Run() error {
	if app.shutdown.Load() {
		return ErrShutdown
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)
	defer app.Shutdown()

	return app.editor.Run()
}

// Interrupt makes Run return by closing the terminal. It is safe to call
// from another goroutine; the rest of the shutdown happens on the goroutine
// running Run.
func (app *Application) Interrupt() {
	if app.term != nil {
		app.term.Stop()
	}
}

// Shutdown restores the terminal and releases every resource. It is safe
// to call more than once.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		app.shutdown.Store(true)
		if app.term != nil {
			app.term.Stop()
		}
		if app.watcher != nil {
			if err := app.watcher.Close(); err != nil {
				app.logger.Warn("closing config watcher: %v", err)
			}
		}
		if app.lua != nil {
			app.lua.Close()
		}
		app.logger.Info("shut down")
		for _, c := range app.closers {
			c.Close()
		}
	})
}

// fatal handles editor:panic and bootstrap failures during a reload.
func (app *Application) fatal(msg string) {
	if app.opts.Fatal != nil {
		app.opts.Fatal(msg)
		return
	}
	app.Shutdown()
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
