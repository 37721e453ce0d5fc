package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/kite/internal/logging"
)

// Defaults for core settings.
const (
	DefaultTabWidth      = 4
	DefaultPollQuantumMS = 50
	DefaultLogLevel      = "info"

	// SettingsFile and LuaFile are the file names inside the config directory.
	SettingsFile = "kite.toml"
	LuaFile      = "init.lua"
)

// Settings are the core, non-scripted settings.
type Settings struct {
	TabWidth      int               `toml:"tab_width"`
	PollQuantumMS int               `toml:"poll_quantum_ms"`
	LogLevel      string            `toml:"log_level"`
	LogFile       string            `toml:"log_file"`
	LuaConfig     string            `toml:"lua_config"`
	Theme         map[string]string `toml:"theme"`

	// ScriptTimeoutMS bounds each top-level script execution. Zero means no
	// deadline. A prompt waiting for input counts against it.
	ScriptTimeoutMS int `toml:"script_timeout_ms"`

	// SandboxScripts keeps the os and io libraries away from scripts.
	SandboxScripts bool `toml:"sandbox_scripts"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		TabWidth:      DefaultTabWidth,
		PollQuantumMS: DefaultPollQuantumMS,
		LogLevel:      DefaultLogLevel,
	}
}

// Dir returns the user configuration directory, ~/.config/kite.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "kite")
	}
	return filepath.Join(home, ".config", "kite")
}

// LoadSettings reads path over the defaults. A missing file is not an error.
func LoadSettings(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("reading settings %s: %w", path, err)
	}
	if err := s.decode(path, data); err != nil {
		return Default(), err
	}
	return s, nil
}

func (s *Settings) decode(path string, data []byte) error {
	if err := toml.Unmarshal(data, s); err != nil {
		perr := &ParseError{Path: path, Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	if s.TabWidth < 1 || s.TabWidth > 16 {
		return fmt.Errorf("%w: tab_width %d", ErrInvalidValue, s.TabWidth)
	}
	if s.PollQuantumMS < 1 {
		return fmt.Errorf("%w: poll_quantum_ms %d", ErrInvalidValue, s.PollQuantumMS)
	}
	if s.ScriptTimeoutMS < 0 {
		return fmt.Errorf("%w: script_timeout_ms %d", ErrInvalidValue, s.ScriptTimeoutMS)
	}
	return nil
}

// sanitize resets out-of-range values to their defaults.
func (s *Settings) sanitize() {
	if s.TabWidth < 1 || s.TabWidth > 16 {
		s.TabWidth = DefaultTabWidth
	}
	if s.PollQuantumMS < 1 {
		s.PollQuantumMS = DefaultPollQuantumMS
	}
	if s.ScriptTimeoutMS < 0 {
		s.ScriptTimeoutMS = 0
	}
}

// envKeys maps environment variables to the settings they override.
var envKeys = map[string]func(*Settings, string) error{
	"KITE_TAB_WIDTH": func(s *Settings, v string) error {
		n, err := strconv.Atoi(v)
		s.TabWidth = n
		return err
	},
	"KITE_POLL_QUANTUM_MS": func(s *Settings, v string) error {
		n, err := strconv.Atoi(v)
		s.PollQuantumMS = n
		return err
	},
	"KITE_SCRIPT_TIMEOUT_MS": func(s *Settings, v string) error {
		n, err := strconv.Atoi(v)
		s.ScriptTimeoutMS = n
		return err
	},
	"KITE_SANDBOX_SCRIPTS": func(s *Settings, v string) error {
		b, err := strconv.ParseBool(v)
		s.SandboxScripts = b
		return err
	},
	"KITE_LOG_LEVEL":  func(s *Settings, v string) error { s.LogLevel = v; return nil },
	"KITE_LOG_FILE":   func(s *Settings, v string) error { s.LogFile = v; return nil },
	"KITE_LUA_CONFIG": func(s *Settings, v string) error { s.LuaConfig = v; return nil },
}

// ApplyEnv overrides settings from environment variables. lookup is usually
// os.LookupEnv. Unparseable values leave the setting unchanged.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	for name, apply := range envKeys {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		before := *s
		if err := apply(s, strings.TrimSpace(v)); err != nil {
			*s = before
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// PollQuantum returns the scheduled-mode poll interval.
func (s Settings) PollQuantum() time.Duration {
	if s.PollQuantumMS < 1 {
		return DefaultPollQuantumMS * time.Millisecond
	}
	return time.Duration(s.PollQuantumMS) * time.Millisecond
}

// ScriptTimeout returns the per-execution script deadline, zero for none.
func (s Settings) ScriptTimeout() time.Duration {
	return time.Duration(max(s.ScriptTimeoutMS, 0)) * time.Millisecond
}

// Level returns the configured log level.
func (s Settings) Level() logging.Level {
	return logging.ParseLevel(s.LogLevel)
}
