package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/kite/internal/highlight"
	"github.com/dshills/kite/internal/task"
)

// Config is the active configuration. It owns the task scheduler.
type Config struct {
	Settings

	// Dir is the configuration directory.
	Dir string

	// Tasks holds the tasks registered by the Lua configuration and plugins.
	Tasks *task.Scheduler

	// Theme is built from Settings.Theme over the default theme.
	Theme *highlight.Theme
}

// New returns a default configuration rooted at dir.
func New(dir string) *Config {
	return &Config{
		Settings: Default(),
		Dir:      dir,
		Tasks:    task.New(),
		Theme:    highlight.DefaultTheme(),
	}
}

// Load builds the configuration rooted at dir from the settings file and
// the environment. On error the returned Config is still usable and holds
// whatever layers loaded successfully.
func Load(dir string) (*Config, error) {
	c := New(dir)
	return c, c.Reload()
}

// Reload re-reads settings and theme. Tasks are left alone.
func (c *Config) Reload() error {
	s, err := LoadSettings(c.SettingsPath())
	if envErr := s.ApplyEnv(os.LookupEnv); envErr != nil {
		err = errors.Join(err, envErr)
	}
	if verr := s.Validate(); verr != nil {
		err = errors.Join(err, verr)
		s.sanitize()
	}

	theme := highlight.DefaultTheme()
	if terr := theme.Apply(s.Theme); terr != nil {
		err = errors.Join(err, terr)
	}

	c.Settings = s
	c.Theme = theme
	return err
}

// SettingsPath returns the TOML settings path.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// LuaPath returns the Lua configuration path. A relative lua_config is
// resolved against Dir.
func (c *Config) LuaPath() string {
	p := c.LuaConfig
	if p == "" {
		return filepath.Join(c.Dir, LuaFile)
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.Dir, p)
	}
	return p
}

// LuaExecutor runs Lua source.
type LuaExecutor interface {
	DoString(src string) error
	DoFile(path string) error
}

// RunLua clears the tasks and executes the Lua configuration. When the file
// does not exist the built-in default configuration runs instead.
func (c *Config) RunLua(x LuaExecutor) error {
	c.Tasks.Clear()

	path := c.LuaPath()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return x.DoString(DefaultLua)
		}
		return fmt.Errorf("lua config %s: %w", path, err)
	}
	return x.DoFile(path)
}
