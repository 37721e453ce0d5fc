package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader discovers plugin scripts on disk and runs them.
//
// A plugin is either a single file name.lua or a directory name/ holding an
// init.lua. When two search paths provide the same name the earlier path
// wins.
type Loader struct {
	// Search paths for plugins (checked in order)
	paths []string

	// Discovered plugins cache
	discovered map[string]*Info
}

// Info describes a discovered plugin.
type Info struct {
	Name  string
	Entry string
	State State
	Error error
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPaths sets the plugin search paths.
func WithPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.paths = paths
	}
}

// NewLoader creates a new plugin loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		paths:      DefaultPluginPaths(),
		discovered: make(map[string]*Info),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DefaultPluginPaths returns the default plugin search paths.
func DefaultPluginPaths() []string {
	paths := make([]string, 0, 2)

	// User plugins: ~/.config/kite/plugins/
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "kite", "plugins"))
	}

	// Project plugins: .kite/plugins/
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".kite", "plugins"))
	}

	return paths
}

// Paths returns the configured search paths.
func (l *Loader) Paths() []string {
	return l.paths
}

// Discover finds all plugins in the search paths.
// Returns plugins sorted by name.
func (l *Loader) Discover() []*Info {
	l.discovered = make(map[string]*Info)

	for _, basePath := range l.paths {
		l.discoverInPath(basePath)
	}

	plugins := make([]*Info, 0, len(l.discovered))
	for _, info := range l.discovered {
		plugins = append(plugins, info)
	}
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Name < plugins[j].Name
	})
	return plugins
}

// discoverInPath finds plugins in a single directory. Missing or unreadable
// directories contribute nothing.
func (l *Loader) discoverInPath(basePath string) {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return
	}

	for _, entry := range entries {
		var info *Info
		if entry.IsDir() {
			info = inspectDir(entry.Name(), filepath.Join(basePath, entry.Name()))
		} else if filepath.Ext(entry.Name()) == ".lua" {
			info = &Info{
				Name:  strings.TrimSuffix(entry.Name(), ".lua"),
				Entry: filepath.Join(basePath, entry.Name()),
			}
		} else {
			continue
		}

		// Don't override earlier discoveries (first path wins)
		if _, exists := l.discovered[info.Name]; !exists {
			l.discovered[info.Name] = info
		}
	}
}

func inspectDir(name, path string) *Info {
	info := &Info{Name: name}
	entry := filepath.Join(path, "init.lua")
	if _, err := os.Stat(entry); err != nil {
		info.Error = fmt.Errorf("%w: %s", ErrNoEntryPoint, path)
		info.State = StateError
		return info
	}
	info.Entry = entry
	return info
}

// Get returns info for a specific plugin by name.
func (l *Loader) Get(name string) (*Info, error) {
	info, ok := l.discovered[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPluginNotFound, name)
	}
	return info, nil
}

// LoadAll discovers plugins and runs each one through x. A failing plugin
// does not stop the others; its error is recorded on its Info.
func (l *Loader) LoadAll(x Executor) []*Info {
	plugins := l.Discover()
	for _, info := range plugins {
		if info.State == StateError {
			continue
		}
		if err := x.DoFile(info.Entry); err != nil {
			info.State = StateError
			info.Error = err
			continue
		}
		info.State = StateLoaded
	}
	return plugins
}

// Errors returns all discovered plugins that have errors.
func (l *Loader) Errors() []*Info {
	var errored []*Info
	for _, info := range l.discovered {
		if info.Error != nil {
			errored = append(errored, info)
		}
	}
	sort.Slice(errored, func(i, j int) bool {
		return errored[i].Name < errored[j].Name
	})
	return errored
}
