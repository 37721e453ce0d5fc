package editor

import (
	"fmt"

	"github.com/dshills/kite/internal/feedback"
	"github.com/dshills/kite/internal/plugin"
)

// Bootstrap defines the hook and command tables in the scripting host.
func (e *Editor) Bootstrap() error {
	return plugin.Bootstrap(e.lua)
}

// LoadConfig reads the settings and runs the Lua configuration. It returns
// false if the Lua configuration failed.
func (e *Editor) LoadConfig() bool {
	return e.loadConfig("Failed to load configuration file")
}

// ReloadConfig is LoadConfig with the message used for reloads.
func (e *Editor) ReloadConfig() bool {
	return e.loadConfig("Failed to reload config")
}

func (e *Editor) loadConfig(failure string) bool {
	if err := e.config.Reload(); err != nil {
		e.logger.Warn("settings: %v", err)
		e.Feedback = feedback.Warning(fmt.Sprintf("Invalid settings in %s", e.config.SettingsPath()))
	}
	e.mux.SetQuantum(e.config.PollQuantum())
	e.applySettings()

	if err := e.config.RunLua(e.lua); err != nil {
		e.logger.Error("lua config %s: %v", e.config.LuaPath(), err)
		e.Feedback = feedback.Error(failure)
		return false
	}
	return true
}

// RunPlugins loads every discovered plugin. Failures are reported on the
// feedback line; the last one wins.
func (e *Editor) RunPlugins() {
	for _, info := range e.plugins.LoadAll(e.lua) {
		if info.Error == nil {
			continue
		}
		e.logger.Error("plugin %s: %v", info.Name, info.Error)
		e.classify(info.Name, info.Error)
	}
}

// ReloadPlugins rebuilds the scripting environment: bootstrap, then the
// configuration, then the plugins.
func (e *Editor) ReloadPlugins() {
	if err := e.Bootstrap(); err != nil {
		e.Fatal(err.Error())
		return
	}
	if !e.ReloadConfig() {
		return
	}
	e.RunPlugins()
}
