package config

import _ "embed"

// DefaultLua is the configuration used when no init.lua exists.
//
//go:embed default.lua
var DefaultLua string
