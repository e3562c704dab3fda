// Copyright (c) 2025, The lambdash Authors
// See LICENSE for licensing information

// Package config loads the shell configuration file.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultPS1 is the prompt template used when no config file is found.
const DefaultPS1 = "[color=yellow]λsh[/color] $PWD [color=red]($?)[/color] >"

// Config mirrors $HOME/.lambdash/Config.toml.
type Config struct {
	Prompt PromptConfig `toml:"prompt"`
}

// PromptConfig holds the prompt template.
type PromptConfig struct {
	PS1 string `toml:"ps1"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{Prompt: PromptConfig{PS1: DefaultPS1}}
}

// Path returns the config file location, or "" when HOME is unset.
func Path() string {
	home := os.Getenv("HOME")
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".lambdash", "Config.toml")
}

// Load reads the config file if present; a missing or malformed file
// falls back to [Default].
func Load() *Config {
	path := Path()
	if path == "" {
		return Default()
	}
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return Default()
	}
	if cfg.Prompt.PS1 == "" {
		cfg.Prompt.PS1 = DefaultPS1
	}
	return cfg
}
